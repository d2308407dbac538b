package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Variant identifies one concrete product type. Its value doubles as the
// discriminator stored in polymorphic line-item references.
type Variant string

const (
	VariantNotebook   Variant = "notebook"
	VariantSmartphone Variant = "smartphone"
)

// Variants lists every concrete product type in display order.
var Variants = []Variant{VariantNotebook, VariantSmartphone}

func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Priced is implemented by anything that can be put in a cart.
type Priced interface {
	UnitPrice() decimal.Decimal
}

// Specified is implemented by anything that has a technical specification table.
type Specified interface {
	Specification() []SpecRow
}

// Product is the behaviour shared by every concrete product variant.
type Product interface {
	Priced
	Specified
	Variant() Variant
	Base() *ProductBase
	Ref() ProductRef
}

// ProductBase holds the columns every variant table shares.
type ProductBase struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	CategoryID  uint            `gorm:"not null;index" json:"categoryId" binding:"required"`
	Title       string          `gorm:"size:255;not null" json:"title" binding:"required"`
	Slug        string          `gorm:"size:255;not null;uniqueIndex" json:"slug" binding:"required"`
	Image       string          `gorm:"size:512" json:"image"`
	Description *string         `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"price"`
}

func (p *ProductBase) Base() *ProductBase { return p }

func (p *ProductBase) UnitPrice() decimal.Decimal { return p.Price }

type Notebook struct {
	ProductBase
	Diagonal          string `gorm:"size:255;not null" json:"diagonal"`
	DisplayType       string `gorm:"size:255;not null" json:"displayType"`
	ProcessorFreq     string `gorm:"size:255;not null" json:"processorFreq"`
	RAM               string `gorm:"column:ram;size:255;not null" json:"ram"`
	Video             string `gorm:"size:255;not null" json:"video"`
	TimeWithoutCharge string `gorm:"size:255;not null" json:"timeWithoutCharge"`
}

func (Notebook) TableName() string { return "notebooks" }

func (*Notebook) Variant() Variant { return VariantNotebook }

func (n *Notebook) Ref() ProductRef { return NotebookRef(n.ID) }

type Smartphone struct {
	ProductBase
	Diagonal     string  `gorm:"size:255;not null" json:"diagonal"`
	DisplayType  string  `gorm:"size:255;not null" json:"displayType"`
	Resolution   string  `gorm:"size:255;not null" json:"resolution"`
	AccumVolume  string  `gorm:"size:255;not null" json:"accumVolume"`
	RAM          string  `gorm:"column:ram;size:255;not null" json:"ram"`
	SD           bool    `gorm:"column:sd;not null" json:"sd"`
	SDVolumeMax  *string `gorm:"column:sd_volume_max;size:255" json:"sdVolumeMax"`
	MainCamMP    string  `gorm:"column:main_cam_mp;size:255;not null" json:"mainCamMp"`
	FrontalCamMP string  `gorm:"column:frontal_cam_mp;size:255;not null" json:"frontalCamMp"`
}

func (Smartphone) TableName() string { return "smartphones" }

func (*Smartphone) Variant() Variant { return VariantSmartphone }

func (s *Smartphone) Ref() ProductRef { return SmartphoneRef(s.ID) }

// ProductURL is the public detail path of a product.
func ProductURL(p Product) string {
	return fmt.Sprintf("/products/%s/%s", p.Variant(), p.Base().Slug)
}

var (
	_ Product = (*Notebook)(nil)
	_ Product = (*Smartphone)(nil)
)
