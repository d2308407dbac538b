package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ProductRef points at exactly one row of exactly one variant table.
// The only implementations are NotebookRef and SmartphoneRef.
type ProductRef interface {
	Variant() Variant
	ObjectID() uint
	isProductRef()
}

type NotebookRef uint

func (NotebookRef) Variant() Variant { return VariantNotebook }
func (r NotebookRef) ObjectID() uint { return uint(r) }
func (NotebookRef) isProductRef()    {}

type SmartphoneRef uint

func (SmartphoneRef) Variant() Variant { return VariantSmartphone }
func (r SmartphoneRef) ObjectID() uint { return uint(r) }
func (SmartphoneRef) isProductRef()    {}

// NewProductRef builds the typed reference for a (discriminator, row id) pair.
func NewProductRef(v Variant, id uint) (ProductRef, error) {
	switch v {
	case VariantNotebook:
		return NotebookRef(id), nil
	case VariantSmartphone:
		return SmartphoneRef(id), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

// Accessor reads rows of one variant table. The *gorm.DB passed in carries
// whatever conditions, ordering and limits the caller wants applied.
type Accessor interface {
	Variant() Variant
	Model() Product
	First(db *gorm.DB) (Product, error)
	Find(db *gorm.DB) ([]Product, error)
}

type tableAccessor[T any, PT interface {
	*T
	Product
}] struct {
	variant Variant
}

func (a tableAccessor[T, PT]) Variant() Variant { return a.variant }

func (a tableAccessor[T, PT]) Model() Product { return PT(new(T)) }

func (a tableAccessor[T, PT]) First(db *gorm.DB) (Product, error) {
	row := new(T)
	if err := db.Model(row).First(row).Error; err != nil {
		return nil, err
	}
	return PT(row), nil
}

func (a tableAccessor[T, PT]) Find(db *gorm.DB) ([]Product, error) {
	var rows []T
	if err := db.Model(new(T)).Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(rows))
	for i := range rows {
		products = append(products, PT(&rows[i]))
	}
	return products, nil
}

var registry = map[Variant]Accessor{
	VariantNotebook:   tableAccessor[Notebook, *Notebook]{variant: VariantNotebook},
	VariantSmartphone: tableAccessor[Smartphone, *Smartphone]{variant: VariantSmartphone},
}

func AccessorFor(v Variant) (Accessor, error) {
	a, ok := registry[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	return a, nil
}

// Resolve loads the product a reference points at.
func Resolve(db *gorm.DB, ref ProductRef) (Product, error) {
	a, err := AccessorFor(ref.Variant())
	if err != nil {
		return nil, err
	}
	p, err := a.First(db.Where("id = ?", ref.ObjectID()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s #%d", ErrBrokenReference, ref.Variant(), ref.ObjectID())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s #%d: %w", ref.Variant(), ref.ObjectID(), err)
	}
	return p, nil
}

// ProductModels returns one zero value per variant table, for migrations.
func ProductModels() []any {
	out := make([]any, 0, len(Variants))
	for _, v := range Variants {
		out = append(out, registry[v].Model())
	}
	return out
}
