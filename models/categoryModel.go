package models

import (
	"fmt"
	"time"
)

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
}

func (c Category) URL() string { return "/category/" + c.Slug }

// categoryVariants ties a category name to the variant table its products live in.
// Keep it in step with the category names stored in the database; CreateCategory
// refuses names missing from it.
var categoryVariants = map[string]Variant{
	"Notebooks":   VariantNotebook,
	"Smartphones": VariantSmartphone,
}

func VariantForCategory(name string) (Variant, error) {
	v, ok := categoryVariants[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedCategory, name)
	}
	return v, nil
}

// CategoryNames returns the names that have a variant mapping.
func CategoryNames() []string {
	names := make([]string, 0, len(categoryVariants))
	for _, v := range Variants {
		for name, mapped := range categoryVariants {
			if mapped == v {
				names = append(names, name)
			}
		}
	}
	return names
}

func checkVariantTables() error {
	covered := make(map[Variant]bool, len(Variants))
	for name, v := range categoryVariants {
		if _, ok := registry[v]; !ok {
			return fmt.Errorf("category %q maps to unregistered variant %q", name, v)
		}
		covered[v] = true
	}
	for _, v := range Variants {
		if _, ok := registry[v]; !ok {
			return fmt.Errorf("variant %q has no accessor", v)
		}
		if !covered[v] {
			return fmt.Errorf("variant %q is not reachable from any category", v)
		}
	}
	return nil
}

func init() {
	if err := checkVariantTables(); err != nil {
		panic(err)
	}
}
