package models

import "strings"

type Category string

const (
	CategoryBoots   Category = "BOOTS"
	CategoryBalls   Category = "BALLS"
	CategoryJerseys Category = "JERSEYS"
)

// CategoryOrder is the display priority used when listing the whole catalog.
var CategoryOrder = []Category{CategoryBoots, CategoryBalls, CategoryJerseys}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

func (c Category) Valid() bool {
	return c.Priority() < len(CategoryOrder)
}

// Priority returns the index in CategoryOrder; unknown categories sort last.
func (c Category) Priority() int {
	for i, v := range CategoryOrder {
		if v == c {
			return i
		}
	}
	return len(CategoryOrder)
}

type Brand string

const (
	BrandAdidas     Brand = "ADIDAS"
	BrandNike       Brand = "NIKE"
	BrandPuma       Brand = "PUMA"
	BrandMizuno     Brand = "MIZUNO"
	BrandNewBalance Brand = "NEW_BALANCE"
)

func ParseBrand(s string) (Brand, bool) {
	b := Brand(strings.ToUpper(strings.TrimSpace(s)))
	return b, b.Valid()
}

func (b Brand) Valid() bool {
	switch b {
	case BrandAdidas, BrandNike, BrandPuma, BrandMizuno, BrandNewBalance:
		return true
	}
	return false
}
