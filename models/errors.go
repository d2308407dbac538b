package models

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownVariant    = errors.New("unknown product variant")
	ErrUnmappedCategory  = errors.New("category has no product variant mapping")
	ErrBrokenReference   = errors.New("line item references a missing product")
	ErrDuplicateSlug     = errors.New("slug already exists")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidBuyingType = errors.New("invalid buying type")
	ErrEmptyCart         = errors.New("cart has no products")
	ErrCartCheckedOut    = errors.New("cart is already checked out")
)
