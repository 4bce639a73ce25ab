package types

import (
	"fmt"
	"strings"
)

type Resource struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
	Stock    int    `json:"stock"` // legacy mirror of Quantity
}

// Normalize clamps the quantity at zero and copies it into Stock.
func (r Resource) Normalize() Resource {
	if r.Quantity < 0 {
		r.Quantity = 0
	}
	r.Stock = r.Quantity
	return r
}

// WithQuantity returns r with both quantity fields set to qty.
func (r Resource) WithQuantity(qty int) Resource {
	r.Quantity = qty
	return r.Normalize()
}

func (r Resource) String() string {
	return fmt.Sprintf("%s: %d", r.Name, r.Quantity)
}

func CloneResources(in []Resource) []Resource {
	if in == nil {
		return nil
	}
	out := make([]Resource, len(in))
	copy(out, in)
	return out
}

// NormalizeResources returns a normalized copy of in.
func NormalizeResources(in []Resource) []Resource {
	out := make([]Resource, len(in))
	for i, r := range in {
		out[i] = r.Normalize()
	}
	return out
}

// DefaultResources builds the seeded resource set for a disaster type.
func DefaultResources(t DisasterType) []Resource {
	names := DefaultResourcesByType[t]
	out := make([]Resource, 0, len(names))
	for i, name := range names {
		out = append(out, Resource{
			ID:       i + 1,
			Name:     name,
			Quantity: DefaultResourceQuantity,
			Stock:    DefaultResourceQuantity,
			Category: string(t),
		})
	}
	return out
}

// FormatResources renders "name: quantity" pairs joined by commas, or "None" for an empty list.
func FormatResources(rs []Resource) string {
	if len(rs) == 0 {
		return "None"
	}
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
