// Package catalog holds the read-only product catalog consumed by the pricing engine.
package catalog

import "fmt"

// Line identifies a storefront product line.
type Line string

const (
	LineBoard Line = "board"
	LineDoor  Line = "door"
	LineTop   Line = "top"
)

// Lines lists every product line in display order.
var Lines = []Line{LineBoard, LineDoor, LineTop}

// ParseLine validates a product line identifier.
func ParseLine(raw string) (Line, error) {
	for _, l := range Lines {
		if string(l) == raw {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown product line %q", raw)
}

// ThicknessPrice is one entry of a thickness-indexed price map. Entries keep catalog order.
type ThicknessPrice struct {
	Thickness  float64 `json:"thickness"`
	PricePerM2 float64 `json:"pricePerM2"`
}

// Material is a sheet material a customer can order cut to size.
type Material struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Swatch      string  `json:"swatch,omitempty"`
	Description string  `json:"description,omitempty"`
	Density     float64 `json:"density"` // kg/m³

	// Zero bounds fall back to the product line defaults.
	MinWidth  float64 `json:"minWidth,omitempty"`
	MaxWidth  float64 `json:"maxWidth,omitempty"`
	MinLength float64 `json:"minLength,omitempty"`
	MaxLength float64 `json:"maxLength,omitempty"`

	AvailableThickness []float64        `json:"availableThickness"`
	ThicknessPrices    []ThicknessPrice `json:"thicknessPrices,omitempty"`
	PricePerM2         float64          `json:"pricePerM2,omitempty"`
}

// HasThickness reports whether t is one of the declared thicknesses.
func (m Material) HasThickness(t float64) bool {
	for _, v := range m.AvailableThickness {
		if v == t {
			return true
		}
	}
	return false
}

// ServiceKind tags how a processing service is priced and validated.
type ServiceKind string

const (
	ServiceSimple ServiceKind = "simple"
	ServiceDetail ServiceKind = "detail"
)

// Service is a processing operation applied to a material item.
type Service struct {
	ID             string      `json:"id"`
	Label          string      `json:"label"`
	Kind           ServiceKind `json:"kind"`
	PricePerHole   float64     `json:"pricePerHole,omitempty"`
	PricePerMeter  float64     `json:"pricePerMeter,omitempty"`
	PricePerCorner float64     `json:"pricePerCorner,omitempty"`
	FlatPrice      float64     `json:"flatPrice,omitempty"`
	Swatch         string      `json:"swatch,omitempty"`
	Description    string      `json:"description,omitempty"`
}

// Addon is a flat-priced accessory independent of material and size.
type Addon struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Tier is one step of a size-bounded price table.
type Tier struct {
	MaxWidth  float64 `json:"maxWidth"`
	MaxLength float64 `json:"maxLength"`
	Price     float64 `json:"price"`
}

// Catalog is the full set of options for one product line.
type Catalog struct {
	Line      Line              `json:"line"`
	Materials []Material        `json:"materials"`
	Services  []Service         `json:"services"`
	Addons    []Addon           `json:"addons"`
	Tiers     map[string][]Tier `json:"tiers,omitempty"` // keyed by material category
}

// Material looks up a material by id.
func (c *Catalog) Material(id string) (Material, bool) {
	for _, m := range c.Materials {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}

// Service looks up a processing service by id.
func (c *Catalog) Service(id string) (Service, bool) {
	for _, s := range c.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// Addon looks up an add-on item by id.
func (c *Catalog) Addon(id string) (Addon, bool) {
	for _, a := range c.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return Addon{}, false
}

// TiersFor returns the tier table of a material category, or nil.
func (c *Catalog) TiersFor(category string) []Tier {
	if c.Tiers == nil {
		return nil
	}
	return c.Tiers[category]
}
