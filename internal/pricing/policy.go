package pricing

import "github.com/Simplici0/ggr-quote/internal/catalog"

// PricingMode selects how the material cost of an item is derived.
type PricingMode string

const (
	// AreaRate multiplies the item area by a price per m².
	AreaRate PricingMode = "areaRate"
	// Tiered looks the size up in the material category's tier table.
	Tiered PricingMode = "tiered"
)

// ServiceCostMode selects how per-meter and per-corner services are priced.
type ServiceCostMode string

const (
	// ServiceCostFlat charges pricePerMeter or pricePerCorner once per item.
	ServiceCostFlat ServiceCostMode = "flat"
	// ServiceCostGeometry charges by perimeter in metres and by four corners.
	ServiceCostGeometry ServiceCostMode = "geometry"
)

// RangeMessageStyle selects how out-of-range sizes are reported.
type RangeMessageStyle string

const (
	// RangeCombined reports both limits: "폭은 100 ~ 800mm 사이여야 합니다."
	RangeCombined RangeMessageStyle = "combined"
	// RangeSplit reports only the violated limit.
	RangeSplit RangeMessageStyle = "split"
)

// Bounds are the default size limits of a product line, in mm.
type Bounds struct {
	MinWidth  float64 `json:"minWidth"`
	MaxWidth  float64 `json:"maxWidth"`
	MinLength float64 `json:"minLength"`
	MaxLength float64 `json:"maxLength"`
}

// PackingRate prices packing from the total order weight.
type PackingRate struct {
	PricePerKg float64 `json:"pricePerKg"`
	BasePrice  float64 `json:"basePrice"`
}

// Policy holds the per product line deltas of the engine.
type Policy struct {
	Line                catalog.Line    `json:"line"`
	ItemNoun            string          `json:"itemNoun"`
	PricingMode         PricingMode     `json:"pricingMode"`
	VATRate             float64         `json:"vatRate"`
	IncludePackingCost  bool            `json:"includePackingCost"`
	IncludeShippingCost bool            `json:"includeShippingCost"`
	ServiceCostMode     ServiceCostMode `json:"serviceCostMode"`
	Packing             PackingRate     `json:"packing"`
	Bounds              Bounds          `json:"bounds"`
	RequireConsent      bool            `json:"requireConsent"`
	CustomLabel         string          `json:"customLabel"`

	RangeMessages RangeMessageStyle `json:"rangeMessages"`

	// KitchenShapes enables L-shaped items with a second leg priced on top
	// of the first, plus ShapeFee.
	KitchenShapes bool    `json:"kitchenShapes"`
	ShapeFee      float64 `json:"shapeFee,omitempty"`
}

// DefaultVATRate is the VAT applied by the board line.
const DefaultVATRate = 0.1

var defaultPacking = PackingRate{PricePerKg: 400, BasePrice: 2000}

// DefaultPolicy returns the storefront's policy for a product line.
func DefaultPolicy(line catalog.Line) Policy {
	p := Policy{
		Line:                line,
		ItemNoun:            "합판",
		PricingMode:         AreaRate,
		VATRate:             DefaultVATRate,
		IncludePackingCost:  true,
		IncludeShippingCost: true,
		ServiceCostMode:     ServiceCostFlat,
		Packing:             defaultPacking,
		Bounds:              Bounds{MinWidth: 100, MaxWidth: 800, MinLength: 200, MaxLength: 2400},
		RequireConsent:      true,
		CustomLabel:         "비규격 상담 안내",
		RangeMessages:       RangeCombined,
	}

	switch line {
	case catalog.LineDoor:
		p.ItemNoun = "도어"
		p.PricingMode = Tiered
		p.VATRate = 0
		p.IncludePackingCost = false
		p.RangeMessages = RangeSplit
	case catalog.LineTop:
		p.ItemNoun = "상판"
		p.PricingMode = Tiered
		p.VATRate = 0
		p.IncludePackingCost = false
		p.IncludeShippingCost = false
		p.KitchenShapes = true
		p.ShapeFee = DefaultShapeFee
		p.Bounds = Bounds{MinWidth: 300, MaxWidth: 1200, MinLength: 300, MaxLength: 4000}
	}

	return p
}

// MaterialLabel names the material cost in totals, e.g. "합판비".
func (p Policy) MaterialLabel() string {
	return p.ItemNoun + "비"
}
