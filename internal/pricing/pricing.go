// Package pricing turns order item selections into cost breakdowns for one product line.
package pricing

import (
	"slices"

	"github.com/Simplici0/ggr-quote/internal/catalog"
)

// ItemInput represents the selections of one material item.
type ItemInput struct {
	MaterialID     string                `json:"materialId"`
	Thickness      float64               `json:"thickness"`
	Width          float64               `json:"width"`
	Length         float64               `json:"length"`
	Shape          Shape                 `json:"shape,omitempty"`
	Length2        float64               `json:"length2,omitempty"`
	Quantity       int                   `json:"quantity"`
	Services       []string              `json:"services"`
	ServiceDetails map[string]HoleDetail `json:"serviceDetails,omitempty"`
}

// Cost contains the derived cost fields of an order item.
type Cost struct {
	AreaM2         float64 `json:"areaM2"`
	MaterialCost   float64 `json:"materialCost"`
	ProcessingCost float64 `json:"processingCost"`
	Subtotal       float64 `json:"subtotal"`
	VAT            float64 `json:"vat"`
	Total          float64 `json:"total"`
	WeightKg       float64 `json:"weightKg"`
	IsCustomPrice  bool    `json:"isCustomPrice,omitempty"`
	IsAddon        bool    `json:"isAddon,omitempty"`
}

// Engine prices items against one product line catalog.
type Engine struct {
	Catalog *catalog.Catalog
	Policy  Policy
}

// New returns an engine for a catalog and its policy.
func New(cat *catalog.Catalog, policy Policy) *Engine {
	return &Engine{Catalog: cat, Policy: policy}
}

// ComputeItemCost prices a material item. Inputs are expected to have
// passed ValidateItemInputs; unknown materials price as zero.
func (e *Engine) ComputeItemCost(in ItemInput) Cost {
	m, _ := e.Catalog.Material(in.MaterialID)
	qty := float64(in.Quantity)

	areaM2 := (in.Width / 1000) * (in.Length / 1000)
	secondLeg := e.Policy.KitchenShapes && in.Shape.HasSecondLeg()
	if secondLeg {
		areaM2 += (in.Width / 1000) * (in.Length2 / 1000)
	}

	var materialCost float64
	var custom bool
	switch e.Policy.PricingMode {
	case Tiered:
		tiers := e.Catalog.TiersFor(m.Category)
		tp := ResolveTierPrice(tiers, in.Width, in.Length)
		price := tp.Price
		custom = tp.IsCustom
		if secondLeg {
			tp2 := ResolveTierPrice(tiers, in.Width, in.Length2)
			price += tp2.Price
			custom = custom || tp2.IsCustom
		}
		if custom {
			price = 0
		}
		materialCost = price * qty
	default:
		materialCost = areaM2 * ResolvePricePerArea(m, in.Thickness) * qty
	}

	processingCost := 0.0
	for _, id := range uniqueServices(in.Services) {
		s, ok := e.Catalog.Service(id)
		if !ok {
			continue
		}
		var detail *HoleDetail
		if d, ok := in.ServiceDetails[id]; ok {
			detail = &d
		}
		processingCost += ServiceUnitCost(s, detail, e.Policy.ServiceCostMode, in.Width, in.Length) * qty
	}
	if secondLeg {
		processingCost += e.Policy.ShapeFee * qty
	}

	weightKg := areaM2 * (in.Thickness / 1000) * m.Density * qty

	cost := e.finish(materialCost, processingCost)
	cost.AreaM2 = areaM2
	cost.WeightKg = weightKg
	cost.IsCustomPrice = custom
	return cost
}

// uniqueServices drops repeated ids, keeping the first occurrence.
func uniqueServices(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// ComputeAddonCost prices an add-on line. Add-ons carry no weight.
func (e *Engine) ComputeAddonCost(a catalog.Addon, quantity int) Cost {
	cost := e.finish(a.Price*float64(quantity), 0)
	cost.IsAddon = true
	return cost
}

func (e *Engine) finish(materialCost, processingCost float64) Cost {
	subtotal := materialCost + processingCost
	vat := roundHalfUp(subtotal * e.Policy.VATRate)
	return Cost{
		MaterialCost:   materialCost,
		ProcessingCost: processingCost,
		Subtotal:       subtotal,
		VAT:            vat,
		Total:          roundHalfUp(subtotal + vat),
	}
}
