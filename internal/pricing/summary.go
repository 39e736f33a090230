package pricing

import "math"

// Summary aggregates every item of an order.
type Summary struct {
	MaterialsTotal  float64 `json:"materialsTotal"`
	ProcessingTotal float64 `json:"processingTotal"`
	Subtotal        float64 `json:"subtotal"`
	VAT             float64 `json:"vat"`
	TotalWeight     float64 `json:"totalWeight"`
	PackingCost     float64 `json:"packingCost"`
	ShippingCost    float64 `json:"shippingCost"`
	GrandTotal      float64 `json:"grandTotal"`
	NaverUnits      int     `json:"naverUnits"`
	CustomItems     int     `json:"customItems"`
}

// PackingCost is zero for a weightless order and otherwise never below the base price.
func PackingCost(totalWeightKg float64, rate PackingRate) float64 {
	if totalWeightKg == 0 {
		return 0
	}
	return math.Max(roundHalfUp(totalWeightKg*rate.PricePerKg), rate.BasePrice)
}

// ShippingCost is a step function of the total order weight.
func ShippingCost(totalWeightKg float64) float64 {
	switch {
	case totalWeightKg == 0:
		return 0
	case totalWeightKg <= 10:
		return 4000
	case totalWeightKg <= 20:
		return 6000
	case totalWeightKg <= 30:
		return 8000
	default:
		return 8000 + math.Ceil((totalWeightKg-30)/10)*3000
	}
}

// ComputeOrderSummary re-aggregates the order from its item costs.
func (e *Engine) ComputeOrderSummary(items []Cost) Summary {
	var s Summary
	for _, c := range items {
		if !c.IsAddon {
			s.MaterialsTotal += c.MaterialCost
		}
		if c.IsCustomPrice {
			s.CustomItems++
		}
		s.ProcessingTotal += c.ProcessingCost
		s.Subtotal += c.Subtotal
		s.VAT += c.VAT
		s.TotalWeight += c.WeightKg
	}

	if e.Policy.IncludePackingCost {
		s.PackingCost = PackingCost(s.TotalWeight, e.Policy.Packing)
	}
	if e.Policy.IncludeShippingCost {
		s.ShippingCost = ShippingCost(s.TotalWeight)
	}

	s.GrandTotal = s.Subtotal + s.PackingCost + s.ShippingCost + s.VAT
	s.NaverUnits = int(math.Ceil(s.GrandTotal / 1000))
	return s
}
