package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/ggr-quote/internal/catalog"
)

// ResolvePricePerArea returns the price per m² of a material at the given
// thickness. A zero thickness means none was chosen.
//
// Lookup order: the exact thickness, the first declared available thickness
// that has a price, the first entry of the price map, then the flat price.
// Zero prices count as missing.
func ResolvePricePerArea(m catalog.Material, thickness float64) float64 {
	if len(m.ThicknessPrices) > 0 {
		if thickness != 0 {
			if p, ok := thicknessPrice(m.ThicknessPrices, thickness); ok && p != 0 {
				return p
			}
		}
		for _, t := range m.AvailableThickness {
			if p, ok := thicknessPrice(m.ThicknessPrices, t); ok && p != 0 {
				return p
			}
		}
		if first := m.ThicknessPrices[0].PricePerM2; first != 0 {
			return first
		}
	}
	return m.PricePerM2
}

func thicknessPrice(prices []catalog.ThicknessPrice, thickness float64) (float64, bool) {
	for _, tp := range prices {
		if tp.Thickness == thickness {
			return tp.PricePerM2, true
		}
	}
	return 0, false
}

// TierPrice is the result of a tier table lookup.
type TierPrice struct {
	Price    float64 `json:"price"`
	IsCustom bool    `json:"isCustom"`
}

// ResolveTierPrice returns the price of the first tier whose bounds contain
// both width and length. No match flags the size as custom with price 0.
func ResolveTierPrice(tiers []catalog.Tier, width, length float64) TierPrice {
	for _, t := range tiers {
		if width <= t.MaxWidth && length <= t.MaxLength {
			return TierPrice{Price: t.Price}
		}
	}
	return TierPrice{IsCustom: true}
}

// FormatTierLabel renders a tier table for display, ending with customLabel.
func FormatTierLabel(tiers []catalog.Tier, customLabel string) string {
	parts := make([]string, 0, len(tiers)+1)
	for _, t := range tiers {
		parts = append(parts, FormatNumber(t.MaxWidth)+"×"+FormatNumber(t.MaxLength)+" 이하 "+FormatWon(t.Price)+"원")
	}
	parts = append(parts, customLabel)
	return strings.Join(parts, " / ")
}

// FormatWon renders a money amount with thousands separators.
func FormatWon(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// FormatNumber renders a measurement without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
