package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/ggr-quote/internal/catalog"
)

// KindOf reports how a service is dispatched. Services priced per hole are
// detail services even when the catalog marks them simple.
func KindOf(s catalog.Service) catalog.ServiceKind {
	if s.Kind == catalog.ServiceDetail || s.PricePerHole != 0 {
		return catalog.ServiceDetail
	}
	return catalog.ServiceSimple
}

// Edge is the horizontal reference of a hole position.
type Edge string

const (
	EdgeLeft  Edge = "left"
	EdgeRight Edge = "right"
)

// VerticalRef is the vertical reference of a hole position.
type VerticalRef string

const (
	RefTop    VerticalRef = "top"
	RefBottom VerticalRef = "bottom"
)

// Hole is one drilled position, measured in mm from its references.
type Hole struct {
	Edge             Edge        `json:"edge"`
	Distance         float64     `json:"distance"`
	VerticalRef      VerticalRef `json:"verticalRef"`
	VerticalDistance float64     `json:"verticalDistance"`
}

// HoleDetail is the canonical detail payload of a hole service.
type HoleDetail struct {
	Holes []Hole `json:"holes"`
	Note  string `json:"note"`
}

// RawHole is a hole as entered by the customer. Distances may arrive as
// numbers, numeric strings or be missing.
type RawHole struct {
	Edge             string `json:"edge"`
	Distance         any    `json:"distance"`
	VerticalRef      string `json:"verticalRef"`
	VerticalDistance any    `json:"verticalDistance"`
}

// RawHoleDetail is an unvalidated detail payload. A nil Holes slice means the
// field was absent.
type RawHoleDetail struct {
	Holes []RawHole `json:"holes"`
	Note  string    `json:"note"`
}

// Raw converts a canonical detail back into input form so it can be
// validated again.
func (d HoleDetail) Raw() *RawHoleDetail {
	raw := &RawHoleDetail{Holes: make([]RawHole, len(d.Holes)), Note: d.Note}
	for i, h := range d.Holes {
		raw.Holes[i] = RawHole{
			Edge:             string(h.Edge),
			Distance:         h.Distance,
			VerticalRef:      string(h.VerticalRef),
			VerticalDistance: h.VerticalDistance,
		}
	}
	return raw
}

func defaultHole() Hole {
	return Hole{Edge: EdgeLeft, Distance: 100, VerticalRef: RefTop, VerticalDistance: 100}
}

// DefaultHoleDetail is the detail a hole service starts with when selected.
func DefaultHoleDetail() HoleDetail {
	return HoleDetail{Holes: []Hole{defaultHole()}}
}

// NormalizeDetail coerces a raw payload into canonical form. Distances that
// cannot be read as numbers become NaN and are dropped by validation.
func NormalizeDetail(raw *RawHoleDetail) HoleDetail {
	if raw == nil || raw.Holes == nil {
		return DefaultHoleDetail()
	}
	if len(raw.Holes) == 0 {
		return HoleDetail{Holes: []Hole{defaultHole()}, Note: raw.Note}
	}

	holes := make([]Hole, 0, len(raw.Holes))
	for _, h := range raw.Holes {
		hole := Hole{
			Edge:             EdgeLeft,
			Distance:         toNumber(h.Distance),
			VerticalRef:      RefTop,
			VerticalDistance: toNumber(h.VerticalDistance),
		}
		if h.Edge == string(EdgeRight) {
			hole.Edge = EdgeRight
		}
		if h.VerticalRef == string(RefBottom) {
			hole.VerticalRef = RefBottom
		}
		holes = append(holes, hole)
	}
	return HoleDetail{Holes: holes, Note: raw.Note}
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

func validHole(h Hole) bool {
	return isPositiveFinite(h.Distance) && isPositiveFinite(h.VerticalDistance)
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// DetailResult is the outcome of validating a service detail.
type DetailResult struct {
	OK      bool       `json:"ok"`
	Detail  HoleDetail `json:"detail"`
	Message string     `json:"message"`
}

// Count returns the number of priced units a detail represents.
func Count(detail *HoleDetail) int {
	if detail == nil || len(detail.Holes) == 0 {
		return 1
	}
	return len(detail.Holes)
}

// ServiceUnitCost is the cost of one service applied to a single item.
// Hole pricing wins over metre pricing, which wins over corner pricing.
func ServiceUnitCost(s catalog.Service, detail *HoleDetail, mode ServiceCostMode, width, length float64) float64 {
	switch {
	case s.PricePerHole != 0:
		return s.PricePerHole * float64(Count(detail))
	case s.PricePerMeter != 0:
		if mode == ServiceCostGeometry {
			return 2 * (width + length) / 1000 * s.PricePerMeter
		}
		return s.PricePerMeter
	case s.PricePerCorner != 0:
		if mode == ServiceCostGeometry {
			return 4 * s.PricePerCorner
		}
		return s.PricePerCorner
	default:
		return s.FlatPrice
	}
}

// FormatHoleDetail renders a detail for quote text, e.g.
// "2개 · 좌 100mm / 상 100mm, 우 50mm / 하 30mm · 메모: 확인".
func FormatHoleDetail(detail *HoleDetail, includeNote bool) string {
	if detail == nil {
		return "세부 옵션 미입력"
	}

	positions := make([]string, 0, len(detail.Holes))
	for _, h := range detail.Holes {
		var parts []string
		if h.Distance != 0 && !math.IsNaN(h.Distance) {
			edge := "좌"
			if h.Edge == EdgeRight {
				edge = "우"
			}
			parts = append(parts, edge+" "+FormatNumber(h.Distance)+"mm")
		}
		if h.VerticalDistance != 0 && !math.IsNaN(h.VerticalDistance) {
			ref := "상"
			if h.VerticalRef == RefBottom {
				ref = "하"
			}
			parts = append(parts, ref+" "+FormatNumber(h.VerticalDistance)+"mm")
		}
		if len(parts) > 0 {
			positions = append(positions, strings.Join(parts, " / "))
		}
	}

	out := strconv.Itoa(Count(detail)) + "개"
	if len(positions) > 0 {
		out += " · " + strings.Join(positions, ", ")
	}
	if includeNote && detail.Note != "" {
		out += " · 메모: " + detail.Note
	}
	return out
}

// FormatServiceList renders the selected services of an item, "-" when none.
func FormatServiceList(cat *catalog.Catalog, services []string, details map[string]HoleDetail, includeNote bool) string {
	if len(services) == 0 {
		return "-"
	}

	labels := make([]string, 0, len(services))
	for _, id := range services {
		s, ok := cat.Service(id)
		if !ok {
			labels = append(labels, id)
			continue
		}
		if KindOf(s) != catalog.ServiceDetail {
			labels = append(labels, s.Label)
			continue
		}
		var detail *HoleDetail
		if d, ok := details[id]; ok {
			detail = &d
		}
		labels = append(labels, s.Label+" ("+FormatHoleDetail(detail, includeNote)+")")
	}
	return strings.Join(labels, ", ")
}
