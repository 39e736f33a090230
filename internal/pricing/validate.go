package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/ggr-quote/internal/catalog"
)

// ValidateItemInputs checks an item field by field and returns the first
// failing message, or "" when the item can be priced.
func (e *Engine) ValidateItemInputs(in ItemInput) string {
	noun := e.Policy.ItemNoun
	m, ok := e.Catalog.Material(in.MaterialID)

	if in.MaterialID == "" || !ok {
		return WithObject(noun) + " 선택해주세요."
	}
	if e.Policy.KitchenShapes && !in.Shape.Valid() {
		return "주방 형태를 선택해주세요."
	}
	if in.Thickness == 0 {
		return "두께를 선택해주세요."
	}
	if in.Width == 0 {
		return "폭을 입력해주세요."
	}
	b := e.boundsFor(m)
	if msg := e.rangeMessage("폭", in.Width, b.MinWidth, b.MaxWidth); msg != "" {
		return msg
	}
	if in.Length == 0 {
		return "길이를 입력해주세요."
	}
	if msg := e.rangeMessage("길이", in.Length, b.MinLength, b.MaxLength); msg != "" {
		return msg
	}
	if e.Policy.KitchenShapes && in.Shape.HasSecondLeg() {
		if in.Length2 == 0 {
			return "ㄱ자 형태일 때 길이2를 입력해주세요."
		}
		if msg := e.rangeMessage("길이2", in.Length2, b.MinLength, b.MaxLength); msg != "" {
			return msg
		}
	}
	if in.Quantity <= 0 {
		return "수량은 1개 이상이어야 합니다."
	}
	if !m.HasThickness(in.Thickness) {
		ts := make([]string, 0, len(m.AvailableThickness))
		for _, t := range m.AvailableThickness {
			ts = append(ts, FormatNumber(t))
		}
		return fmt.Sprintf("선택한 %s %sT만 가능합니다.", WithTopic(noun), strings.Join(ts, ", "))
	}
	return ""
}

func (e *Engine) rangeMessage(field string, v, lo, hi float64) string {
	if v >= lo && v <= hi {
		return ""
	}
	if e.Policy.RangeMessages == RangeSplit {
		if v < lo {
			return fmt.Sprintf("%s 최소 %smm 이상이어야 합니다.", WithTopic(field), FormatNumber(lo))
		}
		return fmt.Sprintf("%s 최대 %smm 이하만 가능합니다.", WithTopic(field), FormatNumber(hi))
	}
	return fmt.Sprintf("%s %s ~ %smm 사이여야 합니다.", WithTopic(field), FormatNumber(lo), FormatNumber(hi))
}

// PrepareItem validates an item and returns it in canonical form: repeated
// services dropped, every detail service carrying its validated detail and
// simple services carrying none. A missing detail validates as the default.
func (e *Engine) PrepareItem(in ItemInput) (ItemInput, string) {
	if msg := e.ValidateItemInputs(in); msg != "" {
		return in, msg
	}

	out := in
	out.Services = uniqueServices(in.Services)
	out.ServiceDetails = map[string]HoleDetail{}
	for _, id := range out.Services {
		s, ok := e.Catalog.Service(id)
		if !ok || KindOf(s) != catalog.ServiceDetail {
			continue
		}
		var raw *RawHoleDetail
		if d, ok := in.ServiceDetails[id]; ok {
			raw = d.Raw()
		}
		res := e.ValidateServiceDetail(id, raw)
		if !res.OK {
			return in, res.Message
		}
		out.ServiceDetails[id] = res.Detail
	}
	if !e.Policy.KitchenShapes {
		out.Shape = ""
	}
	if !out.Shape.HasSecondLeg() {
		out.Length2 = 0
	}
	return out, ""
}

// BoundsFor returns the effective size limits of a material.
func (e *Engine) BoundsFor(materialID string) Bounds {
	m, _ := e.Catalog.Material(materialID)
	return e.boundsFor(m)
}

func (e *Engine) boundsFor(m catalog.Material) Bounds {
	b := e.Policy.Bounds
	if m.MinWidth != 0 {
		b.MinWidth = m.MinWidth
	}
	if m.MaxWidth != 0 {
		b.MaxWidth = m.MaxWidth
	}
	if m.MinLength != 0 {
		b.MinLength = m.MinLength
	}
	if m.MaxLength != 0 {
		b.MaxLength = m.MaxLength
	}
	return b
}

// ValidateServiceDetail normalizes a raw detail and keeps only holes with
// positive finite positions. Simple services always pass.
func (e *Engine) ValidateServiceDetail(serviceID string, raw *RawHoleDetail) DetailResult {
	s, ok := e.Catalog.Service(serviceID)
	if !ok {
		return DetailResult{Message: "세부 옵션을 설정해주세요."}
	}
	if KindOf(s) != catalog.ServiceDetail {
		return DetailResult{OK: true}
	}

	normalized := NormalizeDetail(raw)
	valid := make([]Hole, 0, len(normalized.Holes))
	for _, h := range normalized.Holes {
		if validHole(h) {
			valid = append(valid, h)
		}
	}
	if len(valid) == 0 {
		return DetailResult{
			Message: s.Label + "의 가로·세로 위치를 1개 이상 입력해주세요.",
			Detail:  sanitizeDetail(normalized),
		}
	}

	return DetailResult{
		OK:     true,
		Detail: HoleDetail{Holes: valid, Note: strings.TrimSpace(normalized.Note)},
	}
}

// sanitizeDetail zeroes values that cannot be encoded as JSON numbers.
func sanitizeDetail(d HoleDetail) HoleDetail {
	out := HoleDetail{Holes: make([]Hole, len(d.Holes)), Note: d.Note}
	for i, h := range d.Holes {
		if math.IsNaN(h.Distance) || math.IsInf(h.Distance, 0) {
			h.Distance = 0
		}
		if math.IsNaN(h.VerticalDistance) || math.IsInf(h.VerticalDistance, 0) {
			h.VerticalDistance = 0
		}
		out.Holes[i] = h
	}
	return out
}
