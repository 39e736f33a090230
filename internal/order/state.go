// Package order keeps the customer's cart and drives the quote request flow.
package order

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/pricing"
)

// ItemType distinguishes material items from add-ons.
type ItemType string

const (
	ItemMaterial ItemType = "material"
	ItemAddon    ItemType = "addon"
)

// Item is one priced line of the cart. Cost fields are always derived from
// the selections and recomputed on every change.
type Item struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`

	MaterialID     string                        `json:"materialId,omitempty"`
	Thickness      float64                       `json:"thickness,omitempty"`
	Width          float64                       `json:"width,omitempty"`
	Length         float64                       `json:"length,omitempty"`
	Shape          pricing.Shape                 `json:"shape,omitempty"`
	Length2        float64                       `json:"length2,omitempty"`
	Services       []string                      `json:"services,omitempty"`
	ServiceDetails map[string]pricing.HoleDetail `json:"serviceDetails,omitempty"`

	AddonID  string `json:"addonId,omitempty"`
	Quantity int    `json:"quantity"`

	pricing.Cost
}

// Input returns the selections of a material item.
func (it Item) Input() pricing.ItemInput {
	return pricing.ItemInput{
		MaterialID:     it.MaterialID,
		Thickness:      it.Thickness,
		Width:          it.Width,
		Length:         it.Length,
		Shape:          it.Shape,
		Length2:        it.Length2,
		Quantity:       it.Quantity,
		Services:       it.Services,
		ServiceDetails: it.ServiceDetails,
	}
}

// State is the cart plus the selections still being drafted. Mutators
// return a new State and leave the receiver untouched.
type State struct {
	Items               []Item                        `json:"items"`
	DraftAddons         []string                      `json:"draftAddons,omitempty"`
	DraftServiceDetails map[string]pricing.HoleDetail `json:"draftServiceDetails,omitempty"`
}

func (s State) clone() State {
	out := State{
		Items:       slices.Clone(s.Items),
		DraftAddons: slices.Clone(s.DraftAddons),
	}
	if s.DraftServiceDetails != nil {
		out.DraftServiceDetails = make(map[string]pricing.HoleDetail, len(s.DraftServiceDetails))
		for k, v := range s.DraftServiceDetails {
			out.DraftServiceDetails[k] = v
		}
	}
	return out
}

// HasItems reports whether the cart holds anything.
func (s State) HasItems() bool {
	return len(s.Items) > 0
}

// SelectService starts drafting a service. Detail services get the default detail.
func (s State) SelectService(e *pricing.Engine, serviceID string) State {
	srv, ok := e.Catalog.Service(serviceID)
	if !ok || pricing.KindOf(srv) != catalog.ServiceDetail {
		return s
	}
	out := s.clone()
	if out.DraftServiceDetails == nil {
		out.DraftServiceDetails = map[string]pricing.HoleDetail{}
	}
	if _, exists := out.DraftServiceDetails[serviceID]; !exists {
		out.DraftServiceDetails[serviceID] = pricing.DefaultHoleDetail()
	}
	return out
}

// DeselectService drops the drafted detail of a service.
func (s State) DeselectService(serviceID string) State {
	out := s.clone()
	delete(out.DraftServiceDetails, serviceID)
	return out
}

// SetServiceDetail validates a detail and stores it in the draft on success.
func (s State) SetServiceDetail(e *pricing.Engine, serviceID string, raw *pricing.RawHoleDetail) (State, pricing.DetailResult) {
	res := e.ValidateServiceDetail(serviceID, raw)
	if !res.OK {
		return s, res
	}
	srv, _ := e.Catalog.Service(serviceID)
	if pricing.KindOf(srv) != catalog.ServiceDetail {
		return s, res
	}
	out := s.clone()
	if out.DraftServiceDetails == nil {
		out.DraftServiceDetails = map[string]pricing.HoleDetail{}
	}
	out.DraftServiceDetails[serviceID] = res.Detail
	return out, res
}

// AddItem validates a material item and appends it priced. Details missing
// from the input are taken from the draft, which is cleared afterwards.
// Every detail is validated before pricing.
func (s State) AddItem(e *pricing.Engine, in pricing.ItemInput) (State, error) {
	details := map[string]pricing.HoleDetail{}
	for _, id := range in.Services {
		if d, ok := in.ServiceDetails[id]; ok {
			details[id] = d
		} else if d, ok := s.DraftServiceDetails[id]; ok {
			details[id] = d
		}
	}
	in.ServiceDetails = details

	in, msg := e.PrepareItem(in)
	if msg != "" {
		return s, invalid(msg)
	}

	item := Item{
		ID:             uuid.NewString(),
		Type:           ItemMaterial,
		MaterialID:     in.MaterialID,
		Thickness:      in.Thickness,
		Width:          in.Width,
		Length:         in.Length,
		Shape:          in.Shape,
		Length2:        in.Length2,
		Services:       in.Services,
		ServiceDetails: in.ServiceDetails,
		Quantity:       in.Quantity,
		Cost:           e.ComputeItemCost(in),
	}

	out := s.clone()
	out.Items = append(out.Items, item)
	out.DraftServiceDetails = nil
	return out, nil
}

// ToggleDraftAddon adds or removes an add-on from the draft selection.
func (s State) ToggleDraftAddon(addonID string) State {
	out := s.clone()
	if i := slices.Index(out.DraftAddons, addonID); i >= 0 {
		out.DraftAddons = slices.Delete(out.DraftAddons, i, i+1)
		return out
	}
	out.DraftAddons = append(out.DraftAddons, addonID)
	return out
}

// AddAddons moves the drafted add-ons into the cart with quantity 1. Add-ons
// already in the cart are skipped and reported in notice. When nothing new
// can be added the state is returned unchanged with a ValidationError.
func (s State) AddAddons(e *pricing.Engine) (next State, notice string, err error) {
	if len(s.DraftAddons) == 0 {
		return s, "", invalid("부자재를 선택해주세요.")
	}

	inCart := map[string]bool{}
	for _, it := range s.Items {
		if it.Type == ItemAddon {
			inCart[it.AddonID] = true
		}
	}

	var dupNames []string
	var fresh []string
	for _, id := range s.DraftAddons {
		if inCart[id] {
			name := id
			if a, ok := e.Catalog.Addon(id); ok {
				name = a.Name
			}
			dupNames = append(dupNames, name)
			continue
		}
		fresh = append(fresh, id)
	}

	if len(dupNames) > 0 && len(fresh) == 0 {
		return s, "", invalid("이미 담겨있는 부자재입니다: " + strings.Join(dupNames, ", "))
	}
	if len(dupNames) > 0 {
		notice = "이미 담겨있는 부자재는 제외하고 추가합니다: " + strings.Join(dupNames, ", ")
	}

	out := s.clone()
	for _, id := range fresh {
		a, ok := e.Catalog.Addon(id)
		if !ok {
			continue
		}
		out.Items = append(out.Items, Item{
			ID:       uuid.NewString(),
			Type:     ItemAddon,
			AddonID:  id,
			Quantity: 1,
			Cost:     e.ComputeAddonCost(a, 1),
		})
	}
	out.DraftAddons = nil
	return out, notice, nil
}

// UpdateQuantity sets an item's quantity, clamped to at least 1, and
// recomputes its cost. Unknown ids leave the state unchanged.
func (s State) UpdateQuantity(e *pricing.Engine, id string, quantity int) State {
	i := slices.IndexFunc(s.Items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return s
	}
	if quantity < 1 {
		quantity = 1
	}

	out := s.clone()
	it := out.Items[i]
	it.Quantity = quantity
	if it.Type == ItemAddon {
		a, _ := e.Catalog.Addon(it.AddonID)
		it.Cost = e.ComputeAddonCost(a, quantity)
	} else {
		it.Cost = e.ComputeItemCost(it.Input())
	}
	out.Items[i] = it
	return out
}

// Remove deletes an item by id.
func (s State) Remove(id string) State {
	out := s.clone()
	out.Items = slices.DeleteFunc(out.Items, func(it Item) bool { return it.ID == id })
	return out
}

// Costs returns the derived cost of every item in cart order.
func (s State) Costs() []pricing.Cost {
	costs := make([]pricing.Cost, len(s.Items))
	for i, it := range s.Items {
		costs[i] = it.Cost
	}
	return costs
}

// Summary re-aggregates the whole cart.
func (s State) Summary(e *pricing.Engine) pricing.Summary {
	return e.ComputeOrderSummary(s.Costs())
}
