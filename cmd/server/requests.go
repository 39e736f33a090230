package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/Simplici0/ggr-quote/internal/order"
	"github.com/Simplici0/ggr-quote/internal/pricing"
)

const maxBodyBytes = 1 << 20

type addonRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// cartRequest carries a whole cart. The server keeps no order state, so
// every call replays it through the order mutators.
type cartRequest struct {
	Items    []pricing.ItemInput `json:"items"`
	Addons   []addonRequest      `json:"addons"`
	Customer order.Customer      `json:"customer"`
	Consent  bool                `json:"consent"`
}

type cartResponse struct {
	Items   []order.Item    `json:"items"`
	Summary pricing.Summary `json:"summary"`
	Notice  string          `json:"notice,omitempty"`
}

type quoteResponse struct {
	cartResponse
	Phase   string `json:"phase"`
	Subject string `json:"subject"`
}

type messageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type validateResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// buildState adds the requested material items, then the requested add-ons
// with their quantities.
func buildState(e *pricing.Engine, req cartRequest) (order.State, string, error) {
	var s order.State
	for _, in := range req.Items {
		next, err := s.AddItem(e, in)
		if err != nil {
			return order.State{}, "", err
		}
		s = next
	}

	if len(req.Addons) == 0 {
		return s, "", nil
	}

	quantities := map[string]int{}
	for _, a := range req.Addons {
		if _, ok := e.Catalog.Addon(a.ID); !ok {
			return order.State{}, "", &order.ValidationError{Message: "알 수 없는 부자재입니다: " + a.ID}
		}
		if slices.Contains(s.DraftAddons, a.ID) {
			continue
		}
		s = s.ToggleDraftAddon(a.ID)
		quantities[a.ID] = a.Quantity
	}

	s, notice, err := s.AddAddons(e)
	if err != nil {
		return order.State{}, "", err
	}
	for _, it := range s.Items {
		if q := quantities[it.AddonID]; it.Type == order.ItemAddon && q > 1 {
			s = s.UpdateQuantity(e, it.ID, q)
		}
	}
	return s, notice, nil
}
