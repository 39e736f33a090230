package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/order"
	"github.com/Simplici0/ggr-quote/internal/pricing"
	"github.com/Simplici0/ggr-quote/internal/quote"
)

// lineService is everything the handlers need for one product line.
type lineService struct {
	engine *pricing.Engine
	sender order.Sender
}

type server struct {
	lines   map[catalog.Line]*lineService
	pdfFont string
	logger  *zap.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/{line}", func(r chi.Router) {
		r.Use(s.withLine)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/items/validate", s.handleValidateItem)
		r.Post("/items/cost", s.handleItemCost)
		r.Post("/services/{serviceID}/detail", s.handleServiceDetail)
		r.Post("/summary", s.handleSummary)
		r.Post("/quotes", s.handleSubmitQuote)
		r.Post("/quotes/pdf", s.handleQuotePDF)
		r.Post("/quotes/xlsx", s.handleQuoteXLSX)
	})
	return r
}

func (s *server) withLine(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line, err := catalog.ParseLine(chi.URLParam(r, "line"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
			return
		}
		ls, ok := s.lines[line]
		if !ok {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: fmt.Sprintf("product line %q is not loaded", line)})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), lineKey, ls)))
	})
}

func lineFrom(r *http.Request) *lineService {
	ls, _ := r.Context().Value(lineKey).(*lineService)
	return ls
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type materialView struct {
	catalog.Material
	DisplayPrices []catalog.ThicknessPrice `json:"displayPrices,omitempty"`
	TierLabel     string                   `json:"tierLabel,omitempty"`
	Bounds        pricing.Bounds           `json:"bounds"`
}

type catalogResponse struct {
	Line      catalog.Line      `json:"line"`
	Policy    pricing.Policy    `json:"policy"`
	Materials []materialView    `json:"materials"`
	Services  []catalog.Service `json:"services"`
	Addons    []catalog.Addon   `json:"addons"`
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	e := lineFrom(r).engine
	cat := e.Catalog

	materials := make([]materialView, 0, len(cat.Materials))
	for _, m := range cat.Materials {
		v := materialView{Material: m, Bounds: e.BoundsFor(m.ID)}
		if e.Policy.PricingMode == pricing.Tiered {
			v.TierLabel = pricing.FormatTierLabel(cat.TiersFor(m.Category), e.Policy.CustomLabel)
		} else {
			for _, t := range m.AvailableThickness {
				v.DisplayPrices = append(v.DisplayPrices, catalog.ThicknessPrice{
					Thickness:  t,
					PricePerM2: pricing.ResolvePricePerArea(m, t),
				})
			}
		}
		materials = append(materials, v)
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Line:      cat.Line,
		Policy:    e.Policy,
		Materials: materials,
		Services:  cat.Services,
		Addons:    cat.Addons,
	})
}

func (s *server) handleValidateItem(w http.ResponseWriter, r *http.Request) {
	var in pricing.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	_, msg := lineFrom(r).engine.PrepareItem(in)
	writeJSON(w, http.StatusOK, validateResponse{OK: msg == "", Message: msg})
}

func (s *server) handleItemCost(w http.ResponseWriter, r *http.Request) {
	var in pricing.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	e := lineFrom(r).engine
	in, msg := e.PrepareItem(in)
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, e.ComputeItemCost(in))
}

func (s *server) handleServiceDetail(w http.ResponseWriter, r *http.Request) {
	var raw *pricing.RawHoleDetail
	if err := decodeJSON(r, &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	res := lineFrom(r).engine.ValidateServiceDetail(chi.URLParam(r, "serviceID"), raw)
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	e := lineFrom(r).engine
	st, notice, err := buildState(e, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: st.Items, Summary: st.Summary(e), Notice: notice})
}

func (s *server) handleSubmitQuote(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	ls := lineFrom(r)

	flow := order.NewFlow(ls.engine)
	var notice string
	err := flow.Update(func(order.State) (order.State, error) {
		st, n, err := buildState(ls.engine, req)
		notice = n
		return st, err
	})
	if err == nil {
		err = flow.Next()
	}
	if err == nil {
		err = flow.Next()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sub, err := flow.Submit(r.Context(), req.Customer, req.Consent, ls.sender)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		cartResponse: cartResponse{Items: sub.Items, Summary: sub.Summary, Notice: notice},
		Phase:        flow.Phase().String(),
		Subject:      quote.Subject(sub.Policy.Line, sub.Customer),
	})
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "pdf", "application/pdf", func(buf *bytes.Buffer, cat *catalog.Catalog, sub order.Submission, ref string) error {
		return quote.WritePDF(buf, cat, sub, quote.PDFOptions{FontPath: s.pdfFont, Reference: ref})
	})
}

func (s *server) handleQuoteXLSX(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(buf *bytes.Buffer, cat *catalog.Catalog, sub order.Submission, _ string) error {
		return quote.WriteXLSX(buf, cat, sub)
	})
}

type exportFunc func(buf *bytes.Buffer, cat *catalog.Catalog, sub order.Submission, ref string) error

// handleExport renders a cart into a downloadable document. The body is
// buffered so a render failure can still answer with an error status.
func (s *server) handleExport(w http.ResponseWriter, r *http.Request, ext, contentType string, render exportFunc) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	e := lineFrom(r).engine
	st, _, err := buildState(e, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !st.HasItems() {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: "담긴 항목이 없습니다. 주문을 담아주세요."})
		return
	}

	sub := order.Submission{
		Policy:   e.Policy,
		Customer: req.Customer.Trimmed(),
		Items:    st.Items,
		Summary:  st.Summary(e),
	}
	ref := fmt.Sprintf("GGR-%s-%s", strings.ToUpper(string(e.Policy.Line)), strings.ToUpper(uuid.NewString()[:8]))

	var buf bytes.Buffer
	if err := render(&buf, e.Catalog, sub, ref); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, strings.ToLower(ref), ext))
	w.Header().Set("X-Quote-Reference", ref)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// writeError maps order errors to statuses: validation 422, delivery 502,
// concurrent submission 409, anything else 500.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *order.ValidationError
	var serr *order.SubmissionError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: verr.Message})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusBadGateway, messageResponse{Message: serr.Error(), Detail: serr.Detail})
	case errors.Is(err, order.ErrSubmitInFlight):
		writeJSON(w, http.StatusConflict, messageResponse{Message: "주문을 전송하는 중입니다. 잠시만 기다려주세요."})
	default:
		s.logger.Error("handle request", zap.String("request_id", requestIDFrom(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
