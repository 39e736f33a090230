package order

import (
	"context"
	"strings"
	"sync"

	"github.com/Simplici0/ggr-quote/internal/pricing"
)

// Phase is a step of the quote request flow.
type Phase int

const (
	PhaseSelectItems  Phase = 1
	PhaseSelectAddons Phase = 2
	PhaseCustomerInfo Phase = 3
	PhaseCompleted    Phase = 4
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectItems:
		return "select_items"
	case PhaseSelectAddons:
		return "select_addons"
	case PhaseCustomerInfo:
		return "customer_info"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Customer is the contact block of a quote request.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Memo  string `json:"memo"`
}

// Trimmed returns the customer with surrounding whitespace removed.
func (c Customer) Trimmed() Customer {
	return Customer{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
		Memo:  strings.TrimSpace(c.Memo),
	}
}

// Submission is everything a sender needs to deliver a quote request.
type Submission struct {
	Policy   pricing.Policy
	Customer Customer
	Items    []Item
	Summary  pricing.Summary
}

// Sender delivers quote requests to the shop.
type Sender interface {
	Configured() bool
	SendQuote(ctx context.Context, s Submission) error
}

// Flow is the three step order wizard. It is safe for concurrent use; at
// most one submission is in flight at a time.
type Flow struct {
	engine *pricing.Engine

	mu      sync.Mutex
	phase   Phase
	state   State
	sending bool
}

// NewFlow starts a flow at the first phase with an empty cart.
func NewFlow(e *pricing.Engine) *Flow {
	return &Flow{engine: e, phase: PhaseSelectItems}
}

// Engine returns the pricing engine the flow uses.
func (f *Flow) Engine() *pricing.Engine {
	return f.engine
}

// Phase returns the current phase.
func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// State returns a snapshot of the cart.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

// Sending reports whether a submission is in flight.
func (f *Flow) Sending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sending
}

// Update replaces the cart with the result of fn. A returned error leaves
// the cart untouched. Updates are rejected once the flow completed.
func (f *Flow) Update(fn func(State) (State, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase == PhaseCompleted {
		return invalid("이미 접수된 주문입니다. 새 주문을 시작해주세요.")
	}
	next, err := fn(f.state)
	if err != nil {
		return err
	}
	f.state = next
	return nil
}

// Next advances one phase. Leaving the add-on phase requires a non-empty cart.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.phase {
	case PhaseSelectItems:
		f.phase = PhaseSelectAddons
	case PhaseSelectAddons:
		if !f.state.HasItems() {
			return invalid(pricing.WithOr(f.engine.Policy.ItemNoun) + " 부자재 중 하나 이상 담아주세요.")
		}
		f.phase = PhaseCustomerInfo
	}
	return nil
}

// Prev steps back one phase. It has no effect on the first phase or after completion.
func (f *Flow) Prev() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase > PhaseSelectItems && f.phase < PhaseCompleted {
		f.phase--
	}
}

// Reset clears the cart and returns to the first phase.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.phase = PhaseSelectItems
	f.state = State{}
}

// Submit sends the quote request and completes the flow on success.
// Preconditions are checked in order: cart, customer fields, consent,
// sender configuration. A call made while another is in flight returns
// ErrSubmitInFlight without side effects.
func (f *Flow) Submit(ctx context.Context, customer Customer, consent bool, sender Sender) (Submission, error) {
	f.mu.Lock()
	if f.sending {
		f.mu.Unlock()
		return Submission{}, ErrSubmitInFlight
	}

	customer = customer.Trimmed()
	var err error
	switch {
	case f.phase != PhaseCustomerInfo:
		err = invalid("고객 정보 단계에서만 주문을 보낼 수 있습니다.")
	case !f.state.HasItems():
		err = invalid("담긴 항목이 없습니다. 주문을 담아주세요.")
	case customer.Name == "" || customer.Phone == "" || customer.Email == "":
		err = invalid("이름, 연락처, 이메일을 입력해주세요.")
	case f.engine.Policy.RequireConsent && !consent:
		err = invalid("개인정보 수집 및 이용에 동의해주세요.")
	case sender == nil || !sender.Configured():
		err = invalid("EmailJS 설정(서비스ID/템플릿ID/publicKey)을 입력해주세요.")
	}
	if err != nil {
		f.mu.Unlock()
		return Submission{}, err
	}

	sub := Submission{
		Policy:   f.engine.Policy,
		Customer: customer,
		Items:    f.state.clone().Items,
		Summary:  f.state.Summary(f.engine),
	}
	f.sending = true
	f.mu.Unlock()

	sendErr := sender.SendQuote(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sending = false
	if sendErr != nil {
		return Submission{}, newSubmissionError(sendErr)
	}
	f.phase = PhaseCompleted
	return sub, nil
}
