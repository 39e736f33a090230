package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/pricing"
)

func testEngine() *pricing.Engine {
	cat := &catalog.Catalog{
		Line: catalog.LineBoard,
		Materials: []catalog.Material{
			{ID: "flat", Name: "평판", Density: 600, AvailableThickness: []float64{18}, PricePerM2: 50000},
		},
		Services: []catalog.Service{
			{ID: "hinge_hole", Label: "경첩 타공", Kind: catalog.ServiceDetail, PricePerHole: 3000},
			{ID: "edge", Label: "엣지 마감", Kind: catalog.ServiceSimple, PricePerMeter: 2500},
		},
		Addons: []catalog.Addon{
			{ID: "pin", Name: "다보", Price: 2000},
			{ID: "hinge", Name: "경첩", Price: 4500},
		},
	}
	return pricing.New(cat, pricing.DefaultPolicy(catalog.LineBoard))
}

func validInput() pricing.ItemInput {
	return pricing.ItemInput{MaterialID: "flat", Thickness: 18, Width: 600, Length: 1200, Quantity: 2}
}

func TestAddItem(t *testing.T) {
	e := testEngine()
	var s State

	_, err := s.AddItem(e, pricing.ItemInput{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "합판을 선택해주세요.", verr.Message)

	next, err := s.AddItem(e, validInput())
	require.NoError(t, err)
	assert.Empty(t, s.Items, "receiver is not mutated")
	require.Len(t, next.Items, 1)

	it := next.Items[0]
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, ItemMaterial, it.Type)
	assert.Equal(t, 79200.0, it.Total)
}

func TestAddItem_UsesAndClearsDraftDetails(t *testing.T) {
	e := testEngine()
	var s State

	s = s.SelectService(e, "hinge_hole")
	require.Contains(t, s.DraftServiceDetails, "hinge_hole")
	assert.Equal(t, pricing.DefaultHoleDetail(), s.DraftServiceDetails["hinge_hole"])

	s, res := s.SetServiceDetail(e, "hinge_hole", &pricing.RawHoleDetail{Holes: []pricing.RawHole{
		{Edge: "left", Distance: 100.0, VerticalRef: "top", VerticalDistance: 100.0},
		{Edge: "right", Distance: 100.0, VerticalRef: "top", VerticalDistance: 100.0},
	}})
	require.True(t, res.OK)

	in := validInput()
	in.Services = []string{"hinge_hole"}
	s, err := s.AddItem(e, in)
	require.NoError(t, err)

	assert.Nil(t, s.DraftServiceDetails)
	assert.Equal(t, 12000.0, s.Items[0].ProcessingCost)
	assert.Equal(t, 92400.0, s.Items[0].Total)
}

func TestSetServiceDetail_InvalidKeepsDraft(t *testing.T) {
	e := testEngine()
	s := State{}.SelectService(e, "hinge_hole")

	next, res := s.SetServiceDetail(e, "hinge_hole", &pricing.RawHoleDetail{Holes: []pricing.RawHole{{Distance: 0.0, VerticalDistance: 0.0}}})

	assert.False(t, res.OK)
	assert.Equal(t, s.DraftServiceDetails, next.DraftServiceDetails)
}

func TestAddAddons(t *testing.T) {
	e := testEngine()
	var s State

	_, _, err := s.AddAddons(e)
	assert.EqualError(t, err, "부자재를 선택해주세요.")

	s = s.ToggleDraftAddon("pin")
	s, notice, err := s.AddAddons(e)
	require.NoError(t, err)
	assert.Empty(t, notice)
	assert.Empty(t, s.DraftAddons)
	require.Len(t, s.Items, 1)
	assert.Equal(t, ItemAddon, s.Items[0].Type)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.Equal(t, 2200.0, s.Items[0].Total)

	dup := s.ToggleDraftAddon("pin")
	_, _, err = dup.AddAddons(e)
	assert.EqualError(t, err, "이미 담겨있는 부자재입니다: 다보")

	partial := s.ToggleDraftAddon("pin").ToggleDraftAddon("hinge")
	partial, notice, err = partial.AddAddons(e)
	require.NoError(t, err)
	assert.Equal(t, "이미 담겨있는 부자재는 제외하고 추가합니다: 다보", notice)
	assert.Len(t, partial.Items, 2)
}

func TestToggleDraftAddon(t *testing.T) {
	s := State{}.ToggleDraftAddon("pin").ToggleDraftAddon("hinge").ToggleDraftAddon("pin")
	assert.Equal(t, []string{"hinge"}, s.DraftAddons)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	e := testEngine()
	s, err := State{}.AddItem(e, validInput())
	require.NoError(t, err)
	s, _, err = s.ToggleDraftAddon("pin").AddAddons(e)
	require.NoError(t, err)

	itemID, addonID := s.Items[0].ID, s.Items[1].ID

	s = s.UpdateQuantity(e, itemID, 1)
	assert.Equal(t, 39600.0, s.Items[0].Total)

	s = s.UpdateQuantity(e, addonID, 0)
	assert.Equal(t, 1, s.Items[1].Quantity, "quantity is clamped to 1")

	s = s.UpdateQuantity(e, addonID, 3)
	assert.Equal(t, 6000.0, s.Items[1].MaterialCost)

	same := s.UpdateQuantity(e, "missing", 5)
	assert.Equal(t, s, same)

	s = s.Remove(itemID)
	require.Len(t, s.Items, 1)
	assert.Equal(t, addonID, s.Items[0].ID)

	sum := s.Summary(e)
	assert.Equal(t, 0.0, sum.MaterialsTotal)
	assert.Equal(t, 0.0, sum.PackingCost)
	assert.Equal(t, 6600.0, sum.GrandTotal)
}

type fakeSender struct {
	configured bool
	err        error
	got        []Submission
	block      chan struct{}
	started    chan struct{}
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) SendQuote(_ context.Context, s Submission) error {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	f.got = append(f.got, s)
	return f.err
}

type providerError struct{ text string }

func (e providerError) Error() string  { return "emailjs: " + e.text }
func (e providerError) Detail() string { return e.text }

func readyFlow(t *testing.T) *Flow {
	t.Helper()
	f := NewFlow(testEngine())
	require.NoError(t, f.Update(func(s State) (State, error) { return s.AddItem(f.Engine(), validInput()) }))
	require.NoError(t, f.Next())
	require.NoError(t, f.Next())
	require.Equal(t, PhaseCustomerInfo, f.Phase())
	return f
}

var customer = Customer{Name: " 홍길동 ", Phone: "010-1234-5678", Email: "hong@example.com"}

func TestFlow_Navigation(t *testing.T) {
	f := NewFlow(testEngine())
	assert.Equal(t, PhaseSelectItems, f.Phase())

	f.Prev()
	assert.Equal(t, PhaseSelectItems, f.Phase())

	require.NoError(t, f.Next())
	assert.Equal(t, PhaseSelectAddons, f.Phase())

	err := f.Next()
	assert.EqualError(t, err, "합판이나 부자재 중 하나 이상 담아주세요.")
	assert.Equal(t, PhaseSelectAddons, f.Phase())

	f.Prev()
	assert.Equal(t, PhaseSelectItems, f.Phase())
}

func TestFlow_SubmitPreconditions(t *testing.T) {
	sender := &fakeSender{configured: true}

	t.Run("empty cart", func(t *testing.T) {
		f := NewFlow(testEngine())
		require.NoError(t, f.Next())
		f.phase = PhaseCustomerInfo
		_, err := f.Submit(context.Background(), customer, true, sender)
		assert.EqualError(t, err, "담긴 항목이 없습니다. 주문을 담아주세요.")
	})

	t.Run("missing customer fields", func(t *testing.T) {
		f := readyFlow(t)
		_, err := f.Submit(context.Background(), Customer{Name: "홍길동", Phone: "  "}, true, sender)
		assert.EqualError(t, err, "이름, 연락처, 이메일을 입력해주세요.")
	})

	t.Run("missing consent", func(t *testing.T) {
		f := readyFlow(t)
		_, err := f.Submit(context.Background(), customer, false, sender)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("sender not configured", func(t *testing.T) {
		f := readyFlow(t)
		_, err := f.Submit(context.Background(), customer, true, &fakeSender{})
		assert.EqualError(t, err, "EmailJS 설정(서비스ID/템플릿ID/publicKey)을 입력해주세요.")
	})

	assert.Empty(t, sender.got)
}

func TestFlow_SubmitSuccessAndReset(t *testing.T) {
	f := readyFlow(t)
	sender := &fakeSender{configured: true}

	sub, err := f.Submit(context.Background(), customer, true, sender)
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, f.Phase())
	assert.Equal(t, "홍길동", sub.Customer.Name)
	assert.InDelta(t, 79200.0, sub.Summary.Subtotal+sub.Summary.VAT, 1e-6)
	require.Len(t, sender.got, 1)

	f.Prev()
	assert.Equal(t, PhaseCompleted, f.Phase(), "no way back from completion")

	err = f.Update(func(s State) (State, error) { return s.Remove(s.Items[0].ID), nil })
	assert.Error(t, err)

	f.Reset()
	assert.Equal(t, PhaseSelectItems, f.Phase())
	assert.False(t, f.State().HasItems())
}

func TestFlow_SubmitFailure(t *testing.T) {
	f := readyFlow(t)

	_, err := f.Submit(context.Background(), customer, true, &fakeSender{configured: true, err: providerError{text: "Invalid template ID"}})
	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "주문 전송 중 오류가 발생했습니다.\nInvalid template ID", serr.Error())
	assert.Equal(t, PhaseCustomerInfo, f.Phase())
	assert.False(t, f.Sending())

	assert.Equal(t, "주문 전송 중 오류가 발생했습니다. 다시 시도해주세요.", (&SubmissionError{}).Error())
}

func TestFlow_SecondSubmitWhileSendingIsRejected(t *testing.T) {
	f := readyFlow(t)
	sender := &fakeSender{configured: true, block: make(chan struct{}), started: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), customer, true, sender)
		done <- err
	}()

	<-sender.started
	assert.True(t, f.Sending())
	_, err := f.Submit(context.Background(), customer, true, sender)
	assert.True(t, errors.Is(err, ErrSubmitInFlight))

	close(sender.block)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseCompleted, f.Phase())
	assert.Len(t, sender.got, 1)
}

func TestAddItem_RejectsItemDetailWithoutValidHoles(t *testing.T) {
	e := testEngine()
	in := validInput()
	in.Services = []string{"hinge_hole"}
	in.ServiceDetails = map[string]pricing.HoleDetail{
		"hinge_hole": {Holes: []pricing.Hole{
			{Edge: pricing.EdgeLeft, Distance: 0, VerticalRef: pricing.RefTop, VerticalDistance: 0},
			{Edge: pricing.EdgeLeft, Distance: 0, VerticalRef: pricing.RefTop, VerticalDistance: 0},
			{Edge: pricing.EdgeRight, Distance: -5, VerticalRef: pricing.RefBottom, VerticalDistance: -5},
		}},
	}

	var s State
	next, err := s.AddItem(e, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "경첩 타공의 가로·세로 위치를 1개 이상 입력해주세요.", verr.Message)
	assert.Empty(t, next.Items)
}

func TestAddItem_StoresOnlyValidHoles(t *testing.T) {
	e := testEngine()
	in := validInput()
	in.Services = []string{"hinge_hole"}
	in.ServiceDetails = map[string]pricing.HoleDetail{
		"hinge_hole": {Holes: []pricing.Hole{
			{Edge: pricing.EdgeLeft, Distance: 0, VerticalRef: pricing.RefTop, VerticalDistance: 100},
			{Edge: pricing.EdgeRight, Distance: 50, VerticalRef: pricing.RefBottom, VerticalDistance: 30},
		}},
	}

	s, err := State{}.AddItem(e, in)
	require.NoError(t, err)
	require.Len(t, s.Items[0].ServiceDetails["hinge_hole"].Holes, 1)
	assert.Equal(t, 6000.0, s.Items[0].ProcessingCost)
}

func TestAddItem_ChargesRepeatedServiceOnce(t *testing.T) {
	e := testEngine()
	in := validInput()
	in.Services = []string{"edge", "edge", "edge"}

	s, err := State{}.AddItem(e, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"edge"}, s.Items[0].Services)
	assert.Equal(t, 5000.0, s.Items[0].ProcessingCost)

	s = s.UpdateQuantity(e, s.Items[0].ID, 3)
	assert.Equal(t, 7500.0, s.Items[0].ProcessingCost)
}
