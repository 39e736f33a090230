package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/ggr-quote/internal/catalog"
)

func topEngine() *Engine {
	cat := &catalog.Catalog{
		Line: catalog.LineTop,
		Materials: []catalog.Material{
			{ID: "solid", Name: "솔리드", Category: "인조대리석", Density: 1700, AvailableThickness: []float64{12, 30}},
		},
		Tiers: map[string][]catalog.Tier{
			"인조대리석": {
				{MaxWidth: 600, MaxLength: 1500, Price: 180000},
				{MaxWidth: 650, MaxLength: 2400, Price: 260000},
				{MaxWidth: 800, MaxLength: 3000, Price: 340000},
			},
		},
	}
	return New(cat, DefaultPolicy(catalog.LineTop))
}

func TestComputeItemCost_LShapedTop(t *testing.T) {
	e := topEngine()

	cost := e.ComputeItemCost(ItemInput{
		MaterialID: "solid", Thickness: 30, Width: 600, Length: 2400,
		Shape: ShapeL, Length2: 1500, Quantity: 1,
	})

	assert.InDelta(t, 2.34, cost.AreaM2, delta)
	assert.InDelta(t, 440000, cost.MaterialCost, delta)
	assert.InDelta(t, 30000, cost.ProcessingCost, delta)
	assert.InDelta(t, 119.34, cost.WeightKg, delta)
	assert.Equal(t, 0.0, cost.VAT)
	assert.Equal(t, 470000.0, cost.Total)
	assert.False(t, cost.IsCustomPrice)
}

func TestComputeItemCost_StraightTopIgnoresSecondLength(t *testing.T) {
	e := topEngine()

	cost := e.ComputeItemCost(ItemInput{
		MaterialID: "solid", Thickness: 30, Width: 600, Length: 2400,
		Shape: ShapeStraight, Length2: 1500, Quantity: 1,
	})

	assert.InDelta(t, 1.44, cost.AreaM2, delta)
	assert.Equal(t, 260000.0, cost.Total)
}

func TestComputeItemCost_OversizedSecondLegIsCustom(t *testing.T) {
	e := topEngine()

	cost := e.ComputeItemCost(ItemInput{
		MaterialID: "solid", Thickness: 30, Width: 600, Length: 1200,
		Shape: ShapeRL, Length2: 3200, Quantity: 1,
	})

	assert.True(t, cost.IsCustomPrice)
	assert.Equal(t, 0.0, cost.MaterialCost)
}

func TestComputeItemCost_ShapeIgnoredOutsideTop(t *testing.T) {
	e := boardEngine()

	cost := e.ComputeItemCost(ItemInput{
		MaterialID: "flat", Thickness: 18, Width: 600, Length: 1200,
		Shape: ShapeL, Length2: 1000, Quantity: 2,
	})

	assert.InDelta(t, 0.72, cost.AreaM2, delta)
	assert.InDelta(t, 0, cost.ProcessingCost, delta)
	assert.Equal(t, 79200.0, cost.Total)
}

func TestValidateItemInputs_TopShape(t *testing.T) {
	e := topEngine()
	valid := ItemInput{MaterialID: "solid", Thickness: 30, Width: 600, Length: 2400, Shape: ShapeL, Length2: 1500, Quantity: 1}

	tests := []struct {
		name   string
		mutate func(in *ItemInput)
		want   string
	}{
		{name: "valid", mutate: func(in *ItemInput) {}, want: ""},
		{name: "empty shape is straight", mutate: func(in *ItemInput) { in.Shape = ""; in.Length2 = 0 }, want: ""},
		{name: "unknown shape", mutate: func(in *ItemInput) { in.Shape = "u"; in.Thickness = 0 }, want: "주방 형태를 선택해주세요."},
		{name: "missing second length", mutate: func(in *ItemInput) { in.Length2 = 0; in.Quantity = 0 }, want: "ㄱ자 형태일 때 길이2를 입력해주세요."},
		{name: "second length too short", mutate: func(in *ItemInput) { in.Length2 = 200 }, want: "길이2는 300 ~ 4000mm 사이여야 합니다."},
		{name: "first length checked before second", mutate: func(in *ItemInput) { in.Length = 100; in.Length2 = 0 }, want: "길이는 300 ~ 4000mm 사이여야 합니다."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			assert.Equal(t, tc.want, e.ValidateItemInputs(in))
		})
	}
}

func TestPrepareItem_ClearsUnusedShapeFields(t *testing.T) {
	top, msg := topEngine().PrepareItem(ItemInput{
		MaterialID: "solid", Thickness: 30, Width: 600, Length: 2400,
		Shape: ShapeStraight, Length2: 1500, Quantity: 1,
	})
	require.Empty(t, msg)
	assert.Zero(t, top.Length2)

	board, msg := boardEngine().PrepareItem(ItemInput{
		MaterialID: "flat", Thickness: 18, Width: 600, Length: 1200,
		Shape: ShapeL, Length2: 1000, Quantity: 1,
	})
	require.Empty(t, msg)
	assert.Empty(t, board.Shape)
	assert.Zero(t, board.Length2)
}

func TestShapeLabel(t *testing.T) {
	assert.Equal(t, "ㄱ자", ShapeL.Label())
	assert.Equal(t, "역ㄱ자", ShapeRL.Label())
	assert.Equal(t, "일자", Shape("").Label())
	assert.False(t, Shape("u").Valid())
}
