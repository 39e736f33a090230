package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/ggr-quote/internal/catalog"
)

const delta = 1e-6

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Line: catalog.LineBoard,
		Materials: []catalog.Material{
			{ID: "flat", Name: "평판", Category: "일반", Density: 600, AvailableThickness: []float64{18}, PricePerM2: 50000},
			{
				ID: "birch", Name: "자작", Category: "자작합판", Density: 680,
				AvailableThickness: []float64{9, 12, 15, 18},
				ThicknessPrices: []catalog.ThicknessPrice{
					{Thickness: 12, PricePerM2: 45000},
					{Thickness: 9, PricePerM2: 38000},
					{Thickness: 18, PricePerM2: 60000},
				},
			},
			{ID: "wide", Name: "와이드", Category: "일반", Density: 600, AvailableThickness: []float64{18}, PricePerM2: 1000, MaxWidth: 1200},
		},
		Services: []catalog.Service{
			{ID: "hinge_hole", Label: "경첩 타공", Kind: catalog.ServiceDetail, PricePerHole: 3000},
			{ID: "edge", Label: "엣지 마감", Kind: catalog.ServiceSimple, PricePerMeter: 2500},
			{ID: "corner", Label: "모서리 라운딩", Kind: catalog.ServiceSimple, PricePerCorner: 1000},
			{ID: "legacy_hole", Label: "구 타공", PricePerHole: 500},
		},
		Addons: []catalog.Addon{{ID: "pin", Name: "다보", Price: 2000}},
	}
}

func boardEngine() *Engine {
	return New(testCatalog(), DefaultPolicy(catalog.LineBoard))
}

func TestComputeItemCost_AreaRateScenario(t *testing.T) {
	e := boardEngine()

	cost := e.ComputeItemCost(ItemInput{MaterialID: "flat", Thickness: 18, Width: 600, Length: 1200, Quantity: 2})

	assert.InDelta(t, 0.72, cost.AreaM2, delta)
	assert.InDelta(t, 72000, cost.MaterialCost, delta)
	assert.InDelta(t, 0, cost.ProcessingCost, delta)
	assert.InDelta(t, 72000, cost.Subtotal, delta)
	assert.Equal(t, 7200.0, cost.VAT)
	assert.Equal(t, 79200.0, cost.Total)
	assert.False(t, cost.IsCustomPrice)
}

func TestComputeItemCost_WithHoleService(t *testing.T) {
	e := boardEngine()

	cost := e.ComputeItemCost(ItemInput{
		MaterialID: "flat", Thickness: 18, Width: 600, Length: 1200, Quantity: 2,
		Services: []string{"hinge_hole"},
		ServiceDetails: map[string]HoleDetail{
			"hinge_hole": {Holes: []Hole{
				{Edge: EdgeLeft, Distance: 100, VerticalRef: RefTop, VerticalDistance: 100},
				{Edge: EdgeLeft, Distance: 100, VerticalRef: RefBottom, VerticalDistance: 100},
			}},
		},
	})

	assert.InDelta(t, 12000, cost.ProcessingCost, delta)
	assert.InDelta(t, 84000, cost.Subtotal, delta)
	assert.Equal(t, 8400.0, cost.VAT)
	assert.Equal(t, 92400.0, cost.Total)
}

func TestComputeItemCost_IsPureAndLinearInQuantity(t *testing.T) {
	e := boardEngine()
	in := ItemInput{MaterialID: "birch", Thickness: 12, Width: 400, Length: 900, Quantity: 1, Services: []string{"edge"}}

	first := e.ComputeItemCost(in)
	again := e.ComputeItemCost(in)
	assert.Equal(t, first, again)

	in.Quantity = 3
	tripled := e.ComputeItemCost(in)
	assert.InDelta(t, first.MaterialCost*3, tripled.MaterialCost, delta)
	assert.InDelta(t, first.ProcessingCost*3, tripled.ProcessingCost, delta)
	assert.InDelta(t, first.WeightKg*3, tripled.WeightKg, delta)
}

func TestComputeItemCost_Weight(t *testing.T) {
	e := boardEngine()

	cost := e.ComputeItemCost(ItemInput{MaterialID: "birch", Thickness: 18, Width: 500, Length: 1000, Quantity: 2})

	// 0.5 m² × 0.018 m × 680 kg/m³ × 2
	assert.InDelta(t, 12.24, cost.WeightKg, delta)
}

func TestServiceUnitCost_FlatAndGeometry(t *testing.T) {
	cat := testCatalog()
	edge, _ := cat.Service("edge")
	corner, _ := cat.Service("corner")

	assert.Equal(t, 2500.0, ServiceUnitCost(edge, nil, ServiceCostFlat, 600, 1200))
	assert.Equal(t, 1000.0, ServiceUnitCost(corner, nil, ServiceCostFlat, 600, 1200))

	assert.InDelta(t, 3.6*2500, ServiceUnitCost(edge, nil, ServiceCostGeometry, 600, 1200), delta)
	assert.Equal(t, 4000.0, ServiceUnitCost(corner, nil, ServiceCostGeometry, 600, 1200))

	flat := catalog.Service{ID: "sink", FlatPrice: 30000}
	assert.Equal(t, 30000.0, ServiceUnitCost(flat, nil, ServiceCostFlat, 600, 1200))
}

func TestServiceUnitCost_MissingDetailCountsOneHole(t *testing.T) {
	cat := testCatalog()
	hinge, _ := cat.Service("hinge_hole")

	assert.Equal(t, 3000.0, ServiceUnitCost(hinge, nil, ServiceCostFlat, 0, 0))
	assert.Equal(t, 3000.0, ServiceUnitCost(hinge, &HoleDetail{}, ServiceCostFlat, 0, 0))
}

func TestComputeAddonCost(t *testing.T) {
	e := boardEngine()
	addon, ok := e.Catalog.Addon("pin")
	require.True(t, ok)

	cost := e.ComputeAddonCost(addon, 3)

	assert.Equal(t, 6000.0, cost.MaterialCost)
	assert.Equal(t, 0.0, cost.ProcessingCost)
	assert.Equal(t, 0.0, cost.WeightKg)
	assert.Equal(t, 600.0, cost.VAT)
	assert.Equal(t, 6600.0, cost.Total)
	assert.True(t, cost.IsAddon)
}

func TestComputeItemCost_TieredLine(t *testing.T) {
	cat := &catalog.Catalog{
		Line: catalog.LineDoor,
		Materials: []catalog.Material{
			{ID: "pet", Name: "PET", Category: "PET 도어", Density: 720, AvailableThickness: []float64{18}},
		},
		Tiers: map[string][]catalog.Tier{
			"PET 도어": {
				{MaxWidth: 400, MaxLength: 800, Price: 30000},
				{MaxWidth: 600, MaxLength: 1200, Price: 42000},
			},
		},
	}
	e := New(cat, DefaultPolicy(catalog.LineDoor))

	cost := e.ComputeItemCost(ItemInput{MaterialID: "pet", Thickness: 18, Width: 500, Length: 1000, Quantity: 2})
	assert.Equal(t, 84000.0, cost.MaterialCost)
	assert.Equal(t, 0.0, cost.VAT)
	assert.Equal(t, 84000.0, cost.Total)

	custom := e.ComputeItemCost(ItemInput{MaterialID: "pet", Thickness: 18, Width: 700, Length: 1000, Quantity: 1})
	assert.True(t, custom.IsCustomPrice)
	assert.Equal(t, 0.0, custom.MaterialCost)
}
