package seed

import "github.com/Simplici0/ggr-quote/internal/catalog"

// Defaults returns the storefront's standard catalog for every product line.
func Defaults() []*catalog.Catalog {
	return []*catalog.Catalog{boardCatalog(), doorCatalog(), topCatalog()}
}

func holeServices(hingePrice, handlePrice float64) []catalog.Service {
	return []catalog.Service{
		{ID: "hinge_hole", Label: "경첩 타공", Kind: catalog.ServiceDetail, PricePerHole: hingePrice, Swatch: "#d9c7a7", Description: "35mm 컵경첩 타공"},
		{ID: "handle_hole", Label: "손잡이 타공", Kind: catalog.ServiceDetail, PricePerHole: handlePrice, Swatch: "#c8c8c8", Description: "손잡이 볼트 구멍"},
	}
}

func boardCatalog() *catalog.Catalog {
	services := holeServices(3000, 2000)
	services = append(services,
		catalog.Service{ID: "edge_finish", Label: "엣지 마감", Kind: catalog.ServiceSimple, PricePerMeter: 2500, Swatch: "#b58b5a"},
		catalog.Service{ID: "corner_round", Label: "모서리 라운딩", Kind: catalog.ServiceSimple, PricePerCorner: 1000, Swatch: "#e0d2bd"},
	)

	return &catalog.Catalog{
		Line: catalog.LineBoard,
		Materials: []catalog.Material{
			{
				ID: "birch_ply", Name: "자작나무 합판", Category: "자작합판", Swatch: "#e8d4b0", Density: 680,
				AvailableThickness: []float64{9, 12, 15, 18},
				ThicknessPrices: []catalog.ThicknessPrice{
					{Thickness: 9, PricePerM2: 38000},
					{Thickness: 12, PricePerM2: 45000},
					{Thickness: 15, PricePerM2: 52000},
					{Thickness: 18, PricePerM2: 60000},
				},
			},
			{
				ID: "lauan_ply", Name: "라왕 합판", Category: "일반합판", Swatch: "#c79a6b", Density: 550,
				AvailableThickness: []float64{4.8, 8.5, 11.5, 14.5, 17.5},
				ThicknessPrices: []catalog.ThicknessPrice{
					{Thickness: 4.8, PricePerM2: 18000},
					{Thickness: 8.5, PricePerM2: 24000},
					{Thickness: 11.5, PricePerM2: 29000},
					{Thickness: 14.5, PricePerM2: 34000},
					{Thickness: 17.5, PricePerM2: 39000},
				},
			},
			{
				ID: "lx_smr_pet_white", Name: "LX SMR PET 화이트", Category: "LX SMR PET", Swatch: "#f5f5f2", Density: 750,
				MinWidth: 100, MaxWidth: 1200, MinLength: 200, MaxLength: 2400,
				AvailableThickness: []float64{18},
				PricePerM2:         85000,
			},
		},
		Services: services,
		Addons: []catalog.Addon{
			{ID: "hinge_set", Name: "댐핑 경첩 세트", Price: 4500},
			{ID: "bar_handle", Name: "바 손잡이", Price: 6000},
			{ID: "shelf_pin", Name: "다보 (20개)", Price: 2000},
		},
	}
}

func doorCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Line: catalog.LineDoor,
		Materials: []catalog.Material{
			{ID: "pet_door_white", Name: "PET 화이트 도어", Category: "PET 도어", Swatch: "#f4f4f1", Density: 720, AvailableThickness: []float64{18}},
			{ID: "pet_door_gray", Name: "PET 그레이 도어", Category: "PET 도어", Swatch: "#9a9a98", Density: 720, AvailableThickness: []float64{18}},
			{ID: "matte_paint_door", Name: "무광 도장 도어", Category: "도장 도어", Swatch: "#d8d3cb", Density: 740, AvailableThickness: []float64{18, 20}},
		},
		Services: holeServices(3000, 2000),
		Addons: []catalog.Addon{
			{ID: "soft_hinge", Name: "댐핑 경첩", Price: 3500},
			{ID: "door_handle", Name: "도어 손잡이", Price: 6000},
		},
		Tiers: map[string][]catalog.Tier{
			"PET 도어": {
				{MaxWidth: 400, MaxLength: 800, Price: 30000},
				{MaxWidth: 600, MaxLength: 1200, Price: 42000},
				{MaxWidth: 800, MaxLength: 2400, Price: 68000},
			},
			"도장 도어": {
				{MaxWidth: 400, MaxLength: 800, Price: 45000},
				{MaxWidth: 600, MaxLength: 1200, Price: 62000},
				{MaxWidth: 800, MaxLength: 2400, Price: 98000},
			},
		},
	}
}

func topCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Line: catalog.LineTop,
		Materials: []catalog.Material{
			{ID: "solid_white", Name: "솔리드 화이트", Category: "인조대리석", Swatch: "#fafafa", Density: 1700, AvailableThickness: []float64{12, 24, 30}},
			{ID: "himacs_gray", Name: "하이막스 그레이", Category: "하이막스", Swatch: "#b9b9b9", Density: 1750, AvailableThickness: []float64{12, 30}},
		},
		Services: []catalog.Service{
			{ID: "sink_cut", Label: "싱크 타공", Kind: catalog.ServiceSimple, FlatPrice: 30000},
			{ID: "cooktop_cut", Label: "쿡탑 타공", Kind: catalog.ServiceSimple, FlatPrice: 20000},
			{ID: "faucet_hole", Label: "수전 타공", Kind: catalog.ServiceDetail, PricePerHole: 10000},
			{ID: "edge_finish", Label: "엣지 마감", Kind: catalog.ServiceSimple, PricePerMeter: 15000},
		},
		Addons: []catalog.Addon{
			{ID: "backsplash", Name: "뒷턱", Price: 25000},
			{ID: "silicone", Name: "실리콘 시공", Price: 15000},
		},
		Tiers: map[string][]catalog.Tier{
			"인조대리석": {
				{MaxWidth: 600, MaxLength: 1500, Price: 180000},
				{MaxWidth: 650, MaxLength: 2400, Price: 260000},
				{MaxWidth: 800, MaxLength: 3000, Price: 340000},
			},
			"하이막스": {
				{MaxWidth: 600, MaxLength: 1500, Price: 240000},
				{MaxWidth: 650, MaxLength: 2400, Price: 330000},
				{MaxWidth: 800, MaxLength: 3000, Price: 420000},
			},
		},
	}
}
