package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Load reads the catalog of one product line from the database.
func Load(ctx context.Context, db *sql.DB, line Line) (*Catalog, error) {
	cat := &Catalog{Line: line, Tiers: map[string][]Tier{}}

	var err error
	if cat.Materials, err = loadMaterials(ctx, db, line); err != nil {
		return nil, err
	}
	if cat.Services, err = loadServices(ctx, db, line); err != nil {
		return nil, err
	}
	if cat.Addons, err = loadAddons(ctx, db, line); err != nil {
		return nil, err
	}
	if cat.Tiers, err = loadTiers(ctx, db, line); err != nil {
		return nil, err
	}

	return cat, nil
}

func loadMaterials(ctx context.Context, db *sql.DB, line Line) ([]Material, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category, swatch, description, density,
			min_width, max_width, min_length, max_length, price_per_m2
		FROM materials
		WHERE line = ?
		ORDER BY position, id
	`, line)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]Material, 0)
	for rows.Next() {
		var m Material
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Category, &m.Swatch, &m.Description, &m.Density,
			&m.MinWidth, &m.MaxWidth, &m.MinLength, &m.MaxLength, &m.PricePerM2,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	thicknesses, err := loadThicknesses(ctx, db, line)
	if err != nil {
		return nil, err
	}
	prices, err := loadThicknessPrices(ctx, db, line)
	if err != nil {
		return nil, err
	}
	for i := range materials {
		materials[i].AvailableThickness = thicknesses[materials[i].ID]
		materials[i].ThicknessPrices = prices[materials[i].ID]
	}

	return materials, nil
}

func loadThicknesses(ctx context.Context, db *sql.DB, line Line) (map[string][]float64, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT material_id, thickness
		FROM material_thicknesses
		WHERE line = ?
		ORDER BY material_id, position
	`, line)
	if err != nil {
		return nil, fmt.Errorf("query material thicknesses: %w", err)
	}
	defer rows.Close()

	out := map[string][]float64{}
	for rows.Next() {
		var id string
		var t float64
		if err := rows.Scan(&id, &t); err != nil {
			return nil, fmt.Errorf("scan material thickness: %w", err)
		}
		out[id] = append(out[id], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material thicknesses: %w", err)
	}
	return out, nil
}

func loadThicknessPrices(ctx context.Context, db *sql.DB, line Line) (map[string][]ThicknessPrice, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT material_id, thickness, price_per_m2
		FROM material_thickness_prices
		WHERE line = ?
		ORDER BY material_id, position
	`, line)
	if err != nil {
		return nil, fmt.Errorf("query material thickness prices: %w", err)
	}
	defer rows.Close()

	out := map[string][]ThicknessPrice{}
	for rows.Next() {
		var id string
		var tp ThicknessPrice
		if err := rows.Scan(&id, &tp.Thickness, &tp.PricePerM2); err != nil {
			return nil, fmt.Errorf("scan material thickness price: %w", err)
		}
		out[id] = append(out[id], tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material thickness prices: %w", err)
	}
	return out, nil
}

func loadServices(ctx context.Context, db *sql.DB, line Line) ([]Service, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, label, kind, price_per_hole, price_per_meter, price_per_corner, price_flat, swatch, description
		FROM services
		WHERE line = ?
		ORDER BY position, id
	`, line)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	services := make([]Service, 0)
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Label, &s.Kind, &s.PricePerHole, &s.PricePerMeter, &s.PricePerCorner, &s.FlatPrice, &s.Swatch, &s.Description); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}

func loadAddons(ctx context.Context, db *sql.DB, line Line) ([]Addon, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, price, description
		FROM addons
		WHERE line = ?
		ORDER BY position, id
	`, line)
	if err != nil {
		return nil, fmt.Errorf("query addons: %w", err)
	}
	defer rows.Close()

	addons := make([]Addon, 0)
	for rows.Next() {
		var a Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.Description); err != nil {
			return nil, fmt.Errorf("scan addon: %w", err)
		}
		addons = append(addons, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addons: %w", err)
	}
	return addons, nil
}

func loadTiers(ctx context.Context, db *sql.DB, line Line) (map[string][]Tier, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT category, max_width, max_length, price
		FROM price_tiers
		WHERE line = ?
		ORDER BY category, position
	`, line)
	if err != nil {
		return nil, fmt.Errorf("query price tiers: %w", err)
	}
	defer rows.Close()

	tiers := map[string][]Tier{}
	for rows.Next() {
		var category string
		var t Tier
		if err := rows.Scan(&category, &t.MaxWidth, &t.MaxLength, &t.Price); err != nil {
			return nil, fmt.Errorf("scan price tier: %w", err)
		}
		tiers[category] = append(tiers[category], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price tiers: %w", err)
	}
	return tiers, nil
}
