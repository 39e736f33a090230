package seed

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/Simplici0/ggr-quote/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run writes the given catalogs in an idempotent way. Rows that already
// match are left untouched; rows whose values drifted are updated in place.
// Thicknesses, thickness prices and tier categories missing from a catalog
// are deleted.
func Run(ctx context.Context, db *sql.DB, catalogs []*catalog.Catalog) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, cat := range catalogs {
		if err := ensureCatalog(ctx, tx, cat, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCatalog(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog, stats *Stats) error {
	for i, m := range cat.Materials {
		if err := ensureMaterial(ctx, tx, cat.Line, i, m, stats); err != nil {
			return err
		}
	}
	for i, s := range cat.Services {
		if err := ensureService(ctx, tx, cat.Line, i, s, stats); err != nil {
			return err
		}
	}
	for i, a := range cat.Addons {
		if err := ensureAddon(ctx, tx, cat.Line, i, a, stats); err != nil {
			return err
		}
	}
	categories := make([]string, 0, len(cat.Tiers))
	for category, tiers := range cat.Tiers {
		categories = append(categories, category)
		if err := ensureTiers(ctx, tx, cat.Line, category, tiers, stats); err != nil {
			return err
		}
	}
	if err := pruneStale(ctx, tx, `
		SELECT DISTINCT category FROM price_tiers WHERE line = ?
	`, `
		DELETE FROM price_tiers WHERE line = ? AND category = ?
	`, []any{cat.Line}, categories, stats); err != nil {
		return fmt.Errorf("prune %s tier categories: %w", cat.Line, err)
	}
	return nil
}

func ensureMaterial(ctx context.Context, tx *sql.Tx, line catalog.Line, position int, m catalog.Material, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM materials WHERE line = ? AND id = ? LIMIT 1)`, line, m.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check material %s existence: %w", m.ID, err)
	}

	if !exists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO materials (
				line, id, name, category, swatch, description, density,
				min_width, max_width, min_length, max_length, price_per_m2, position
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, line, m.ID, m.Name, m.Category, m.Swatch, m.Description, m.Density,
			m.MinWidth, m.MaxWidth, m.MinLength, m.MaxLength, m.PricePerM2, position); err != nil {
			return fmt.Errorf("insert material %s: %w", m.ID, err)
		}
		stats.Inserts++
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE materials
			SET name = ?, category = ?, swatch = ?, description = ?, density = ?,
				min_width = ?, max_width = ?, min_length = ?, max_length = ?, price_per_m2 = ?, position = ?
			WHERE line = ? AND id = ?
				AND (name <> ? OR category <> ? OR swatch <> ? OR description <> ? OR density <> ?
					OR min_width <> ? OR max_width <> ? OR min_length <> ? OR max_length <> ?
					OR price_per_m2 <> ? OR position <> ?)
		`, m.Name, m.Category, m.Swatch, m.Description, m.Density,
			m.MinWidth, m.MaxWidth, m.MinLength, m.MaxLength, m.PricePerM2, position,
			line, m.ID,
			m.Name, m.Category, m.Swatch, m.Description, m.Density,
			m.MinWidth, m.MaxWidth, m.MinLength, m.MaxLength, m.PricePerM2, position)
		if err != nil {
			return fmt.Errorf("update material %s: %w", m.ID, err)
		}
		if err := countUpdate(res, stats); err != nil {
			return fmt.Errorf("update material %s: %w", m.ID, err)
		}
	}

	for i, t := range m.AvailableThickness {
		var current int
		err := tx.QueryRowContext(ctx, `
			SELECT position FROM material_thicknesses
			WHERE line = ? AND material_id = ? AND thickness = ?
		`, line, m.ID, t).Scan(&current)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO material_thicknesses (line, material_id, thickness, position)
				VALUES (?, ?, ?, ?)
			`, line, m.ID, t, i); err != nil {
				return fmt.Errorf("insert thickness %v of material %s: %w", t, m.ID, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("query thickness %v of material %s: %w", t, m.ID, err)
		case current != i:
			if _, err := tx.ExecContext(ctx, `
				UPDATE material_thicknesses SET position = ?
				WHERE line = ? AND material_id = ? AND thickness = ?
			`, i, line, m.ID, t); err != nil {
				return fmt.Errorf("update thickness %v of material %s: %w", t, m.ID, err)
			}
			stats.Updates++
		}
	}
	if err := pruneStale(ctx, tx, `
		SELECT thickness FROM material_thicknesses WHERE line = ? AND material_id = ?
	`, `
		DELETE FROM material_thicknesses WHERE line = ? AND material_id = ? AND thickness = ?
	`, []any{line, m.ID}, m.AvailableThickness, stats); err != nil {
		return fmt.Errorf("prune thicknesses of material %s: %w", m.ID, err)
	}

	priced := make([]float64, 0, len(m.ThicknessPrices))
	for i, tp := range m.ThicknessPrices {
		priced = append(priced, tp.Thickness)

		var (
			price    float64
			position int
		)
		err := tx.QueryRowContext(ctx, `
			SELECT price_per_m2, position FROM material_thickness_prices
			WHERE line = ? AND material_id = ? AND thickness = ?
		`, line, m.ID, tp.Thickness).Scan(&price, &position)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO material_thickness_prices (line, material_id, thickness, price_per_m2, position)
				VALUES (?, ?, ?, ?, ?)
			`, line, m.ID, tp.Thickness, tp.PricePerM2, i); err != nil {
				return fmt.Errorf("insert thickness price %v of material %s: %w", tp.Thickness, m.ID, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("query thickness price %v of material %s: %w", tp.Thickness, m.ID, err)
		case price != tp.PricePerM2 || position != i:
			if _, err := tx.ExecContext(ctx, `
				UPDATE material_thickness_prices SET price_per_m2 = ?, position = ?
				WHERE line = ? AND material_id = ? AND thickness = ?
			`, tp.PricePerM2, i, line, m.ID, tp.Thickness); err != nil {
				return fmt.Errorf("update thickness price %v of material %s: %w", tp.Thickness, m.ID, err)
			}
			stats.Updates++
		}
	}
	if err := pruneStale(ctx, tx, `
		SELECT thickness FROM material_thickness_prices WHERE line = ? AND material_id = ?
	`, `
		DELETE FROM material_thickness_prices WHERE line = ? AND material_id = ? AND thickness = ?
	`, []any{line, m.ID}, priced, stats); err != nil {
		return fmt.Errorf("prune thickness prices of material %s: %w", m.ID, err)
	}

	return nil
}

func ensureService(ctx context.Context, tx *sql.Tx, line catalog.Line, position int, s catalog.Service, stats *Stats) error {
	kind := s.Kind
	if kind == "" {
		kind = catalog.ServiceSimple
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM services WHERE line = ? AND id = ? LIMIT 1)`, line, s.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check service %s existence: %w", s.ID, err)
	}

	if !exists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO services (
				line, id, label, kind, price_per_hole, price_per_meter, price_per_corner,
				price_flat, swatch, description, position
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, line, s.ID, s.Label, kind, s.PricePerHole, s.PricePerMeter, s.PricePerCorner,
			s.FlatPrice, s.Swatch, s.Description, position); err != nil {
			return fmt.Errorf("insert service %s: %w", s.ID, err)
		}
		stats.Inserts++
		return nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE services
		SET label = ?, kind = ?, price_per_hole = ?, price_per_meter = ?, price_per_corner = ?,
			price_flat = ?, swatch = ?, description = ?, position = ?
		WHERE line = ? AND id = ?
			AND (label <> ? OR kind <> ? OR price_per_hole <> ? OR price_per_meter <> ?
				OR price_per_corner <> ? OR price_flat <> ? OR swatch <> ? OR description <> ? OR position <> ?)
	`, s.Label, kind, s.PricePerHole, s.PricePerMeter, s.PricePerCorner,
		s.FlatPrice, s.Swatch, s.Description, position,
		line, s.ID,
		s.Label, kind, s.PricePerHole, s.PricePerMeter, s.PricePerCorner,
		s.FlatPrice, s.Swatch, s.Description, position)
	if err != nil {
		return fmt.Errorf("update service %s: %w", s.ID, err)
	}
	if err := countUpdate(res, stats); err != nil {
		return fmt.Errorf("update service %s: %w", s.ID, err)
	}
	return nil
}

func ensureAddon(ctx context.Context, tx *sql.Tx, line catalog.Line, position int, a catalog.Addon, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM addons WHERE line = ? AND id = ? LIMIT 1)`, line, a.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check addon %s existence: %w", a.ID, err)
	}

	if !exists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO addons (line, id, name, price, description, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, line, a.ID, a.Name, a.Price, a.Description, position); err != nil {
			return fmt.Errorf("insert addon %s: %w", a.ID, err)
		}
		stats.Inserts++
		return nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE addons
		SET name = ?, price = ?, description = ?, position = ?
		WHERE line = ? AND id = ?
			AND (name <> ? OR price <> ? OR description <> ? OR position <> ?)
	`, a.Name, a.Price, a.Description, position, line, a.ID, a.Name, a.Price, a.Description, position)
	if err != nil {
		return fmt.Errorf("update addon %s: %w", a.ID, err)
	}
	if err := countUpdate(res, stats); err != nil {
		return fmt.Errorf("update addon %s: %w", a.ID, err)
	}
	return nil
}

func ensureTiers(ctx context.Context, tx *sql.Tx, line catalog.Line, category string, tiers []catalog.Tier, stats *Stats) error {
	for i, t := range tiers {
		var current catalog.Tier
		err := tx.QueryRowContext(ctx, `
			SELECT max_width, max_length, price FROM price_tiers
			WHERE line = ? AND category = ? AND position = ?
		`, line, category, i).Scan(&current.MaxWidth, &current.MaxLength, &current.Price)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO price_tiers (line, category, position, max_width, max_length, price)
				VALUES (?, ?, ?, ?, ?, ?)
			`, line, category, i, t.MaxWidth, t.MaxLength, t.Price); err != nil {
				return fmt.Errorf("insert %s tier %d: %w", category, i, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("query %s tier %d: %w", category, i, err)
		case current != t:
			if _, err := tx.ExecContext(ctx, `
				UPDATE price_tiers SET max_width = ?, max_length = ?, price = ?
				WHERE line = ? AND category = ? AND position = ?
			`, t.MaxWidth, t.MaxLength, t.Price, line, category, i); err != nil {
				return fmt.Errorf("update %s tier %d: %w", category, i, err)
			}
			stats.Updates++
		}
	}

	// Drop trailing steps that no longer exist.
	res, err := tx.ExecContext(ctx, `
		DELETE FROM price_tiers WHERE line = ? AND category = ? AND position >= ?
	`, line, category, len(tiers))
	if err != nil {
		return fmt.Errorf("trim %s tiers: %w", category, err)
	}
	return countUpdate(res, stats)
}

// pruneStale deletes the rows listed by selectQuery whose key is not in keep.
// Both queries take args first; deleteQuery takes the stale key last.
// Every deleted row counts as an update.
func pruneStale[K comparable](ctx context.Context, tx *sql.Tx, selectQuery, deleteQuery string, args []any, keep []K, stats *Stats) error {
	rows, err := tx.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return fmt.Errorf("list rows: %w", err)
	}
	var stale []K
	for rows.Next() {
		var key K
		if err := rows.Scan(&key); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan row: %w", err)
		}
		if !slices.Contains(keep, key) {
			stale = append(stale, key)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate rows: %w", err)
	}
	_ = rows.Close()

	for _, key := range stale {
		res, err := tx.ExecContext(ctx, deleteQuery, append(slices.Clone(args), key)...)
		if err != nil {
			return fmt.Errorf("delete %v: %w", key, err)
		}
		if err := countUpdate(res, stats); err != nil {
			return err
		}
	}
	return nil
}

func countUpdate(res sql.Result, stats *Stats) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	stats.Updates += int(n)
	return nil
}
