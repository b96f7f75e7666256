package preset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/instrument-core/internal/infrastructure/database"
)

// SQLiteRepository stores presets in the presets and preset_values tables.
type SQLiteRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewSQLiteRepository creates a repository over a migrated database.
func NewSQLiteRepository(db *database.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Save creates or replaces a preset. CreatedAt survives replacement.
func (r *SQLiteRepository) Save(ctx context.Context, p *Preset) error {
	if !ValidName(p.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, p.Name)
	}
	now := r.now().UTC()

	err := r.db.InTx(ctx, func(tx *sql.Tx) error {
		var created string
		err := tx.QueryRowContext(ctx, "SELECT created_at FROM presets WHERE name = ?", p.Name).Scan(&created)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			created = now.Format(time.RFC3339Nano)
		case err != nil:
			return fmt.Errorf("reading preset %s: %w", p.Name, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO presets (name, instrument, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				instrument = excluded.instrument,
				description = excluded.description,
				updated_at = excluded.updated_at`,
			p.Name, p.Instrument, p.Description, created, now.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("writing preset %s: %w", p.Name, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM preset_values WHERE preset = ?", p.Name); err != nil {
			return fmt.Errorf("clearing preset %s: %w", p.Name, err)
		}
		for _, addr := range p.Addresses() {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO preset_values (preset, address, value) VALUES (?, ?, ?)",
				p.Name, addr, p.Values[addr],
			); err != nil {
				return fmt.Errorf("writing %s of preset %s: %w", addr, p.Name, err)
			}
		}

		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created) //nolint:errcheck // Format is controlled
		p.UpdatedAt = now
		return nil
	})
	return err
}

// Get loads a preset with its values.
func (r *SQLiteRepository) Get(ctx context.Context, name string) (*Preset, error) {
	p := &Preset{Name: name, Values: make(map[string]string)}
	var created, updated string
	err := r.db.QueryRowContext(ctx,
		"SELECT instrument, description, created_at, updated_at FROM presets WHERE name = ?", name,
	).Scan(&p.Instrument, &p.Description, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading preset %s: %w", name, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created) //nolint:errcheck // Format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated) //nolint:errcheck // Format is controlled

	rows, err := r.db.QueryContext(ctx, "SELECT address, value FROM preset_values WHERE preset = ?", name)
	if err != nil {
		return nil, fmt.Errorf("reading values of preset %s: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var addr, value string
		if err := rows.Scan(&addr, &value); err != nil {
			return nil, fmt.Errorf("scanning preset value: %w", err)
		}
		p.Values[addr] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preset values: %w", err)
	}
	return p, nil
}

// List returns every preset ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.name, p.description, p.updated_at, COUNT(v.address)
		FROM presets p LEFT JOIN preset_values v ON v.preset = p.name
		GROUP BY p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var updated string
		if err := rows.Scan(&s.Name, &s.Description, &updated, &s.Values); err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated) //nolint:errcheck // Format is controlled
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating presets: %w", err)
	}
	return out, nil
}

// Delete removes a preset and its values.
func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM presets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting preset %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting preset %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
