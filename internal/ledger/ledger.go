// Package ledger records every generation in a DuckDB file and answers
// collection statistics queries over it.
package ledger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/marcboeker/go-duckdb"

	"github.com/jordaneaster/sb-generator/internal/models"
)

const flushThreshold = 64

// Ledger is a DuckDB-backed generation ledger. Records are batched and
// flushed when the batch fills, before any query, and on Close.
type Ledger struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
	batch  []*models.GenerationResult
}

// SpeciesCount is the number of generations of one species.
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

// TraitFrequency is how often one trait value occurred, with rarity as the
// fraction of successful generations carrying it.
type TraitFrequency struct {
	TraitType string  `json:"trait_type"`
	Value     string  `json:"value"`
	Count     int     `json:"count"`
	Rarity    float64 `json:"rarity"`
}

// Stats summarizes the collection.
type Stats struct {
	Total   int              `json:"total"`
	Failed  int              `json:"failed"`
	Species []SpeciesCount   `json:"species"`
	Traits  []TraitFrequency `json:"traits"`
}

// Open creates or reopens the ledger database at dbPath.
func Open(dbPath string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='512MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating ledger connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS generations (
			id             INTEGER NOT NULL,
			species        VARCHAR NOT NULL,
			image_path     VARCHAR,
			pixelated_path VARCHAR,
			failed         BOOLEAN NOT NULL,
			generated_at   TIMESTAMP NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating generations table: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS traits (
			generation_id INTEGER NOT NULL,
			position      INTEGER NOT NULL,
			trait_type    VARCHAR NOT NULL,
			value         VARCHAR NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating traits table: %w", err)
	}

	return &Ledger{db: db, dbPath: dbPath}, nil
}

// Record queues one generation for insertion. Re-recording an identifier
// replaces its previous row and traits.
func (l *Ledger) Record(ctx context.Context, result *models.GenerationResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = append(l.batch, result)
	if len(l.batch) >= flushThreshold {
		return l.flushLocked(ctx)
	}
	return nil
}

// Flush writes any queued records to the database.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked(ctx)
}

func (l *Ledger) flushLocked(ctx context.Context) error {
	if len(l.batch) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning ledger transaction: %w", err)
	}
	defer tx.Rollback()

	for _, res := range l.batch {
		if _, err := tx.ExecContext(ctx, "DELETE FROM generations WHERE id = ?", res.ID); err != nil {
			return fmt.Errorf("replacing generation %d: %w", res.ID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM traits WHERE generation_id = ?", res.ID); err != nil {
			return fmt.Errorf("replacing traits of %d: %w", res.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO generations (id, species, image_path, pixelated_path, failed, generated_at) VALUES (?, ?, ?, ?, ?, ?)",
			res.ID, res.Species, res.ImagePath, res.PixelatedPath, res.Failed, res.GeneratedAt,
		); err != nil {
			return fmt.Errorf("inserting generation %d: %w", res.ID, err)
		}
		for i, tr := range res.Traits {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO traits (generation_id, position, trait_type, value) VALUES (?, ?, ?, ?)",
				res.ID, i, tr.TraitType, tr.Value,
			); err != nil {
				return fmt.Errorf("inserting trait of %d: %w", res.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ledger batch: %w", err)
	}
	l.batch = l.batch[:0]
	return nil
}

// Stats returns collection totals, per-species counts and trait frequencies.
// Rarity is count over successful generations; error traits are excluded.
func (l *Ledger) Stats(ctx context.Context) (*Stats, error) {
	if err := l.Flush(ctx); err != nil {
		return nil, err
	}

	stats := &Stats{}
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN failed THEN 1 ELSE 0 END), 0) FROM generations",
	).Scan(&stats.Total, &stats.Failed)
	if err != nil {
		return nil, fmt.Errorf("counting generations: %w", err)
	}

	rows, err := l.db.QueryContext(ctx,
		"SELECT species, COUNT(*) FROM generations GROUP BY species ORDER BY COUNT(*) DESC, species",
	)
	if err != nil {
		return nil, fmt.Errorf("counting species: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc SpeciesCount
		if err := rows.Scan(&sc.Species, &sc.Count); err != nil {
			return nil, fmt.Errorf("scanning species count: %w", err)
		}
		stats.Species = append(stats.Species, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading species counts: %w", err)
	}

	stats.Traits, err = l.TraitFrequencies(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// TraitFrequencies returns how often each trait value occurred across
// successful generations.
func (l *Ledger) TraitFrequencies(ctx context.Context) ([]TraitFrequency, error) {
	if err := l.Flush(ctx); err != nil {
		return nil, err
	}

	var successful int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM generations WHERE NOT failed",
	).Scan(&successful)
	if err != nil {
		return nil, fmt.Errorf("counting successful generations: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT t.trait_type, t.value, COUNT(*)
		FROM traits t
		JOIN generations g ON g.id = t.generation_id
		WHERE NOT g.failed AND t.trait_type != ?
		GROUP BY t.trait_type, t.value
		ORDER BY t.trait_type, COUNT(*) DESC, t.value
	`, models.TraitError)
	if err != nil {
		return nil, fmt.Errorf("querying trait frequencies: %w", err)
	}
	defer rows.Close()

	var freqs []TraitFrequency
	for rows.Next() {
		var tf TraitFrequency
		if err := rows.Scan(&tf.TraitType, &tf.Value, &tf.Count); err != nil {
			return nil, fmt.Errorf("scanning trait frequency: %w", err)
		}
		if successful > 0 {
			tf.Rarity = float64(tf.Count) / float64(successful)
		}
		freqs = append(freqs, tf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading trait frequencies: %w", err)
	}
	return freqs, nil
}

// Manifest returns every recorded generation with its ordered trait list,
// oldest identifier first.
func (l *Ledger) Manifest(ctx context.Context) ([]models.GenerationResult, error) {
	if err := l.Flush(ctx); err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, species, image_path, pixelated_path, failed, generated_at FROM generations ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("querying generations: %w", err)
	}
	defer rows.Close()

	var results []models.GenerationResult
	index := make(map[int]int)
	for rows.Next() {
		var res models.GenerationResult
		if err := rows.Scan(&res.ID, &res.Species, &res.ImagePath, &res.PixelatedPath, &res.Failed, &res.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scanning generation: %w", err)
		}
		index[res.ID] = len(results)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading generations: %w", err)
	}

	trows, err := l.db.QueryContext(ctx,
		"SELECT generation_id, trait_type, value FROM traits ORDER BY generation_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("querying traits: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var (
			genID int
			tr    models.Trait
		)
		if err := trows.Scan(&genID, &tr.TraitType, &tr.Value); err != nil {
			return nil, fmt.Errorf("scanning trait: %w", err)
		}
		if i, ok := index[genID]; ok {
			results[i].Traits = append(results[i].Traits, tr)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, fmt.Errorf("reading traits: %w", err)
	}
	return results, nil
}

// Count returns the number of recorded generations.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	if err := l.Flush(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting generations: %w", err)
	}
	return n, nil
}

// Close flushes pending records and closes the database.
func (l *Ledger) Close() error {
	if err := l.Flush(context.Background()); err != nil {
		return err
	}
	return l.db.Close()
}
