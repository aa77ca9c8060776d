package measurements

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/weightkeeper/internal/client/models"
	"github.com/dmitrijs2005/weightkeeper/internal/dbx"
	"github.com/dmitrijs2005/weightkeeper/internal/logging"
	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db  *sql.DB
	log logging.Logger
}

func NewSQLiteRepository(db *sql.DB, log logging.Logger) *SQLiteRepository {
	if log == nil {
		log = logging.Nop{}
	}
	return &SQLiteRepository{db: db, log: log}
}

func (r *SQLiteRepository) Add(ctx context.Context, m models.Measurement) (models.Measurement, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now()
	}
	m.RecordedAt = m.RecordedAt.Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO measurements (id, weight_kg, recorded_at) VALUES (?, ?, ?)`,
		m.ID, m.WeightKg, m.RecordedAt.UnixMilli())
	if err != nil {
		return models.Measurement{}, fmt.Errorf("failed to insert measurement: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Measurement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, weight_kg, recorded_at FROM measurements ORDER BY recorded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select measurements: %w", err)
	}
	defer rows.Close()

	var result []models.Measurement
	for rows.Next() {
		var (
			m        models.Measurement
			recorded int64
		)
		if err := rows.Scan(&m.ID, &m.WeightKg, &recorded); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		m.RecordedAt = time.UnixMilli(recorded)
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate measurements: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db)
}

// ClearAllMeasurements deletes every row in one transaction and logs how many
// were removed.
func (r *SQLiteRepository) ClearAllMeasurements(ctx context.Context) error {
	var removed int
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := count(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM measurements`); err != nil {
			return fmt.Errorf("failed to delete measurements: %w", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info(ctx, "measurements cleared", "removed", removed)
	return nil
}

func count(ctx context.Context, db dbx.DBTX) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM measurements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count measurements: %w", err)
	}
	return n, nil
}
