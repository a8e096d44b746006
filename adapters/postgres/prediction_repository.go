package postgres

import (
	"context"
	"time"

	"winesense/domain/core"
	"winesense/domain/wine"
	"winesense/internal/errors"
	"winesense/ports"

	"github.com/jmoiron/sqlx"
)

// predictionRow is the flat database shape of a prediction record
type predictionRow struct {
	ID                 string    `db:"id"`
	FixedAcidity       float64   `db:"fixed_acidity"`
	VolatileAcidity    float64   `db:"volatile_acidity"`
	CitricAcid         float64   `db:"citric_acid"`
	ResidualSugar      float64   `db:"residual_sugar"`
	Chlorides          float64   `db:"chlorides"`
	FreeSulfurDioxide  float64   `db:"free_sulfur_dioxide"`
	TotalSulfurDioxide float64   `db:"total_sulfur_dioxide"`
	Density            float64   `db:"density"`
	PH                 float64   `db:"ph"`
	Sulphates          float64   `db:"sulphates"`
	Alcohol            float64   `db:"alcohol"`
	Label              string    `db:"label"`
	PGood              float64   `db:"p_good"`
	PNotGood           float64   `db:"p_not_good"`
	CreatedAt          time.Time `db:"created_at"`
}

// PredictionRepositoryImpl implements PredictionRepository for PostgreSQL
type PredictionRepositoryImpl struct {
	db *sqlx.DB
}

// NewPredictionRepository creates a new PostgreSQL prediction repository
func NewPredictionRepository(db *sqlx.DB) ports.PredictionRepository {
	return &PredictionRepositoryImpl{db: db}
}

// Save persists one prediction record
func (r *PredictionRepositoryImpl) Save(ctx context.Context, record *wine.PredictionRecord) error {
	if record.ID.IsEmpty() {
		record.ID = core.NewID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	row := toRow(record)
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO predictions (
			id, fixed_acidity, volatile_acidity, citric_acid, residual_sugar,
			chlorides, free_sulfur_dioxide, total_sulfur_dioxide, density,
			ph, sulphates, alcohol, label, p_good, p_not_good, created_at
		) VALUES (
			:id, :fixed_acidity, :volatile_acidity, :citric_acid, :residual_sugar,
			:chlorides, :free_sulfur_dioxide, :total_sulfur_dioxide, :density,
			:ph, :sulphates, :alcohol, :label, :p_good, :p_not_good, :created_at
		)
	`, row)
	if err != nil {
		return errors.Wrap(err, "failed to save prediction record")
	}
	return nil
}

// ListRecent returns the newest records first, up to limit
func (r *PredictionRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]wine.PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []predictionRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, fixed_acidity, volatile_acidity, citric_acid, residual_sugar,
		       chlorides, free_sulfur_dioxide, total_sulfur_dioxide, density,
		       ph, sulphates, alcohol, label, p_good, p_not_good, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list prediction records")
	}

	records := make([]wine.PredictionRecord, len(rows))
	for i, row := range rows {
		records[i] = fromRow(row)
	}
	return records, nil
}

// Count returns the total number of stored records
func (r *PredictionRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM predictions`); err != nil {
		return 0, errors.Wrap(err, "failed to count prediction records")
	}
	return count, nil
}

func toRow(record *wine.PredictionRecord) predictionRow {
	return predictionRow{
		ID:                 record.ID.String(),
		FixedAcidity:       record.Sample.FixedAcidity,
		VolatileAcidity:    record.Sample.VolatileAcidity,
		CitricAcid:         record.Sample.CitricAcid,
		ResidualSugar:      record.Sample.ResidualSugar,
		Chlorides:          record.Sample.Chlorides,
		FreeSulfurDioxide:  record.Sample.FreeSulfurDioxide,
		TotalSulfurDioxide: record.Sample.TotalSulfurDioxide,
		Density:            record.Sample.Density,
		PH:                 record.Sample.PH,
		Sulphates:          record.Sample.Sulphates,
		Alcohol:            record.Sample.Alcohol,
		Label:              string(record.Label),
		PGood:              record.PGood,
		PNotGood:           record.PNotGood,
		CreatedAt:          record.CreatedAt,
	}
}

func fromRow(row predictionRow) wine.PredictionRecord {
	return wine.PredictionRecord{
		ID: core.ID(row.ID),
		Sample: wine.Sample{
			FixedAcidity:       row.FixedAcidity,
			VolatileAcidity:    row.VolatileAcidity,
			CitricAcid:         row.CitricAcid,
			ResidualSugar:      row.ResidualSugar,
			Chlorides:          row.Chlorides,
			FreeSulfurDioxide:  row.FreeSulfurDioxide,
			TotalSulfurDioxide: row.TotalSulfurDioxide,
			Density:            row.Density,
			PH:                 row.PH,
			Sulphates:          row.Sulphates,
			Alcohol:            row.Alcohol,
		},
		Label:     wine.Label(row.Label),
		PGood:     row.PGood,
		PNotGood:  row.PNotGood,
		CreatedAt: row.CreatedAt,
	}
}
