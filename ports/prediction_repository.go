package ports

import (
	"context"

	"winesense/domain/wine"
)

// PredictionRepository persists prediction history for later review.
// History is an optional feature: a nil repository disables it.
type PredictionRepository interface {
	Save(ctx context.Context, record *wine.PredictionRecord) error
	ListRecent(ctx context.Context, limit int) ([]wine.PredictionRecord, error)
	Count(ctx context.Context) (int, error)
}
