package ports

import (
	"context"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

// HistoryRepository persists successful classifications.
type HistoryRepository interface {
	Record(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	SetEnergy(ctx context.Context, id string, energy float64) error
}
