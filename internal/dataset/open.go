package dataset

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/bike-rental-dashboard/internal/lifecycle"
	"github.com/kjstillabower/bike-rental-dashboard/internal/observability"
)

// Open runs the one-time initialization: load, schema check, enrich, ready.
// The returned table is shared by reference for the rest of the process and is
// never reloaded.
func Open(path string, delimiter rune, logger *zap.Logger) (*Table, error) {
	start := time.Now()
	lifecycle.SetPhase(lifecycle.PhaseLoading)
	raw, err := Load(path, delimiter)
	if err != nil {
		return nil, err
	}
	if err := RequireColumns(raw, RequiredColumns...); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	logger.Info("dataset loaded", zap.String("path", path), zap.Int("rows", raw.Len()), zap.Strings("columns", raw.Names()))

	lifecycle.SetPhase(lifecycle.PhaseEnriching)
	enriched, err := DeriveDayType(raw)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: derive day type: %w", path, err)
	}

	lifecycle.SetPhase(lifecycle.PhaseReady)
	observability.DatasetRows.Set(float64(enriched.Len()))
	if enriched.Len() == 0 {
		logger.Warn("dataset has no rows; every view will render the empty state", zap.String("path", path))
	}
	logger.Info("dataset ready", zap.Int("rows", enriched.Len()), zap.Duration("duration", time.Since(start)))
	return enriched, nil
}
