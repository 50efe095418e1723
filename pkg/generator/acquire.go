package generator

import (
	"context"

	"meetpoint/pkg"
	"meetpoint/pkg/concurrent"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"
	"meetpoint/pkg/provider"
	"meetpoint/pkg/scoring"
	"meetpoint/pkg/util"

	"go.uber.org/zap"
)

// acquisition fetches travel-time matrices for a candidate set, batching
// destinations to respect provider limits and running batches through the
// bounded executor. One batch failing only voids its own candidates.
type acquisition struct {
	provider  provider.MatrixProvider
	executor  *concurrent.Executor
	mode      pkg.TravelMode
	batchSize int
	log       *zap.Logger
}

// fetch returns per-candidate travel-time lists aligned 1:1 with candidates
// (nil for candidates whose batch failed), plus the number of provider
// invocations. It fails only when every batch failed.
func (a *acquisition) fetch(ctx context.Context, locations []datastructure.Location,
	candidates []datastructure.HypothesisPoint) ([][]datastructure.PerPersonTravelTime, int, error) {
	timesByPoint := make([][]datastructure.PerPersonTravelTime, len(candidates))
	if len(candidates) == 0 {
		return timesByPoint, 0, nil
	}

	origins := make([]geo.Coordinate, len(locations))
	for i, loc := range locations {
		origins[i] = loc.Coordinate
	}

	type span struct{ start, end int }
	batches := make([]span, 0, (len(candidates)+a.batchSize-1)/a.batchSize)
	for start := 0; start < len(candidates); start += a.batchSize {
		end := start + a.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batches = append(batches, span{start: start, end: end})
	}

	tasks := make([]concurrent.Task[datastructure.TravelTimeMatrix], len(batches))
	for bi, b := range batches {
		destinations := make([]geo.Coordinate, 0, b.end-b.start)
		for _, c := range candidates[b.start:b.end] {
			destinations = append(destinations, c.Coordinate)
		}
		tasks[bi] = func() (datastructure.TravelTimeMatrix, error) {
			return a.provider.FetchTravelTimes(ctx, origins, destinations, a.mode)
		}
	}

	outcomes := concurrent.Run(a.executor, tasks)

	succeeded := 0
	for bi, outcome := range outcomes {
		b := batches[bi]
		if outcome.Err != nil {
			a.log.Warn("travel time matrix batch failed",
				zap.Int("batch", bi),
				zap.Int("candidates", b.end-b.start),
				zap.Error(outcome.Err))
			continue
		}
		if len(outcome.Value) != len(origins) {
			a.log.Warn("travel time matrix row count does not match participant count",
				zap.Int("batch", bi),
				zap.Int("rows", len(outcome.Value)),
				zap.Int("participants", len(origins)))
			continue
		}
		byDestination, err := scoring.ConvertTravelTimeMatrix(outcome.Value)
		if err != nil {
			a.log.Warn("travel time matrix batch is malformed",
				zap.Int("batch", bi), zap.Error(err))
			continue
		}
		if len(byDestination) != b.end-b.start {
			a.log.Warn("travel time matrix column count does not match batch size",
				zap.Int("batch", bi),
				zap.Int("columns", len(byDestination)),
				zap.Int("expected", b.end-b.start))
			continue
		}
		for k, column := range byDestination {
			timesByPoint[b.start+k] = column
		}
		succeeded++
	}

	if succeeded == 0 {
		return nil, len(batches), util.WrapErrorf(ErrMatrixAcquisitionFailed, util.ErrInternalServerError,
			"all %d travel time matrix batches failed", len(batches))
	}
	return timesByPoint, len(batches), nil
}
