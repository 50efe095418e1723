package generator

import (
	"context"
	"sort"

	"meetpoint/pkg"
	"meetpoint/pkg/concurrent"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"
	"meetpoint/pkg/provider"
	"meetpoint/pkg/scoring"

	"go.uber.org/zap"
)

// Generator runs the multi-phase meeting point search:
// ANCHOR -> COARSE_GRID -> dedup -> acquire -> score ->
// [LOCAL_REFINEMENT -> dedup -> acquire -> score] -> select.
// Each run operates on its own candidate set, so a single Generator is safe
// for concurrent runs.
type Generator struct {
	log      *zap.Logger
	provider provider.MatrixProvider
}

func NewGenerator(log *zap.Logger, matrixProvider provider.MatrixProvider) *Generator {
	return &Generator{
		log:      log,
		provider: matrixProvider,
	}
}

// RankedPoint is one of the final selected meeting points.
type RankedPoint struct {
	Rank    int                             `json:"rank"`
	Point   datastructure.HypothesisPoint   `json:"point"`
	Score   float64                         `json:"score"`
	Metrics datastructure.TravelTimeMetrics `json:"metrics"`
}

// DebugPoint is one entry of the full diagnostic candidate set, carrying a
// score only when travel-time data for it was usable.
type DebugPoint struct {
	Point   datastructure.HypothesisPoint    `json:"point"`
	Score   *float64                         `json:"score,omitempty"`
	Metrics *datastructure.TravelTimeMetrics `json:"metrics,omitempty"`
}

type Result struct {
	OptimalPoints         []RankedPoint `json:"optimal_points"`
	DebugPoints           []DebugPoint  `json:"debug_points"`
	MatrixAPICalls        int           `json:"matrix_api_calls"`
	TotalHypothesisPoints int           `json:"total_hypothesis_points"`
}

// Run executes the full pipeline for one participant set. It fails fast on
// malformed input; provider failures for individual batches degrade
// gracefully and only abort the run when no batch succeeds at all.
func (g *Generator) Run(ctx context.Context, locations []datastructure.Location, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := validateRun(locations, cfg); err != nil {
		return nil, err
	}

	executor, err := concurrent.NewExecutor(cfg.MaxConcurrentFetches)
	if err != nil {
		return nil, err
	}
	acq := &acquisition{
		provider:  g.provider,
		executor:  executor,
		mode:      cfg.Mode,
		batchSize: cfg.MaxDestinationsPerBatch,
		log:       g.log,
	}

	run := &runState{}
	anchors := run.buildAnchorPoints(locations)
	grid, cellDiagMeters := run.buildCoarseGrid(locations, cfg)

	candidates := deduplicate(append(anchors, grid...), cfg.DeduplicationThresholdMeters)
	g.log.Info("candidate generation finished",
		zap.Int("anchor_points", len(anchors)),
		zap.Int("grid_points", len(grid)),
		zap.Int("after_dedup", len(candidates)))

	timesByPoint, calls, err := acq.fetch(ctx, locations, candidates)
	totalCalls := calls
	if err != nil {
		return nil, err
	}

	scored, err := scoring.ScorePoints(candidates, timesByPoint, cfg.Goal)
	if err != nil {
		return nil, err
	}

	if cfg.EnableRefinement && len(scored) > 0 {
		candidates, scored, totalCalls = g.refine(ctx, run, locations, candidates, scored, acq,
			cfg, cellDiagMeters, totalCalls)
	}

	pointByID := make(map[string]datastructure.HypothesisPoint, len(candidates))
	for _, c := range candidates {
		pointByID[c.ID] = c
	}

	optimal := make([]RankedPoint, 0, cfg.TopM)
	for i, sp := range scored {
		if i >= cfg.TopM {
			break
		}
		point := pointByID[sp.PointID]
		point.Phase = pkg.FINAL_OUTPUT
		optimal = append(optimal, RankedPoint{
			Rank:    i + 1,
			Point:   point,
			Score:   sp.Score,
			Metrics: sp.Metrics,
		})
	}

	scoreByID := make(map[string]datastructure.ScoredPoint, len(scored))
	for _, sp := range scored {
		scoreByID[sp.PointID] = sp
	}
	debug := make([]DebugPoint, 0, len(candidates))
	for _, c := range candidates {
		dp := DebugPoint{Point: c}
		if sp, ok := scoreByID[c.ID]; ok {
			score := sp.Score
			metrics := sp.Metrics
			dp.Score = &score
			dp.Metrics = &metrics
		}
		debug = append(debug, dp)
	}

	g.log.Info("meeting point run finished",
		zap.Int("total_points", len(candidates)),
		zap.Int("scored_points", len(scored)),
		zap.Int("optimal_points", len(optimal)),
		zap.Int("matrix_api_calls", totalCalls),
		zap.String("goal", cfg.Goal.String()))

	return &Result{
		OptimalPoints:         optimal,
		DebugPoints:           debug,
		MatrixAPICalls:        totalCalls,
		TotalHypothesisPoints: len(candidates),
	}, nil
}

// refine expands a finer local grid around the best coarse candidates,
// deduplicates against the running set, then acquires and scores only the new
// points. A total refinement acquisition failure degrades to the coarse
// result since the coarse batches already succeeded.
func (g *Generator) refine(ctx context.Context, run *runState, locations []datastructure.Location,
	candidates []datastructure.HypothesisPoint, scored []datastructure.ScoredPoint,
	acq *acquisition, cfg Config, cellDiagMeters float64,
	totalCalls int) ([]datastructure.HypothesisPoint, []datastructure.ScoredPoint, int) {

	pointByID := make(map[string]datastructure.HypothesisPoint, len(candidates))
	for _, c := range candidates {
		pointByID[c.ID] = c
	}

	topK := cfg.RefinementTopK
	if topK > len(scored) {
		topK = len(scored)
	}
	seeds := make([]geo.Coordinate, 0, topK)
	for _, sp := range scored[:topK] {
		seeds = append(seeds, pointByID[sp.PointID].Coordinate)
	}

	radius := cfg.RefinementRadiusMeters
	if radius == 0 {
		radius = cellDiagMeters / 2.0
		if radius < pkg.MIN_REFINEMENT_RADIUS_METERS {
			radius = pkg.MIN_REFINEMENT_RADIUS_METERS
		}
	}

	refined := run.buildRefinementGrid(seeds, radius, cfg.RefinementGridSize)

	combined := deduplicate(append(candidates, refined...), cfg.DeduplicationThresholdMeters)

	newPoints := make([]datastructure.HypothesisPoint, 0, len(refined))
	for _, c := range combined {
		if c.Phase == pkg.LOCAL_REFINEMENT {
			newPoints = append(newPoints, c)
		}
	}
	g.log.Info("local refinement expanded",
		zap.Int("seeds", len(seeds)),
		zap.Float64("radius_meters", radius),
		zap.Int("new_points", len(newPoints)))
	if len(newPoints) == 0 {
		return combined, scored, totalCalls
	}

	newTimes, calls, err := acq.fetch(ctx, locations, newPoints)
	totalCalls += calls
	if err != nil {
		g.log.Warn("local refinement acquisition failed, keeping coarse result", zap.Error(err))
		return combined, scored, totalCalls
	}

	newScored, err := scoring.ScorePoints(newPoints, newTimes, cfg.Goal)
	if err != nil {
		g.log.Warn("local refinement scoring failed, keeping coarse result", zap.Error(err))
		return combined, scored, totalCalls
	}

	// stable sort over coarse-then-refinement keeps the earlier phase first
	// on score ties
	merged := append(scored, newScored...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score < merged[j].Score
	})

	return combined, merged, totalCalls
}
