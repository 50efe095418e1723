package generator

import (
	"errors"
	"math"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"
	"meetpoint/pkg/scoring"
	"meetpoint/pkg/util"
)

var (
	ErrTooFewLocations         = errors.New("at least two participant locations are required")
	ErrInvalidLocation         = errors.New("participant location has out-of-range coordinates")
	ErrInvalidGridSize         = errors.New("grid size must be a positive integer")
	ErrInvalidDedupThreshold   = errors.New("deduplication threshold must be a positive, finite number of meters")
	ErrInvalidTopM             = errors.New("topM must be a positive integer")
	ErrInvalidBatchSize        = errors.New("destination batch size must be a positive integer")
	ErrInvalidRefinementConfig = errors.New("invalid local refinement configuration")
	ErrMatrixAcquisitionFailed = errors.New("matrix acquisition failed for every batch")
)

// Config controls one generation run. Zero values fall back to the package
// defaults via withDefaults, so callers only set what they care about.
type Config struct {
	Goal pkg.OptimizationGoal
	Mode pkg.TravelMode

	// TopM is how many final meeting points to return.
	TopM int

	// GridSize samples a GridSize x GridSize coarse grid over the expanded
	// participant bounding box.
	GridSize int

	// GridMarginFraction expands the bounding box by this fraction of its
	// span on every side before sampling the coarse grid.
	GridMarginFraction float64

	DeduplicationThresholdMeters float64

	MaxConcurrentFetches    int
	MaxDestinationsPerBatch int

	// EnableRefinement gates the local refinement phase around the best
	// coarse candidates.
	EnableRefinement   bool
	RefinementTopK     int
	RefinementGridSize int

	// RefinementRadiusMeters bounds the refinement grid around each seed.
	// Zero derives half the coarse cell diagonal, floored at
	// MIN_REFINEMENT_RADIUS_METERS.
	RefinementRadiusMeters float64
}

func DefaultConfig() Config {
	return Config{
		Goal:                         pkg.MINIMAX,
		Mode:                         pkg.DRIVING_CAR,
		TopM:                         pkg.DEFAULT_TOP_M,
		GridSize:                     pkg.DEFAULT_GRID_SIZE,
		GridMarginFraction:           pkg.DEFAULT_GRID_MARGIN_FRACTION,
		DeduplicationThresholdMeters: pkg.DEFAULT_DEDUP_THRESHOLD_METERS,
		MaxConcurrentFetches:         pkg.DEFAULT_MAX_CONCURRENT_FETCHES,
		MaxDestinationsPerBatch:      pkg.DEFAULT_MAX_DESTINATIONS_PER_BATCH,
		RefinementTopK:               pkg.DEFAULT_REFINEMENT_TOP_K,
		RefinementGridSize:           pkg.DEFAULT_REFINEMENT_GRID_SIZE,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TopM == 0 {
		c.TopM = def.TopM
	}
	if c.GridSize == 0 {
		c.GridSize = def.GridSize
	}
	if c.GridMarginFraction == 0 {
		c.GridMarginFraction = def.GridMarginFraction
	}
	if c.DeduplicationThresholdMeters == 0 {
		c.DeduplicationThresholdMeters = def.DeduplicationThresholdMeters
	}
	if c.MaxConcurrentFetches == 0 {
		c.MaxConcurrentFetches = def.MaxConcurrentFetches
	}
	if c.MaxDestinationsPerBatch == 0 {
		c.MaxDestinationsPerBatch = def.MaxDestinationsPerBatch
	}
	if c.RefinementTopK == 0 {
		c.RefinementTopK = def.RefinementTopK
	}
	if c.RefinementGridSize == 0 {
		c.RefinementGridSize = def.RefinementGridSize
	}
	return c
}

func validateRun(locations []datastructure.Location, cfg Config) error {
	if len(locations) < 2 {
		return util.WrapErrorf(ErrTooFewLocations, util.ErrBadParamInput,
			"got %d locations, need at least 2", len(locations))
	}
	for i, loc := range locations {
		if !geo.IsValidCoordinate(loc.Coordinate.GetLat(), loc.Coordinate.GetLon()) {
			return util.WrapErrorf(ErrInvalidLocation, util.ErrBadParamInput,
				"location %d (%s) has out-of-range coordinates %s", i, loc.Name,
				geo.FormatCoordinate(loc.Coordinate))
		}
	}
	if !cfg.Goal.IsValid() {
		return util.WrapErrorf(scoring.ErrUnknownGoal, util.ErrBadParamInput,
			"optimization goal %d is not a known goal", cfg.Goal)
	}
	if cfg.GridSize < 1 {
		return util.WrapErrorf(ErrInvalidGridSize, util.ErrBadParamInput,
			"grid size %d is not positive", cfg.GridSize)
	}
	if cfg.DeduplicationThresholdMeters <= 0 || math.IsNaN(cfg.DeduplicationThresholdMeters) ||
		math.IsInf(cfg.DeduplicationThresholdMeters, 0) {
		return util.WrapErrorf(ErrInvalidDedupThreshold, util.ErrBadParamInput,
			"deduplication threshold %v is not a positive, finite number", cfg.DeduplicationThresholdMeters)
	}
	if cfg.TopM < 1 {
		return util.WrapErrorf(ErrInvalidTopM, util.ErrBadParamInput,
			"topM %d is not positive", cfg.TopM)
	}
	if cfg.MaxDestinationsPerBatch < 1 {
		return util.WrapErrorf(ErrInvalidBatchSize, util.ErrBadParamInput,
			"destination batch size %d is not positive", cfg.MaxDestinationsPerBatch)
	}
	if cfg.EnableRefinement {
		if cfg.RefinementTopK < 1 || cfg.RefinementGridSize < 1 {
			return util.WrapErrorf(ErrInvalidRefinementConfig, util.ErrBadParamInput,
				"refinement topK %d and grid size %d must be positive",
				cfg.RefinementTopK, cfg.RefinementGridSize)
		}
		if cfg.RefinementRadiusMeters < 0 || math.IsNaN(cfg.RefinementRadiusMeters) ||
			math.IsInf(cfg.RefinementRadiusMeters, 0) {
			return util.WrapErrorf(ErrInvalidRefinementConfig, util.ErrBadParamInput,
				"refinement radius %v must be a non-negative, finite number",
				cfg.RefinementRadiusMeters)
		}
	}
	return nil
}
