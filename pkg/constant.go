package pkg

// enum of travel mode/profile supported by matrix providers
type TravelMode uint8

const (
	DRIVING_CAR TravelMode = iota
	CYCLING_REGULAR
	FOOT_WALKING
)

func (m TravelMode) String() string {
	switch m {
	case DRIVING_CAR:
		return "driving-car"
	case CYCLING_REGULAR:
		return "cycling-regular"
	case FOOT_WALKING:
		return "foot-walking"
	default:
		return "unknown"
	}
}

func GetTravelMode(mode string) (TravelMode, bool) {
	switch mode {
	case "driving-car":
		return DRIVING_CAR, true
	case "cycling-regular":
		return CYCLING_REGULAR, true
	case "foot-walking":
		return FOOT_WALKING, true
	default:
		return DRIVING_CAR, false
	}
}

// enum of optimization goal used to rank candidate meeting points.
// lower score is always better no matter the goal.
type OptimizationGoal uint8

const (
	MINIMAX OptimizationGoal = iota // minimize the worst participant travel time
	MEAN                            // minimize travel time variance across participants
	MIN                             // minimize total travel time
)

func (g OptimizationGoal) String() string {
	switch g {
	case MINIMAX:
		return "minimax"
	case MEAN:
		return "mean"
	case MIN:
		return "min"
	default:
		return "unknown"
	}
}

func (g OptimizationGoal) IsValid() bool {
	return g <= MIN
}

func GetOptimizationGoal(goal string) (OptimizationGoal, bool) {
	switch goal {
	case "minimax":
		return MINIMAX, true
	case "mean":
		return MEAN, true
	case "min":
		return MIN, true
	default:
		return MINIMAX, false
	}
}

// enum of hypothesis point kind, records which generation rule produced the candidate
type PointType uint8

const (
	GEOGRAPHIC_CENTROID PointType = iota
	MEDIAN_COORDINATE
	PARTICIPANT_LOCATION
	PAIRWISE_MIDPOINT
	COARSE_GRID_CELL
	LOCAL_REFINEMENT_CELL
)

func (t PointType) String() string {
	switch t {
	case GEOGRAPHIC_CENTROID:
		return "geographic_centroid"
	case MEDIAN_COORDINATE:
		return "median_coordinate"
	case PARTICIPANT_LOCATION:
		return "participant_location"
	case PAIRWISE_MIDPOINT:
		return "pairwise_midpoint"
	case COARSE_GRID_CELL:
		return "coarse_grid_cell"
	case LOCAL_REFINEMENT_CELL:
		return "local_refinement_cell"
	default:
		return "unknown"
	}
}

// enum of generation phase. numeric order doubles as deduplication priority:
// when two candidates get merged, the lower-phase one is kept as representative.
type Phase uint8

const (
	ANCHOR Phase = iota
	COARSE_GRID
	LOCAL_REFINEMENT
	FINAL_OUTPUT
)

func (p Phase) String() string {
	switch p {
	case ANCHOR:
		return "anchor"
	case COARSE_GRID:
		return "coarse_grid"
	case LOCAL_REFINEMENT:
		return "local_refinement"
	case FINAL_OUTPUT:
		return "final_output"
	default:
		return "unknown"
	}
}

const (
	DEFAULT_GRID_SIZE              = 5
	DEFAULT_TOP_M                  = 3
	DEFAULT_DEDUP_THRESHOLD_METERS = 200.0
	DEFAULT_GRID_MARGIN_FRACTION   = 0.2

	DEFAULT_MAX_CONCURRENT_FETCHES     = 6
	DEFAULT_MAX_DESTINATIONS_PER_BATCH = 25

	DEFAULT_REFINEMENT_TOP_K     = 3
	DEFAULT_REFINEMENT_GRID_SIZE = 4
	MIN_REFINEMENT_RADIUS_METERS = 250.0
	MIN_GRID_SPAN_METERS         = 500.0
)
