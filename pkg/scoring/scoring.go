package scoring

import (
	"errors"
	"math"
	"sort"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/util"
)

var (
	ErrEmptyInput        = errors.New("empty input")
	ErrInvalidTravelTime = errors.New("invalid travel time")
	ErrInvalidMetrics    = errors.New("invalid metrics")
	ErrMissingVariance   = errors.New("variance was not computed")
	ErrUnknownGoal       = errors.New("unknown optimization goal")
	ErrLengthMismatch    = errors.New("points and travel times length mismatch")
	ErrNegativeIndex     = errors.New("negative destination index")
	ErrIndexOutOfBounds  = errors.New("destination index out of bounds")
	ErrEmptyMatrix       = errors.New("travel time matrix has no rows")
	ErrNoDestinations    = errors.New("travel time matrix has no destinations")
)

// CalculateTravelTimeMetrics aggregates one candidate's per-person travel
// times. Variance (population variance) is computed only when requested; a
// single value always yields variance 0.
func CalculateTravelTimeMetrics(times []datastructure.PerPersonTravelTime,
	includeVariance bool) (datastructure.TravelTimeMetrics, error) {
	if len(times) == 0 {
		return datastructure.TravelTimeMetrics{}, util.WrapErrorf(ErrEmptyInput, util.ErrBadParamInput,
			"cannot compute metrics over zero travel times")
	}

	var maxTime, total float64
	for i, t := range times {
		if !util.IsFiniteNonNegative(t.Outbound) {
			return datastructure.TravelTimeMetrics{}, util.WrapErrorf(ErrInvalidTravelTime, util.ErrBadParamInput,
				"travel time at index %d is negative, NaN, or infinite: %v", i, t.Outbound)
		}
		total += t.Outbound
		if t.Outbound > maxTime {
			maxTime = t.Outbound
		}
	}
	average := total / float64(len(times))

	metrics := datastructure.TravelTimeMetrics{
		MaxTravelTime:     maxTime,
		AverageTravelTime: average,
		TotalTravelTime:   total,
	}

	if includeVariance {
		var sumSq float64
		for _, t := range times {
			dev := t.Outbound - average
			sumSq += dev * dev
		}
		variance := sumSq / float64(len(times))
		metrics.Variance = &variance
	}

	return metrics, nil
}

// CalculateScore maps metrics to the single comparable score for the goal.
// Lower is always better, uniformly across goals; the generator's ranking
// relies on that contract.
func CalculateScore(metrics datastructure.TravelTimeMetrics, goal pkg.OptimizationGoal) (float64, error) {
	switch goal {
	case pkg.MINIMAX:
		if !isFinite(metrics.MaxTravelTime) {
			return 0, util.WrapErrorf(ErrInvalidMetrics, util.ErrBadParamInput,
				"max travel time is not finite: %v", metrics.MaxTravelTime)
		}
		return metrics.MaxTravelTime, nil
	case pkg.MEAN:
		if metrics.Variance == nil {
			return 0, util.WrapErrorf(ErrMissingVariance, util.ErrBadParamInput,
				"goal %s requires variance but it was not computed", goal)
		}
		if !isFinite(*metrics.Variance) {
			return 0, util.WrapErrorf(ErrInvalidMetrics, util.ErrBadParamInput,
				"variance is not finite: %v", *metrics.Variance)
		}
		return *metrics.Variance, nil
	case pkg.MIN:
		if !isFinite(metrics.TotalTravelTime) {
			return 0, util.WrapErrorf(ErrInvalidMetrics, util.ErrBadParamInput,
				"total travel time is not finite: %v", metrics.TotalTravelTime)
		}
		return metrics.TotalTravelTime, nil
	default:
		return 0, util.WrapErrorf(ErrUnknownGoal, util.ErrBadParamInput,
			"optimization goal %d is not a known goal", goal)
	}
}

// ScorePoints computes a score for every candidate with usable travel-time
// data and returns them sorted ascending by score. travelTimesByPoint must be
// aligned 1:1 with points. A point whose travel-time list is empty or invalid
// is silently skipped so partial matrix-fetch failures never abort the batch.
// Ties keep stable input order.
func ScorePoints(points []datastructure.HypothesisPoint,
	travelTimesByPoint [][]datastructure.PerPersonTravelTime,
	goal pkg.OptimizationGoal) ([]datastructure.ScoredPoint, error) {
	if len(points) == 0 {
		return nil, util.WrapErrorf(ErrEmptyInput, util.ErrBadParamInput,
			"cannot score zero points")
	}
	if len(points) != len(travelTimesByPoint) {
		return nil, util.WrapErrorf(ErrLengthMismatch, util.ErrBadParamInput,
			"%d points but %d travel time lists", len(points), len(travelTimesByPoint))
	}
	if !goal.IsValid() {
		return nil, util.WrapErrorf(ErrUnknownGoal, util.ErrBadParamInput,
			"optimization goal %d is not a known goal", goal)
	}

	includeVariance := goal == pkg.MEAN

	scored := make([]datastructure.ScoredPoint, 0, len(points))
	for i, point := range points {
		times := travelTimesByPoint[i]
		if len(times) == 0 {
			continue
		}
		metrics, err := CalculateTravelTimeMetrics(times, includeVariance)
		if err != nil {
			continue
		}
		score, err := CalculateScore(metrics, goal)
		if err != nil {
			continue
		}
		scored = append(scored, datastructure.ScoredPoint{
			PointID: point.ID,
			Score:   score,
			Metrics: metrics,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})

	return scored, nil
}

// ExtractTravelTimesForDestination returns destinationIndex's column of the
// matrix, one entry per origin row.
func ExtractTravelTimesForDestination(matrix datastructure.TravelTimeMatrix,
	destinationIndex int) ([]datastructure.PerPersonTravelTime, error) {
	if destinationIndex < 0 {
		return nil, util.WrapErrorf(ErrNegativeIndex, util.ErrBadParamInput,
			"destination index %d is negative", destinationIndex)
	}

	times := make([]datastructure.PerPersonTravelTime, len(matrix))
	for i, row := range matrix {
		if destinationIndex >= len(row) {
			return nil, util.WrapErrorf(ErrIndexOutOfBounds, util.ErrBadParamInput,
				"destination index %d out of bounds for origin row %d with %d destinations",
				destinationIndex, i, len(row))
		}
		times[i] = datastructure.PerPersonTravelTime{Outbound: row[destinationIndex]}
	}
	return times, nil
}

// ConvertTravelTimeMatrix transposes a matrix so the outer index is the
// destination and the inner index is the origin.
func ConvertTravelTimeMatrix(matrix datastructure.TravelTimeMatrix) ([][]datastructure.PerPersonTravelTime, error) {
	if len(matrix) == 0 {
		return nil, util.WrapErrorf(ErrEmptyMatrix, util.ErrBadParamInput,
			"travel time matrix has zero rows")
	}
	destinationCount := len(matrix[0])
	if destinationCount == 0 {
		return nil, util.WrapErrorf(ErrNoDestinations, util.ErrBadParamInput,
			"travel time matrix rows have zero columns")
	}

	byDestination := make([][]datastructure.PerPersonTravelTime, destinationCount)
	for j := 0; j < destinationCount; j++ {
		column, err := ExtractTravelTimesForDestination(matrix, j)
		if err != nil {
			return nil, err
		}
		byDestination[j] = column
	}
	return byDestination, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
