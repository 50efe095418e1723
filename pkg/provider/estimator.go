package provider

import (
	"context"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"
	"meetpoint/pkg/util"
)

const (
	drivingSpeedKMH = 40.0
	cyclingSpeedKMH = 16.0
	walkingSpeedKMH = 4.8

	// road networks are never straight lines; scale great-circle distance up
	defaultDetourFactor = 1.3
)

// HaversineEstimator implements the MatrixProvider contract from great-circle
// distance and per-mode cruising speeds. It lets the engine run (and the
// tests exercise the full pipeline) without a paid matrix API.
type HaversineEstimator struct {
	speedsKMH    map[pkg.TravelMode]float64
	detourFactor float64
}

func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{
		speedsKMH: map[pkg.TravelMode]float64{
			pkg.DRIVING_CAR:     drivingSpeedKMH,
			pkg.CYCLING_REGULAR: cyclingSpeedKMH,
			pkg.FOOT_WALKING:    walkingSpeedKMH,
		},
		detourFactor: defaultDetourFactor,
	}
}

func (e *HaversineEstimator) SetSpeed(mode pkg.TravelMode, speedKMH float64) {
	e.speedsKMH[mode] = speedKMH
}

func (e *HaversineEstimator) FetchTravelTimes(ctx context.Context, origins, destinations []geo.Coordinate,
	mode pkg.TravelMode) (datastructure.TravelTimeMatrix, error) {
	speed, ok := e.speedsKMH[mode]
	if !ok || speed <= 0 {
		return nil, util.WrapErrorf(ErrUnsupportedTravelMode, util.ErrBadParamInput,
			"no speed configured for travel mode %s", mode)
	}

	matrix := make(datastructure.TravelTimeMatrix, len(origins))
	for i, origin := range origins {
		row := make([]float64, len(destinations))
		for j, destination := range destinations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			distKM := geo.CalculateHaversineDistance(origin.GetLat(), origin.GetLon(),
				destination.GetLat(), destination.GetLon())
			row[j] = distKM * e.detourFactor / speed * 60.0
		}
		matrix[i] = row
	}
	return matrix, nil
}
