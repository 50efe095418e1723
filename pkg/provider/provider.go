package provider

import (
	"context"
	"errors"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"
)

var ErrUnsupportedTravelMode = errors.New("unsupported travel mode")

// MatrixProvider is the external travel-time matrix source contract: given
// origin and destination coordinates and a travel mode, return a matrix of
// travel times in minutes, rows aligned with origins and columns with
// destinations. Any failure (network, rate limit, invalid profile) is
// surfaced as an error and treated by the generator as a batch failure.
type MatrixProvider interface {
	FetchTravelTimes(ctx context.Context, origins, destinations []geo.Coordinate,
		mode pkg.TravelMode) (datastructure.TravelTimeMatrix, error)
}

// FetchFunc adapts a plain function to the MatrixProvider interface.
type FetchFunc func(ctx context.Context, origins, destinations []geo.Coordinate,
	mode pkg.TravelMode) (datastructure.TravelTimeMatrix, error)

func (f FetchFunc) FetchTravelTimes(ctx context.Context, origins, destinations []geo.Coordinate,
	mode pkg.TravelMode) (datastructure.TravelTimeMatrix, error) {
	return f(ctx, origins, destinations, mode)
}
