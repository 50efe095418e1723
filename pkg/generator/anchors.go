package generator

import (
	"fmt"
	"sort"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"
)

// runState owns the id sequence for one generation run so every hypothesis
// point id is unique within the run.
type runState struct {
	seq int
}

func (r *runState) nextID(phase pkg.Phase) string {
	r.seq++
	return fmt.Sprintf("p-%s-%d", phase, r.seq)
}

// buildAnchorPoints emits the deterministic, non-grid candidates derived from
// participant geometry: centroid, coordinate-wise median, every participant's
// own location, and the geodesic midpoint of every unordered pair.
func (r *runState) buildAnchorPoints(locations []datastructure.Location) []datastructure.HypothesisPoint {
	n := len(locations)
	points := make([]datastructure.HypothesisPoint, 0, 2+n+n*(n-1)/2)

	var sumLat, sumLon float64
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i, loc := range locations {
		sumLat += loc.Coordinate.GetLat()
		sumLon += loc.Coordinate.GetLon()
		lats[i] = loc.Coordinate.GetLat()
		lons[i] = loc.Coordinate.GetLon()
	}

	points = append(points, datastructure.HypothesisPoint{
		ID:         r.nextID(pkg.ANCHOR),
		Coordinate: geo.NewCoordinate(sumLat/float64(n), sumLon/float64(n)),
		Type:       pkg.GEOGRAPHIC_CENTROID,
		Phase:      pkg.ANCHOR,
	})

	sort.Float64s(lats)
	sort.Float64s(lons)
	points = append(points, datastructure.HypothesisPoint{
		ID:         r.nextID(pkg.ANCHOR),
		Coordinate: geo.NewCoordinate(median(lats), median(lons)),
		Type:       pkg.MEDIAN_COORDINATE,
		Phase:      pkg.ANCHOR,
	})

	for _, loc := range locations {
		points = append(points, datastructure.HypothesisPoint{
			ID:         r.nextID(pkg.ANCHOR),
			Coordinate: loc.Coordinate,
			Type:       pkg.PARTICIPANT_LOCATION,
			Phase:      pkg.ANCHOR,
			Metadata:   &datastructure.PointMetadata{ParticipantID: loc.Name},
		})
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			midLat, midLon := geo.MidPoint(
				locations[i].Coordinate.GetLat(), locations[i].Coordinate.GetLon(),
				locations[j].Coordinate.GetLat(), locations[j].Coordinate.GetLon(),
			)
			points = append(points, datastructure.HypothesisPoint{
				ID:         r.nextID(pkg.ANCHOR),
				Coordinate: geo.NewCoordinate(midLat, midLon),
				Type:       pkg.PAIRWISE_MIDPOINT,
				Phase:      pkg.ANCHOR,
				Metadata: &datastructure.PointMetadata{
					PairIDs: []string{locations[i].Name, locations[j].Name},
				},
			})
		}
	}

	return points
}

// median of a sorted slice.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}
