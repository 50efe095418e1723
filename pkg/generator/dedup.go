package generator

import (
	"math"

	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"

	"github.com/tidwall/rtree"
)

// deduplicate merges candidates whose pairwise great-circle distance falls
// below thresholdMeters. points must already be ordered by phase priority
// (ANCHOR before COARSE_GRID before LOCAL_REFINEMENT) and generation order
// within a phase; the earliest point always survives as the representative.
// Kept points are indexed in an r-tree so each candidate only checks its
// spatial neighborhood.
func deduplicate(points []datastructure.HypothesisPoint, thresholdMeters float64) []datastructure.HypothesisPoint {
	if thresholdMeters <= 0 {
		return points
	}

	var tr rtree.RTreeG[int]
	kept := make([]datastructure.HypothesisPoint, 0, len(points))

	// corners sit threshold*sqrt(2) away along the diagonals so the box
	// half-width is a full threshold on each axis; a neighbor due north at
	// exactly threshold distance still lands inside the query box
	cornerKM := thresholdMeters * math.Sqrt2 / 1000.0

	for _, p := range points {
		lat := p.Coordinate.GetLat()
		lng := p.Coordinate.GetLon()
		loLat, loLng := geo.GetDestinationPoint(lat, lng, 225, cornerKM)
		hiLat, hiLng := geo.GetDestinationPoint(lat, lng, 45, cornerKM)

		duplicate := false
		tr.Search(
			[2]float64{math.Min(loLng, hiLng), math.Min(loLat, hiLat)},
			[2]float64{math.Max(loLng, hiLng), math.Max(loLat, hiLat)},
			func(min, max [2]float64, idx int) bool {
				if geo.DistanceMeters(p.Coordinate, kept[idx].Coordinate) < thresholdMeters {
					duplicate = true
					return false
				}
				return true
			})
		if duplicate {
			continue
		}

		tr.Insert([2]float64{lng, lat}, [2]float64{lng, lat}, len(kept))
		kept = append(kept, p)
	}

	return kept
}
