package generator

import (
	"math"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"
	"meetpoint/pkg/util"
)

const metersPerDegreeLat = 111_320.0

// buildCoarseGrid samples a GridSize x GridSize grid of cell-center
// coordinates over the participant bounding box expanded by the margin
// fraction. A minimum span floor keeps the grid usable when all participants
// are (nearly) co-located. Returns the cell diagonal in meters alongside the
// points so the refinement phase can derive its default radius.
func (r *runState) buildCoarseGrid(locations []datastructure.Location, cfg Config) ([]datastructure.HypothesisPoint, float64) {
	coords := make([]geo.Coordinate, len(locations))
	for i, loc := range locations {
		coords[i] = loc.Coordinate
	}
	rect := geo.BoundingRect(coords)

	// Size is wrap-aware: a rect straddling the antimeridian reports the
	// short span, not the 360-degree complement.
	latSpan := rect.Size().Lat.Degrees()
	lngSpan := rect.Size().Lng.Degrees()

	centerLat := rect.Center().Lat.Degrees()
	cosLat := math.Cos(util.DegreeToRadians(centerLat))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	minSpanLat := pkg.MIN_GRID_SPAN_METERS / metersPerDegreeLat
	minSpanLng := minSpanLat / cosLat

	marginLat := latSpan * cfg.GridMarginFraction
	if latSpan+2*marginLat < minSpanLat {
		marginLat = (minSpanLat - latSpan) / 2.0
	}
	marginLng := lngSpan * cfg.GridMarginFraction
	if lngSpan+2*marginLng < minSpanLng {
		marginLng = (minSpanLng - lngSpan) / 2.0
	}

	loLat := rect.Lo().Lat.Degrees() - marginLat
	loLng := rect.Lo().Lng.Degrees() - marginLng
	cellLat := (latSpan + 2*marginLat) / float64(cfg.GridSize)
	cellLng := (lngSpan + 2*marginLng) / float64(cfg.GridSize)

	points := make([]datastructure.HypothesisPoint, 0, cfg.GridSize*cfg.GridSize)
	for i := 0; i < cfg.GridSize; i++ {
		for j := 0; j < cfg.GridSize; j++ {
			lat := loLat + (float64(i)+0.5)*cellLat
			lng := geo.NormalizeLongitude(loLng + (float64(j)+0.5)*cellLng)
			if !geo.IsValidCoordinate(lat, lng) {
				continue
			}
			points = append(points, datastructure.HypothesisPoint{
				ID:         r.nextID(pkg.COARSE_GRID),
				Coordinate: geo.NewCoordinate(lat, lng),
				Type:       pkg.COARSE_GRID_CELL,
				Phase:      pkg.COARSE_GRID,
			})
		}
	}

	cellDiagMeters := math.Hypot(cellLat*metersPerDegreeLat, cellLng*metersPerDegreeLat*cosLat)
	return points, cellDiagMeters
}

// buildRefinementGrid samples a finer local grid around each seed coordinate,
// bounded by radiusMeters.
func (r *runState) buildRefinementGrid(seeds []geo.Coordinate, radiusMeters float64, gridSize int) []datastructure.HypothesisPoint {
	radiusKM := radiusMeters / 1000.0
	points := make([]datastructure.HypothesisPoint, 0, len(seeds)*gridSize*gridSize)

	for _, seed := range seeds {
		loLat, loLng := geo.GetDestinationPoint(seed.GetLat(), seed.GetLon(), 225, radiusKM)
		hiLat, hiLng := geo.GetDestinationPoint(seed.GetLat(), seed.GetLon(), 45, radiusKM)

		cellLat := (hiLat - loLat) / float64(gridSize)
		cellLng := (hiLng - loLng) / float64(gridSize)

		for i := 0; i < gridSize; i++ {
			for j := 0; j < gridSize; j++ {
				lat := loLat + (float64(i)+0.5)*cellLat
				lng := loLng + (float64(j)+0.5)*cellLng
				if !geo.IsValidCoordinate(lat, lng) {
					continue
				}
				points = append(points, datastructure.HypothesisPoint{
					ID:         r.nextID(pkg.LOCAL_REFINEMENT),
					Coordinate: geo.NewCoordinate(lat, lng),
					Type:       pkg.LOCAL_REFINEMENT_CELL,
					Phase:      pkg.LOCAL_REFINEMENT,
				})
			}
		}
	}

	return points
}
