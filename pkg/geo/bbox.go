package geo

import (
	"github.com/golang/geo/s2"
)

// BoundingRect returns the lat/lng rectangle enclosing all coords.
func BoundingRect(coords []Coordinate) s2.Rect {
	rect := s2.EmptyRect()
	for _, c := range coords {
		rect = rect.AddPoint(s2.LatLngFromDegrees(c.GetLat(), c.GetLon()))
	}
	return rect
}
