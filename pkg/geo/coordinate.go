package geo

import (
	"fmt"
	"strconv"
	"strings"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func IsValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ParseCoordinate parses a "lat,lng" string (optional whitespace around the
// comma, scientific notation allowed). The second return value is false on
// malformed syntax, non-numeric parts, or out-of-range values. Nothing is
// clamped: an out-of-range coordinate is rejected outright.
func ParseCoordinate(text string) (Coordinate, bool) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return Coordinate{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, false
	}

	if !IsValidCoordinate(lat, lon) {
		return Coordinate{}, false
	}
	return NewCoordinate(lat, lon), true
}

// FormatCoordinate renders a coordinate as "lat, lng" with 4 decimal places.
// Formatting then parsing reproduces the coordinate to 4-decimal precision,
// lossy beyond that.
func FormatCoordinate(c Coordinate) string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}
