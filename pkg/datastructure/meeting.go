package datastructure

import (
	"meetpoint/pkg"
	"meetpoint/pkg/geo"
)

// Location is a participant's home coordinate plus a display name. Read-only
// input to the generation pipeline.
type Location struct {
	Name       string         `json:"name"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

func NewLocation(name string, lat, lon float64) Location {
	return Location{
		Name:       name,
		Coordinate: geo.NewCoordinate(lat, lon),
	}
}

// PointMetadata records which participants produced an anchor candidate.
type PointMetadata struct {
	ParticipantID string   `json:"participant_id,omitempty"`
	PairIDs       []string `json:"pair_ids,omitempty"`
}

// HypothesisPoint is one candidate meeting point. Created during a generation
// phase and never mutated afterwards; scores live in ScoredPoint, keyed by ID.
type HypothesisPoint struct {
	ID         string         `json:"id"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Type       pkg.PointType  `json:"type"`
	Phase      pkg.Phase      `json:"phase"`
	Metadata   *PointMetadata `json:"metadata,omitempty"`
}

// PerPersonTravelTime is one participant's travel time to one candidate, in
// minutes. Negative, NaN, or infinite values are invalid.
type PerPersonTravelTime struct {
	Outbound float64 `json:"outbound"`
}

// TravelTimeMatrix is indexed [originIndex][destinationIndex], in minutes.
// Rows are participants, columns are candidate points, for one travel mode.
type TravelTimeMatrix [][]float64

// TravelTimeMetrics is derived per candidate from its column of per-person
// times. Variance is populated only when explicitly requested.
type TravelTimeMetrics struct {
	MaxTravelTime     float64  `json:"max_travel_time"`
	AverageTravelTime float64  `json:"average_travel_time"`
	TotalTravelTime   float64  `json:"total_travel_time"`
	Variance          *float64 `json:"variance,omitempty"`
}

// ScoredPoint pairs a hypothesis point id with its goal-dependent score.
// Ephemeral: recomputed whenever travel times or the goal change.
type ScoredPoint struct {
	PointID string            `json:"point_id"`
	Score   float64           `json:"score"`
	Metrics TravelTimeMetrics `json:"metrics"`
}
