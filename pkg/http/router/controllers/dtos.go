package controllers

import (
	"meetpoint/pkg/generator"
	"meetpoint/pkg/util"

	"github.com/twpayne/go-polyline"
)

// response coordinates are rounded to 6 decimals (~0.1m)
const coordinateDecimals = 6

type locationInput struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// meetingPointsRequest model info
//
//	@Description	request body for the meeting point search.
type meetingPointsRequest struct {
	Locations               []locationInput `json:"locations" validate:"required,min=2,dive"`
	TravelMode              string          `json:"travel_mode"`
	OptimizationGoal        string          `json:"optimization_goal"`
	TopM                    int             `json:"top_m" validate:"min=0,max=50"`
	GridSize                int             `json:"grid_size" validate:"min=0,max=20"`
	DeduplicationThresholdM float64         `json:"deduplication_threshold_m" validate:"min=0"`
	EnableRefinement        bool            `json:"enable_refinement"`
}

type metricsResponse struct {
	MaxTravelTime     float64  `json:"max_travel_time"`
	AverageTravelTime float64  `json:"average_travel_time"`
	TotalTravelTime   float64  `json:"total_travel_time"`
	Variance          *float64 `json:"variance,omitempty"`
}

type optimalPointResponse struct {
	Rank      int             `json:"rank"`
	ID        string          `json:"id"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Type      string          `json:"type"`
	Score     float64         `json:"score"`
	Metrics   metricsResponse `json:"metrics"`
}

type debugPointResponse struct {
	ID        string   `json:"id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Type      string   `json:"type"`
	Phase     string   `json:"phase"`
	Score     *float64 `json:"score,omitempty"`
}

// meetingPointsResponse model info
//
//	@Description	response body with the ranked meeting points plus the full
//	@Description	diagnostic candidate set for map debugging.
type meetingPointsResponse struct {
	OptimalPoints         []optimalPointResponse `json:"optimal_points"`
	DebugPoints           []debugPointResponse   `json:"debug_points"`
	DebugPointsPolyline   string                 `json:"debug_points_polyline"`
	MatrixAPICalls        int                    `json:"matrix_api_calls"`
	TotalHypothesisPoints int                    `json:"total_hypothesis_points"`
}

func NewMeetingPointsResponse(result *generator.Result) meetingPointsResponse {
	optimal := make([]optimalPointResponse, 0, len(result.OptimalPoints))
	for _, rp := range result.OptimalPoints {
		optimal = append(optimal, optimalPointResponse{
			Rank:      rp.Rank,
			ID:        rp.Point.ID,
			Latitude:  util.RoundFloat(rp.Point.Coordinate.GetLat(), coordinateDecimals),
			Longitude: util.RoundFloat(rp.Point.Coordinate.GetLon(), coordinateDecimals),
			Type:      rp.Point.Type.String(),
			Score:     rp.Score,
			Metrics: metricsResponse{
				MaxTravelTime:     rp.Metrics.MaxTravelTime,
				AverageTravelTime: rp.Metrics.AverageTravelTime,
				TotalTravelTime:   rp.Metrics.TotalTravelTime,
				Variance:          rp.Metrics.Variance,
			},
		})
	}

	debug := make([]debugPointResponse, 0, len(result.DebugPoints))
	debugCoords := make([][]float64, 0, len(result.DebugPoints))
	for _, dp := range result.DebugPoints {
		debug = append(debug, debugPointResponse{
			ID:        dp.Point.ID,
			Latitude:  util.RoundFloat(dp.Point.Coordinate.GetLat(), coordinateDecimals),
			Longitude: util.RoundFloat(dp.Point.Coordinate.GetLon(), coordinateDecimals),
			Type:      dp.Point.Type.String(),
			Phase:     dp.Point.Phase.String(),
			Score:     dp.Score,
		})
		debugCoords = append(debugCoords, []float64{dp.Point.Coordinate.GetLat(),
			dp.Point.Coordinate.GetLon()})
	}

	return meetingPointsResponse{
		OptimalPoints:         optimal,
		DebugPoints:           debug,
		DebugPointsPolyline:   string(polyline.EncodeCoords(debugCoords)),
		MatrixAPICalls:        result.MatrixAPICalls,
		TotalHypothesisPoints: result.TotalHypothesisPoints,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
