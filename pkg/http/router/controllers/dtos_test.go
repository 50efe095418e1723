package controllers

import (
	"testing"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/generator"
	"meetpoint/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func TestNewMeetingPointsResponse(t *testing.T) {
	point := datastructure.HypothesisPoint{
		ID:         "p-anchor-1",
		Coordinate: geo.NewCoordinate(-6.91474412345, 107.60981098765),
		Type:       pkg.GEOGRAPHIC_CENTROID,
		Phase:      pkg.FINAL_OUTPUT,
	}
	score := 12.5
	result := &generator.Result{
		OptimalPoints: []generator.RankedPoint{
			{Rank: 1, Point: point, Score: score},
		},
		DebugPoints: []generator.DebugPoint{
			{Point: point, Score: &score},
		},
		MatrixAPICalls:        2,
		TotalHypothesisPoints: 1,
	}

	resp := NewMeetingPointsResponse(result)

	t.Run("coordinates are rounded to 6 decimals", func(t *testing.T) {
		assert.InDelta(t, -6.914744, resp.OptimalPoints[0].Latitude, 1e-9)
		assert.InDelta(t, 107.609811, resp.OptimalPoints[0].Longitude, 1e-9)
		assert.InDelta(t, -6.914744, resp.DebugPoints[0].Latitude, 1e-9)
		assert.InDelta(t, 107.609811, resp.DebugPoints[0].Longitude, 1e-9)
	})

	t.Run("rank, score, and counters carry over", func(t *testing.T) {
		assert.Equal(t, 1, resp.OptimalPoints[0].Rank)
		assert.InDelta(t, 12.5, resp.OptimalPoints[0].Score, 1e-9)
		assert.Equal(t, "geographic_centroid", resp.OptimalPoints[0].Type)
		assert.Equal(t, "final_output", resp.DebugPoints[0].Phase)
		assert.Equal(t, 2, resp.MatrixAPICalls)
		assert.Equal(t, 1, resp.TotalHypothesisPoints)
		assert.NotEmpty(t, resp.DebugPointsPolyline)
	})
}
