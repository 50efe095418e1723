package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/generator"
	helper "meetpoint/pkg/http/router/routerhelper"
	"meetpoint/pkg/provider"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubMeetingService struct {
	lastLocations []datastructure.Location
	lastCfg       generator.Config
	result        *generator.Result
	err           error
}

func (s *stubMeetingService) FindMeetingPoints(ctx context.Context, locations []datastructure.Location,
	cfg generator.Config) (*generator.Result, error) {
	s.lastLocations = locations
	s.lastCfg = cfg
	return s.result, s.err
}

func newTestRouter(service MeetingPointService) *httprouter.Router {
	router := httprouter.New()
	group := helper.NewRouteGroup(router, "/api")
	New(service, zap.NewNop()).Routes(group)
	return router
}

func postMeetingPoints(t *testing.T, router *httprouter.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/meetingPoints",
		bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func runResult(t *testing.T) *generator.Result {
	t.Helper()
	gen := generator.NewGenerator(zap.NewNop(), provider.NewHaversineEstimator())
	locations := []datastructure.Location{
		datastructure.NewLocation("alice", -6.1754, 106.8272),
		datastructure.NewLocation("bob", -6.2607, 106.8105),
	}
	result, err := gen.Run(context.Background(), locations, generator.DefaultConfig())
	assert.NoError(t, err)
	return result
}

func TestMeetingPointsHandler(t *testing.T) {
	validBody := `{
		"locations": [
			{"name": "alice", "latitude": -6.1754, "longitude": 106.8272},
			{"name": "bob", "latitude": -6.2607, "longitude": 106.8105}
		]
	}`

	t.Run("happy path", func(t *testing.T) {
		service := &stubMeetingService{result: runResult(t)}
		rec := postMeetingPoints(t, newTestRouter(service), validBody)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data meetingPointsResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Data.OptimalPoints)
		assert.Equal(t, 1, body.Data.OptimalPoints[0].Rank)
		assert.NotEmpty(t, body.Data.DebugPoints)
		assert.NotEmpty(t, body.Data.DebugPointsPolyline)
		assert.Greater(t, body.Data.MatrixAPICalls, 0)

		assert.Len(t, service.lastLocations, 2)
		assert.Equal(t, "alice", service.lastLocations[0].Name)
	})

	t.Run("config overrides reach the service", func(t *testing.T) {
		service := &stubMeetingService{result: runResult(t)}
		body := `{
			"locations": [
				{"name": "alice", "latitude": -6.1754, "longitude": 106.8272},
				{"name": "bob", "latitude": -6.2607, "longitude": 106.8105}
			],
			"travel_mode": "foot-walking",
			"optimization_goal": "mean",
			"top_m": 5,
			"grid_size": 7,
			"deduplication_threshold_m": 350,
			"enable_refinement": true
		}`
		rec := postMeetingPoints(t, newTestRouter(service), body)
		assert.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, pkg.FOOT_WALKING, service.lastCfg.Mode)
		assert.Equal(t, pkg.MEAN, service.lastCfg.Goal)
		assert.Equal(t, 5, service.lastCfg.TopM)
		assert.Equal(t, 7, service.lastCfg.GridSize)
		assert.InDelta(t, 350.0, service.lastCfg.DeduplicationThresholdMeters, 1e-9)
		assert.True(t, service.lastCfg.EnableRefinement)
	})

	t.Run("malformed json", func(t *testing.T) {
		service := &stubMeetingService{result: runResult(t)}
		rec := postMeetingPoints(t, newTestRouter(service), `{"locations": [`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("single location fails validation", func(t *testing.T) {
		service := &stubMeetingService{result: runResult(t)}
		body := `{"locations": [{"name": "alice", "latitude": -6.1754, "longitude": 106.8272}]}`
		rec := postMeetingPoints(t, newTestRouter(service), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("latitude out of range fails validation", func(t *testing.T) {
		service := &stubMeetingService{result: runResult(t)}
		body := `{
			"locations": [
				{"name": "alice", "latitude": 95.0, "longitude": 106.8272},
				{"name": "bob", "latitude": -6.2607, "longitude": 106.8105}
			]
		}`
		rec := postMeetingPoints(t, newTestRouter(service), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown travel mode", func(t *testing.T) {
		service := &stubMeetingService{result: runResult(t)}
		body := `{
			"locations": [
				{"name": "alice", "latitude": -6.1754, "longitude": 106.8272},
				{"name": "bob", "latitude": -6.2607, "longitude": 106.8105}
			],
			"travel_mode": "teleport"
		}`
		rec := postMeetingPoints(t, newTestRouter(service), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown optimization goal", func(t *testing.T) {
		service := &stubMeetingService{result: runResult(t)}
		body := `{
			"locations": [
				{"name": "alice", "latitude": -6.1754, "longitude": 106.8272},
				{"name": "bob", "latitude": -6.2607, "longitude": 106.8105}
			],
			"optimization_goal": "fastest"
		}`
		rec := postMeetingPoints(t, newTestRouter(service), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service error maps to status code", func(t *testing.T) {
		service := &stubMeetingService{err: errors.New("generation failed")}
		rec := postMeetingPoints(t, newTestRouter(service), validBody)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
