package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/generator"
	helper "meetpoint/pkg/http/router/routerhelper"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type meetingAPI struct {
	meetingService MeetingPointService
	log            *zap.Logger
}

func New(meetingService MeetingPointService, log *zap.Logger) *meetingAPI {
	return &meetingAPI{
		meetingService: meetingService,
		log:            log,
	}

}

func (api *meetingAPI) Routes(group *helper.RouteGroup) {
	group.POST("/meetingPoints", api.meetingPoints)
}

// meetingPoints godoc
// @Summary		find fair meeting points for a group of participants using real-world travel times.
// @Description	find fair meeting points for a group of participants using real-world travel times.
// @Tags			meetingpoints
// @ID meeting-points
// @Param			body	body	meetingPointsRequest	true
// @Accept			application/json
// @Produce		application/json
// @Router			/api/meetingPoints [post]
// @Success		200	{object}	meetingPointsResponse
// @Failure		400	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *meetingAPI) meetingPoints(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request meetingPointsRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	cfg := generator.DefaultConfig()
	if request.TravelMode != "" {
		mode, ok := pkg.GetTravelMode(request.TravelMode)
		if !ok {
			api.BadRequestResponse(w, r, fmt.Errorf("unknown travel_mode %q", request.TravelMode))
			return
		}
		cfg.Mode = mode
	}
	if request.OptimizationGoal != "" {
		goal, ok := pkg.GetOptimizationGoal(request.OptimizationGoal)
		if !ok {
			api.BadRequestResponse(w, r, fmt.Errorf("unknown optimization_goal %q", request.OptimizationGoal))
			return
		}
		cfg.Goal = goal
	}
	if request.TopM > 0 {
		cfg.TopM = request.TopM
	}
	if request.GridSize > 0 {
		cfg.GridSize = request.GridSize
	}
	if request.DeduplicationThresholdM > 0 {
		cfg.DeduplicationThresholdMeters = request.DeduplicationThresholdM
	}
	cfg.EnableRefinement = request.EnableRefinement

	locations := make([]datastructure.Location, 0, len(request.Locations))
	for _, loc := range request.Locations {
		locations = append(locations, datastructure.NewLocation(loc.Name, loc.Latitude, loc.Longitude))
	}

	result, err := api.meetingService.FindMeetingPoints(r.Context(), locations, cfg)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewMeetingPointsResponse(result)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
