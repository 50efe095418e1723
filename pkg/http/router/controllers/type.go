package controllers

import (
	"context"

	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/generator"
)

type MeetingPointService interface {
	FindMeetingPoints(ctx context.Context, locations []datastructure.Location,
		cfg generator.Config) (*generator.Result, error)
}
