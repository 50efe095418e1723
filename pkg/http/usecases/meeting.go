package usecases

import (
	"context"

	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/generator"

	"go.uber.org/zap"
)

type PointGenerator interface {
	Run(ctx context.Context, locations []datastructure.Location,
		cfg generator.Config) (*generator.Result, error)
}

type MeetingPointService struct {
	log       *zap.Logger
	generator PointGenerator
}

func NewMeetingPointService(log *zap.Logger, gen PointGenerator) *MeetingPointService {
	return &MeetingPointService{
		log:       log,
		generator: gen,
	}
}

func (s *MeetingPointService) FindMeetingPoints(ctx context.Context,
	locations []datastructure.Location, cfg generator.Config) (*generator.Result, error) {
	s.log.Info("meeting point search requested",
		zap.Int("participants", len(locations)),
		zap.String("goal", cfg.Goal.String()),
		zap.String("mode", cfg.Mode.String()))

	return s.generator.Run(ctx, locations, cfg)
}
