package main

import (
	"context"
	"flag"

	"meetpoint/pkg/generator"
	"meetpoint/pkg/http"
	"meetpoint/pkg/http/usecases"
	"meetpoint/pkg/logger"
	"meetpoint/pkg/provider"
	"meetpoint/pkg/util"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	useRateLimit    = flag.Bool("rate_limit", false, "enable the API rate limit middleware")
	matrixCachePath = flag.String("matrix_cache", "./data/matrix_cache.db", "bbolt file for the travel time matrix cache, empty disables caching")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("no config file found, using defaults", zap.Error(err))
	}

	var matrixProvider provider.MatrixProvider = provider.NewHaversineEstimator()
	var cleanupCache func()
	if *matrixCachePath != "" {
		db, err := bolt.Open(*matrixCachePath, 0600, nil)
		if err != nil {
			logger.Warn("failed to open matrix cache, running without cache", zap.Error(err))
		} else {
			cached, err := provider.NewCachedProvider(matrixProvider, db, logger)
			if err != nil {
				logger.Warn("failed to init matrix cache, running without cache", zap.Error(err))
				db.Close()
			} else {
				matrixProvider = cached
				cleanupCache = func() { db.Close() }
			}
		}
	}

	pointGenerator := generator.NewGenerator(logger, matrixProvider)

	api := http.NewServer(logger)

	meetingService := usecases.NewMeetingPointService(logger, pointGenerator)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx,
		logger, *useRateLimit, meetingService)

	signal := http.GracefulShutdown()

	logger.Info("Meetpoint Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
	if cleanupCache != nil {
		cleanupCache()
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
