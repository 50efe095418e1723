package generator

import (
	"testing"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func TestBuildCoarseGrid(t *testing.T) {
	locations := []datastructure.Location{
		datastructure.NewLocation("a", -6.1754, 106.8272),
		datastructure.NewLocation("b", -6.2607, 106.8105),
	}

	t.Run("emits gridSize squared cell centers", func(t *testing.T) {
		cfg := DefaultConfig()
		run := &runState{}
		points, cellDiag := run.buildCoarseGrid(locations, cfg)
		assert.Len(t, points, cfg.GridSize*cfg.GridSize)
		assert.Greater(t, cellDiag, 0.0)
		for _, p := range points {
			assert.Equal(t, pkg.COARSE_GRID, p.Phase)
			assert.Equal(t, pkg.COARSE_GRID_CELL, p.Type)
		}
	})

	t.Run("grid covers the expanded participant box", func(t *testing.T) {
		cfg := DefaultConfig()
		run := &runState{}
		points, _ := run.buildCoarseGrid(locations, cfg)

		// participant box expanded by the margin fraction on every side
		latMargin := (-6.1754 - -6.2607) * cfg.GridMarginFraction
		lngMargin := (106.8272 - 106.8105) * cfg.GridMarginFraction
		for _, p := range points {
			assert.GreaterOrEqual(t, p.Coordinate.GetLat(), -6.2607-latMargin-1e-9)
			assert.LessOrEqual(t, p.Coordinate.GetLat(), -6.1754+latMargin+1e-9)
			assert.GreaterOrEqual(t, p.Coordinate.GetLon(), 106.8105-lngMargin-1e-9)
			assert.LessOrEqual(t, p.Coordinate.GetLon(), 106.8272+lngMargin+1e-9)
		}
	})

	t.Run("grid follows participants across the antimeridian", func(t *testing.T) {
		straddling := []datastructure.Location{
			datastructure.NewLocation("west", 0.0, 179.8),
			datastructure.NewLocation("east", 0.2, -179.8),
		}
		cfg := DefaultConfig()
		run := &runState{}
		points, _ := run.buildCoarseGrid(straddling, cfg)
		assert.Len(t, points, cfg.GridSize*cfg.GridSize)

		for _, p := range points {
			// every cell stays near the 45km participant box, never on the
			// far side of the globe
			d := geo.DistanceMeters(geo.NewCoordinate(0.1, 180.0), p.Coordinate)
			assert.Less(t, d, 100_000.0)
			lon := p.Coordinate.GetLon()
			assert.True(t, lon >= 179.0 || lon <= -179.0, "lon %v left the box", lon)
		}
	})

	t.Run("co-located participants still get a usable grid", func(t *testing.T) {
		same := []datastructure.Location{
			datastructure.NewLocation("a", -6.2, 106.8),
			datastructure.NewLocation("b", -6.2, 106.8),
		}
		cfg := DefaultConfig()
		run := &runState{}
		points, cellDiag := run.buildCoarseGrid(same, cfg)
		assert.Len(t, points, cfg.GridSize*cfg.GridSize)

		// the minimum span floor keeps distinct cells apart
		d := geo.DistanceMeters(points[0].Coordinate, points[1].Coordinate)
		assert.Greater(t, d, 10.0)
		assert.Greater(t, cellDiag, 10.0)
	})

	t.Run("grid size one emits a single center", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GridSize = 1
		run := &runState{}
		points, _ := run.buildCoarseGrid(locations, cfg)
		assert.Len(t, points, 1)
	})
}

func TestBuildRefinementGrid(t *testing.T) {
	run := &runState{}
	seeds := []geo.Coordinate{
		geo.NewCoordinate(-6.2, 106.8),
		geo.NewCoordinate(-6.3, 106.9),
	}

	points := run.buildRefinementGrid(seeds, 500.0, 4)
	assert.Len(t, points, 2*4*4)

	for _, p := range points {
		assert.Equal(t, pkg.LOCAL_REFINEMENT, p.Phase)
		assert.Equal(t, pkg.LOCAL_REFINEMENT_CELL, p.Type)
	}

	// every cell center stays inside its seed's radius box diagonal
	for _, p := range points[:16] {
		d := geo.DistanceMeters(seeds[0], p.Coordinate)
		assert.Less(t, d, 1000.0)
	}
}
