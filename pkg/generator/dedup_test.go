package generator

import (
	"testing"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func hypothesisPoint(id string, lat, lon float64, phase pkg.Phase) datastructure.HypothesisPoint {
	return datastructure.HypothesisPoint{
		ID:         id,
		Coordinate: geo.NewCoordinate(lat, lon),
		Phase:      phase,
	}
}

func TestDeduplicate(t *testing.T) {
	t.Run("points closer than the threshold merge", func(t *testing.T) {
		points := []datastructure.HypothesisPoint{
			hypothesisPoint("a", -6.2000, 106.8000, pkg.ANCHOR),
			// ~110m north of a
			hypothesisPoint("b", -6.1990, 106.8000, pkg.COARSE_GRID),
			// ~5.5km east of a
			hypothesisPoint("c", -6.2000, 106.8500, pkg.COARSE_GRID),
		}

		kept := deduplicate(points, 200.0)
		assert.Len(t, kept, 2)
		assert.Equal(t, "a", kept[0].ID)
		assert.Equal(t, "c", kept[1].ID)
	})

	t.Run("earlier phase survives on merge", func(t *testing.T) {
		points := []datastructure.HypothesisPoint{
			hypothesisPoint("anchor", -6.2000, 106.8000, pkg.ANCHOR),
			hypothesisPoint("grid", -6.2001, 106.8001, pkg.COARSE_GRID),
			hypothesisPoint("refined", -6.2002, 106.8002, pkg.LOCAL_REFINEMENT),
		}

		kept := deduplicate(points, 200.0)
		assert.Len(t, kept, 1)
		assert.Equal(t, "anchor", kept[0].ID)
		assert.Equal(t, pkg.ANCHOR, kept[0].Phase)
	})

	t.Run("due-north neighbor inside the threshold merges", func(t *testing.T) {
		// axis-aligned near-duplicates must merge too, not only diagonal ones
		points := []datastructure.HypothesisPoint{
			hypothesisPoint("a", -6.2000, 106.8000, pkg.ANCHOR),
			// ~110m due north of a
			hypothesisPoint("north", -6.1990, 106.8000, pkg.COARSE_GRID),
			// ~110m due east of a
			hypothesisPoint("east", -6.2000, 106.8010, pkg.COARSE_GRID),
		}

		kept := deduplicate(points, 150.0)
		assert.Len(t, kept, 1)
		assert.Equal(t, "a", kept[0].ID)
	})

	t.Run("distant points all survive", func(t *testing.T) {
		points := []datastructure.HypothesisPoint{
			hypothesisPoint("a", -6.20, 106.80, pkg.ANCHOR),
			hypothesisPoint("b", -6.25, 106.85, pkg.ANCHOR),
			hypothesisPoint("c", -6.30, 106.90, pkg.ANCHOR),
		}
		kept := deduplicate(points, 200.0)
		assert.Len(t, kept, 3)
	})

	t.Run("chain of near points keeps only the first", func(t *testing.T) {
		// each consecutive pair is ~110m apart, ends are ~220m apart: b merges
		// into a, and c is compared against the kept a, not the dropped b
		points := []datastructure.HypothesisPoint{
			hypothesisPoint("a", -6.2000, 106.8000, pkg.ANCHOR),
			hypothesisPoint("b", -6.1990, 106.8000, pkg.ANCHOR),
			hypothesisPoint("c", -6.1980, 106.8000, pkg.ANCHOR),
		}
		kept := deduplicate(points, 150.0)
		assert.Len(t, kept, 2)
		assert.Equal(t, "a", kept[0].ID)
		assert.Equal(t, "c", kept[1].ID)
	})

	t.Run("zero threshold keeps everything", func(t *testing.T) {
		points := []datastructure.HypothesisPoint{
			hypothesisPoint("a", -6.2000, 106.8000, pkg.ANCHOR),
			hypothesisPoint("b", -6.2000, 106.8000, pkg.ANCHOR),
		}
		kept := deduplicate(points, 0)
		assert.Len(t, kept, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		kept := deduplicate(nil, 200.0)
		assert.Empty(t, kept)
	})
}
