package query

import (
	"cmp"
	"slices"

	"github.com/fentz26/missionlog/internal/models"
)

type compareFunc func(a, b models.MissionResult) int

// descending comparators; the sort is stable so ties keep input order.
var comparators = map[SortKey]compareFunc{
	SortByDate: func(a, b models.MissionResult) int {
		return b.StartDate.Compare(a.StartDate)
	},
	SortByPoints: func(a, b models.MissionResult) int {
		return cmp.Compare(b.PointsEarned, a.PointsEarned)
	},
	SortByPerformance: func(a, b models.MissionResult) int {
		return cmp.Compare(b.Progress, a.Progress)
	},
}

// Sort returns a copy of records ordered by key. Unknown keys sort by date.
func Sort(records []models.MissionResult, key SortKey) []models.MissionResult {
	out := slices.Clone(records)
	if out == nil {
		out = []models.MissionResult{}
	}
	fn, ok := comparators[key]
	if !ok {
		fn = comparators[SortByDate]
	}
	slices.SortStableFunc(out, fn)
	return out
}
