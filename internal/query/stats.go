package query

import "github.com/fentz26/missionlog/internal/models"

// Stats summarises a set of mission results.
type Stats struct {
	TotalMissions      int     `json:"total_missions"`
	CompletedMissions  int     `json:"completed_missions"`
	TotalPointsEarned  int     `json:"total_points_earned"`
	AveragePerformance float64 `json:"average_performance"`
	SuccessRate        float64 `json:"success_rate"`
}

// Summarize computes Stats over records. Points from unfinished missions
// count toward the total. Both ratios are 0 for an empty input.
func Summarize(records []models.MissionResult) Stats {
	var st Stats
	var progress int
	for _, r := range records {
		st.TotalMissions++
		st.TotalPointsEarned += r.PointsEarned
		progress += r.Progress
		if r.Status == models.StatusCompleted {
			st.CompletedMissions++
		}
	}

	if st.TotalMissions > 0 {
		n := float64(st.TotalMissions)
		st.AveragePerformance = float64(progress) / n
		st.SuccessRate = float64(st.CompletedMissions) / n * 100
	}
	return st
}
