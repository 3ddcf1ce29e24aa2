package query

import (
	"time"

	"github.com/fentz26/missionlog/internal/models"
)

var baseDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return baseDate.AddDate(0, 0, n) }

// scenarioResults mirrors a small client history: four records for
// client 2 and one for client 3.
func scenarioResults() []models.MissionResult {
	done1 := day(6)
	done3 := day(-8)
	done4 := day(2)
	return []models.MissionResult{
		{
			ID: "1", ClientID: "2", MissionTitle: "10K Steps Daily", MissionType: models.MissionTypeSteps,
			Difficulty: models.DifficultyMedium, PointsEarned: 150, Status: models.StatusCompleted, Progress: 100,
			StartDate: day(0), EndDate: day(7), CompletedDate: &done1, Category: models.CategoryFitness,
			Performance: &models.StepsPerformance{AverageDaily: 11250, BestDay: 15420, DaysCompleted: 7, TotalDays: 7, Efficiency: 112.5},
		},
		{
			ID: "2", ClientID: "2", MissionTitle: "Weekly Workout Warrior", MissionType: models.MissionTypeWorkout,
			Difficulty: models.DifficultyHard, PointsEarned: 37, Status: models.StatusExpired, Progress: 75,
			StartDate: day(-7), EndDate: day(0), Category: models.CategoryFitness,
			Performance: &models.WorkoutPerformance{WorkoutsCompleted: 3, TotalWorkouts: 4},
		},
		{
			ID: "3", ClientID: "2", MissionTitle: "Hydration Hero", MissionType: models.MissionTypeConsistency,
			Difficulty: models.DifficultyEasy, PointsEarned: 100, Status: models.StatusCompleted, Progress: 100,
			StartDate: day(-14), EndDate: day(-7), CompletedDate: &done3, Category: models.CategoryNutrition,
		},
		{
			ID: "4", ClientID: "3", MissionTitle: "Calorie Crusher", MissionType: models.MissionTypeCalories,
			Difficulty: models.DifficultyMedium, PointsEarned: 75, Status: models.StatusCompleted, Progress: 100,
			StartDate: day(-3), EndDate: day(4), CompletedDate: &done4, Category: models.CategoryNutrition,
		},
		{
			ID: "5", ClientID: "2", MissionTitle: "Sleep Schedule Master", MissionType: models.MissionTypeConsistency,
			Difficulty: models.DifficultyHard, PointsEarned: 0, Status: models.StatusFailed, Progress: 45,
			StartDate: day(-21), EndDate: day(-14), Category: models.CategoryLifestyle,
		},
	}
}

func ids(records []models.MissionResult) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
