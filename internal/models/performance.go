package models

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Performance carries the mission-kind specific metrics of a result.
// The set of implementations is closed; switch on the concrete type.
type Performance interface {
	Kind() MissionType
	performance()
}

// StepsPerformance summarises a step-count mission.
type StepsPerformance struct {
	AverageDaily  int     `json:"average_daily" yaml:"average_daily"`
	BestDay       int     `json:"best_day" yaml:"best_day"`
	DaysCompleted int     `json:"days_completed" yaml:"days_completed"`
	TotalDays     int     `json:"total_days" yaml:"total_days"`
	Efficiency    float64 `json:"efficiency" yaml:"efficiency"`
}

// WorkoutPerformance summarises a workout-count mission.
type WorkoutPerformance struct {
	WorkoutsCompleted int `json:"workouts_completed" yaml:"workouts_completed"`
	TotalWorkouts     int `json:"total_workouts" yaml:"total_workouts"`
	AverageDuration   int `json:"average_duration" yaml:"average_duration"` // minutes
	TotalCalories     int `json:"total_calories" yaml:"total_calories"`
}

// CaloriesPerformance summarises a calorie-target mission.
type CaloriesPerformance struct {
	AverageDaily int `json:"average_daily" yaml:"average_daily"`
	TargetDaily  int `json:"target_daily" yaml:"target_daily"`
	DaysOnTarget int `json:"days_on_target" yaml:"days_on_target"`
	TotalDays    int `json:"total_days" yaml:"total_days"`
}

// ConsistencyPerformance summarises a streak/habit mission.
type ConsistencyPerformance struct {
	CurrentStreak int `json:"current_streak" yaml:"current_streak"`
	LongestStreak int `json:"longest_streak" yaml:"longest_streak"`
	DaysCompleted int `json:"days_completed" yaml:"days_completed"`
	TotalDays     int `json:"total_days" yaml:"total_days"`
}

// CustomPerformance holds free-form metrics. It is also the variant for
// mission types this package does not know.
type CustomPerformance struct {
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`
}

func (*StepsPerformance) Kind() MissionType       { return MissionTypeSteps }
func (*WorkoutPerformance) Kind() MissionType     { return MissionTypeWorkout }
func (*CaloriesPerformance) Kind() MissionType    { return MissionTypeCalories }
func (*ConsistencyPerformance) Kind() MissionType { return MissionTypeConsistency }
func (*CustomPerformance) Kind() MissionType      { return MissionTypeCustom }

func (*StepsPerformance) performance()       {}
func (*WorkoutPerformance) performance()     {}
func (*CaloriesPerformance) performance()    {}
func (*ConsistencyPerformance) performance() {}
func (*CustomPerformance) performance()      {}

// NewPerformance returns the zero variant for a mission type.
func NewPerformance(t MissionType) Performance {
	switch t {
	case MissionTypeSteps:
		return &StepsPerformance{}
	case MissionTypeWorkout:
		return &WorkoutPerformance{}
	case MissionTypeCalories:
		return &CaloriesPerformance{}
	case MissionTypeConsistency:
		return &ConsistencyPerformance{}
	default:
		return &CustomPerformance{}
	}
}

// DecodePerformanceJSON decodes raw JSON into the variant for t.
// Empty or null input yields a nil Performance.
func DecodePerformanceJSON(t MissionType, raw []byte) (Performance, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	perf := NewPerformance(t)
	if err := json.Unmarshal(raw, perf); err != nil {
		return nil, err
	}
	return perf, nil
}

// DecodePerformanceYAML decodes a YAML node into the variant for t.
// A nil or empty node yields a nil Performance.
func DecodePerformanceYAML(t MissionType, node *yaml.Node) (Performance, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	perf := NewPerformance(t)
	if err := node.Decode(perf); err != nil {
		return nil, err
	}
	return perf, nil
}
