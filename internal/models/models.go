// Package models defines the core domain types for missionlog.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Status is the outcome classification of a mission result.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
	StatusFailed    Status = "failed"
	StatusActive    Status = "active"
)

// Category groups missions by life area.
type Category string

const (
	CategoryFitness   Category = "fitness"
	CategoryNutrition Category = "nutrition"
	CategoryLifestyle Category = "lifestyle"
	CategoryChallenge Category = "challenge"
)

// Difficulty is the difficulty tier a mission was assigned at.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// MissionType determines the shape of a result's Performance.
type MissionType string

const (
	MissionTypeSteps       MissionType = "steps"
	MissionTypeWorkout     MissionType = "workout"
	MissionTypeCalories    MissionType = "calories"
	MissionTypeConsistency MissionType = "consistency"
	MissionTypeCustom      MissionType = "custom"
)

// MissionResult is the historical record of one client's attempt at one
// mission. Values are treated as read-only snapshots.
type MissionResult struct {
	ID            string      `json:"id"`
	ClientID      string      `json:"client_id,omitempty"` // empty for unassigned records
	MissionID     string      `json:"mission_id,omitempty"`
	MissionTitle  string      `json:"mission_title"`
	MissionType   MissionType `json:"mission_type"`
	Difficulty    Difficulty  `json:"difficulty"`
	TargetValue   float64     `json:"target_value"`
	TargetUnit    string      `json:"target_unit"`
	PointsEarned  int         `json:"points_earned"`
	Status        Status      `json:"status"`
	Progress      int         `json:"progress"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       time.Time   `json:"end_date"`
	CompletedDate *time.Time  `json:"completed_date,omitempty"`
	Category      Category    `json:"category"`
	Icon          string      `json:"icon,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Performance   Performance `json:"performance,omitempty"`
}

// Validation errors returned by MissionResult.Validate.
var (
	ErrMissingID          = errors.New("mission result has no id")
	ErrProgressRange      = errors.New("progress must be within [0,100]")
	ErrNegativePoints     = errors.New("points earned must not be negative")
	ErrDateOrder          = errors.New("start date is after end date")
	ErrCompletedNotStatus = errors.New("completed date set on a result that is not completed")
)

// Validate reports whether the record is well formed enough to persist.
// The query engine never calls it.
func (r MissionResult) Validate() error {
	switch {
	case r.ID == "":
		return ErrMissingID
	case r.Progress < 0 || r.Progress > 100:
		return fmt.Errorf("%s: %w", r.ID, ErrProgressRange)
	case r.PointsEarned < 0:
		return fmt.Errorf("%s: %w", r.ID, ErrNegativePoints)
	case r.StartDate.After(r.EndDate):
		return fmt.Errorf("%s: %w", r.ID, ErrDateOrder)
	case r.CompletedDate != nil && r.Status != StatusCompleted:
		return fmt.Errorf("%s: %w", r.ID, ErrCompletedNotStatus)
	}
	return nil
}

// UnmarshalJSON decodes a result, selecting the Performance variant from
// mission_type.
func (r *MissionResult) UnmarshalJSON(data []byte) error {
	type alias MissionResult
	aux := struct {
		*alias
		Performance json.RawMessage `json:"performance,omitempty"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	perf, err := DecodePerformanceJSON(r.MissionType, aux.Performance)
	if err != nil {
		return fmt.Errorf("decode performance for %s: %w", r.ID, err)
	}
	r.Performance = perf
	return nil
}
