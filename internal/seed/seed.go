// Package seed loads mission results from YAML files and imports them into
// the store.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fentz26/missionlog/internal/audit"
	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/store"
)

// File is the top-level layout of a seed file.
type File struct {
	Results []Result `yaml:"results"`
}

// Result is one mission result as written in a seed file.
type Result struct {
	ID            string             `yaml:"id"`
	ClientID      string             `yaml:"client_id"`
	MissionID     string             `yaml:"mission_id"`
	MissionTitle  string             `yaml:"mission_title"`
	MissionType   models.MissionType `yaml:"mission_type"`
	Difficulty    models.Difficulty  `yaml:"difficulty"`
	TargetValue   float64            `yaml:"target_value"`
	TargetUnit    string             `yaml:"target_unit"`
	PointsEarned  int                `yaml:"points_earned"`
	Status        models.Status      `yaml:"status"`
	Progress      int                `yaml:"progress"`
	StartDate     time.Time          `yaml:"start_date"`
	EndDate       time.Time          `yaml:"end_date"`
	CompletedDate *time.Time         `yaml:"completed_date"`
	Category      models.Category    `yaml:"category"`
	Icon          string             `yaml:"icon"`
	Notes         string             `yaml:"notes"`
	Performance   yaml.Node          `yaml:"performance"`
}

// Model converts the seed entry into a MissionResult.
func (r Result) Model() (models.MissionResult, error) {
	perf, err := models.DecodePerformanceYAML(r.MissionType, &r.Performance)
	if err != nil {
		return models.MissionResult{}, fmt.Errorf("decode performance for %s: %w", r.ID, err)
	}
	return models.MissionResult{
		ID:            r.ID,
		ClientID:      r.ClientID,
		MissionID:     r.MissionID,
		MissionTitle:  r.MissionTitle,
		MissionType:   r.MissionType,
		Difficulty:    r.Difficulty,
		TargetValue:   r.TargetValue,
		TargetUnit:    r.TargetUnit,
		PointsEarned:  r.PointsEarned,
		Status:        r.Status,
		Progress:      r.Progress,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		CompletedDate: r.CompletedDate,
		Category:      r.Category,
		Icon:          r.Icon,
		Notes:         r.Notes,
		Performance:   perf,
	}, nil
}

// Parse decodes seed YAML into validated mission results.
func Parse(data []byte) ([]models.MissionResult, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	results := make([]models.MissionResult, 0, len(f.Results))
	for i, entry := range f.Results {
		r, err := entry.Model()
		if err != nil {
			return nil, err
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("result at index %d: %w", i, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Load reads and parses a seed file.
func Load(path string) ([]models.MissionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Summary describes the outcome of an import.
type Summary struct {
	Source   string
	Imported int
	Skipped  bool // batch was already in the ledger
	Previous *store.ImportRecord
}

// Importer writes seed files into a store and records them in the ledger.
type Importer struct {
	store  *store.Store
	ledger *audit.Ledger
	log    *zap.Logger
}

// NewImporter creates an Importer.
func NewImporter(s *store.Store, ledger *audit.Ledger, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: s, ledger: ledger, log: log}
}

// ImportFile imports the results in path. A batch identical to one already
// in the ledger is skipped unless force is set.
func (im *Importer) ImportFile(ctx context.Context, path string, force bool) (*Summary, error) {
	results, err := Load(path)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, path, results, force)
}

// Import writes results and records the batch under source.
func (im *Importer) Import(ctx context.Context, source string, results []models.MissionResult, force bool) (*Summary, error) {
	sum := &Summary{Source: source}

	if !force {
		prev, err := im.ledger.Seen(ctx, results)
		if err != nil {
			return nil, fmt.Errorf("check ledger: %w", err)
		}
		if prev != nil {
			im.log.Info("import skipped, batch already imported",
				zap.String("source", source),
				zap.String("previous_import", prev.ID),
				zap.Time("imported_at", prev.ImportedAt))
			sum.Skipped = true
			sum.Previous = prev
			return sum, nil
		}
	}

	// Records and their ledger entry commit together.
	var rec *store.ImportRecord
	err := im.store.WithTx(ctx, func(tx *store.Tx) error {
		for _, r := range results {
			if _, err := tx.UpsertResult(ctx, r); err != nil {
				return fmt.Errorf("import %s: %w", r.ID, err)
			}
		}
		var err error
		rec, err = im.ledger.RecordTx(ctx, tx, source, results, len(results))
		if err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		return nil
	})
	if err != nil {
		im.log.Warn("import rolled back", zap.String("source", source), zap.Error(err))
		return nil, err
	}
	sum.Imported = len(results)

	im.log.Info("import complete",
		zap.String("source", source),
		zap.String("import_id", rec.ID),
		zap.Int("records", sum.Imported))
	return sum, nil
}
