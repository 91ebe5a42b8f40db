package deck

import (
	"context"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/doctor"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/data/db"
)

// DoctorService runs health checks on the quizdeck setup.
type DoctorService struct {
	config     *config.Config
	dataset    quiz.Dataset
	datasetErr error
	marks      *MarkService
	db         *db.DB
}

// NewDoctorService creates a new DoctorService. database may be nil.
func NewDoctorService(cfg *config.Config, ds quiz.Dataset, dsErr error, marks *MarkService, database *db.DB) *DoctorService {
	return &DoctorService{
		config:     cfg,
		dataset:    ds,
		datasetErr: dsErr,
		marks:      marks,
		db:         database,
	}
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewDatasetCheck(d.dataset, d.datasetErr),
		doctor.NewMarksCheck(d.marks.Store(), d.marks.Location(), d.dataset.Questions, autofix),
	}
	if d.db != nil {
		checks = append(checks, doctor.NewStorageCheck(d.db))
	}
	return doctor.RunAll(ctx, checks)
}
