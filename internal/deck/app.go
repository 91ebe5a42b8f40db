// Package deck wires the quiz domain to its storage and health checks.
// Commands and the TUI consume App instead of reaching for stores directly.
package deck

import (
	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/data/db"
)

// App is the central entry point for all quizdeck operations.
type App struct {
	Marks  *MarkService
	Doctor *DoctorService

	Config  *config.Config
	Dataset quiz.Dataset
	// DatasetErr is the load error, if any. Dataset holds no questions when
	// it is set.
	DatasetErr error
	// DB is nil for the JSON backend.
	DB *db.DB
	// StorageErr is set when the mark backend could not be opened.
	StorageErr error
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg *config.Config, ds quiz.Dataset, dsErr error, storage *Storage) *App {
	marks := NewMarkService(storage.Store)
	return &App{
		Marks:      marks,
		Doctor:     NewDoctorService(cfg, ds, dsErr, marks, storage.DB),
		Config:     cfg,
		Dataset:    ds,
		DatasetErr: dsErr,
		DB:         storage.DB,
		StorageErr: storage.Err,
	}
}
