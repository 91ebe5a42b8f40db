package deck

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/data/db"
	"github.com/colonyops/quizdeck/internal/data/stores"
	"github.com/colonyops/quizdeck/internal/store/jsonfile"
)

// LocatedStore is a mark store that can describe where it writes.
type LocatedStore interface {
	quiz.MarkStore
	Location() string
}

// Storage is the opened mark backend.
type Storage struct {
	Store LocatedStore
	// DB is the open database for the sqlite backend, nil otherwise.
	DB *db.DB
	// Err is why the configured backend could not be opened. Store then
	// fails every Load and Save with it.
	Err error
}

// Close releases the database, if any.
func (s *Storage) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// OpenStorage opens the backend selected by cfg. A corrupt database is moved
// aside and recreated empty. A database that cannot be opened at all yields
// an unavailable store rather than an error, so marks load as an empty set.
// Only an unknown backend is an error.
func OpenStorage(cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendJSON:
		return &Storage{Store: jsonfile.NewMarkStore(cfg.MarksFile())}, nil
	case config.BackendSQLite, "":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	opts := db.DefaultOpenOptions()
	opts.BusyTimeout = cfg.Storage.BusyTimeout

	database, err := db.Open(cfg.DatabaseFile(), opts)
	if err != nil && stores.IsCorruptionError(err) {
		backup, rerr := stores.RecoverFromCorruption(cfg.DatabaseFile())
		if rerr != nil {
			return unavailable(cfg.DatabaseFile(), fmt.Errorf("recover corrupt database: %w", rerr)), nil
		}
		log.Warn().
			Err(err).
			Str("backup", backup).
			Msg("database was corrupt; moved aside and recreated")

		database, err = db.Open(cfg.DatabaseFile(), opts)
	}
	if err != nil {
		return unavailable(cfg.DatabaseFile(), fmt.Errorf("open database: %w", err)), nil
	}

	return &Storage{
		Store: stores.NewMarkStore(stores.NewKVStore(database)),
		DB:    database,
	}, nil
}

func unavailable(location string, err error) *Storage {
	log.Warn().
		Err(err).
		Str("location", location).
		Msg("mark storage unavailable; marks will not persist this run")
	return &Storage{Store: unavailableStore{location: location, err: err}, Err: err}
}

// unavailableStore stands in for a backend that failed to open.
type unavailableStore struct {
	location string
	err      error
}

func (u unavailableStore) Load(context.Context) ([]string, error) { return nil, u.err }

func (u unavailableStore) Save(context.Context, []string) error { return u.err }

func (u unavailableStore) Location() string { return u.location }
