package deck

import (
	"github.com/colonyops/quizdeck/internal/core/logging"
	"github.com/colonyops/quizdeck/internal/core/quiz"
)

// LoadDataset loads source and logs the self-check findings. On failure it
// returns an empty dataset alongside the error so callers can keep running.
func LoadDataset(source string) (quiz.Dataset, error) {
	logger := logging.Component("dataset")

	ds, err := quiz.Load(source)
	if err != nil {
		logger.Warn().Err(err).Str("source", source).Msg("dataset unavailable")
		return quiz.Dataset{Source: source}, err
	}

	for _, f := range quiz.SelfCheck(ds.Questions) {
		ev := logger.Debug()
		switch f.Severity {
		case quiz.SeverityFail:
			ev = logger.Error()
		case quiz.SeverityWarn:
			ev = logger.Warn()
		case quiz.SeverityNote:
			ev = logger.Info()
		}
		ev.Str("check", f.Check).Msg(f.Detail)
	}

	logger.Info().
		Str("source", ds.Source).
		Int("questions", ds.Len()).
		Int("files", len(ds.Files)).
		Msg("dataset loaded")

	return ds, nil
}
