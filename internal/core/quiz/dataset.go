package quiz

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed data/sample.json
var sampleFS embed.FS

// SampleName is the display name of the bundled dataset.
const SampleName = "bundled sample"

var (
	// ErrEmptyDataset is returned when a dataset contains no questions.
	ErrEmptyDataset = errors.New("dataset contains no questions")
	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// datasetFile is the on-disk envelope: {"questions": [...]}.
type datasetFile struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Dataset is a loaded, read-only question collection.
type Dataset struct {
	Source    string     // file, glob, or SampleName
	Files     []string   // files the questions were read from
	Questions []Question // dataset order
}

// Len returns the number of questions.
func (d Dataset) Len() int {
	return len(d.Questions)
}

// Lookup returns the question with the given id.
func (d Dataset) Lookup(id string) (Question, bool) {
	for _, q := range d.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Sample returns the bundled sample dataset.
func Sample() (Dataset, error) {
	data, err := sampleFS.ReadFile("data/sample.json")
	if err != nil {
		return Dataset{}, fmt.Errorf("read bundled sample: %w", err)
	}

	qs, err := Parse(data, ".json")
	if err != nil {
		return Dataset{}, fmt.Errorf("parse bundled sample: %w", err)
	}

	return Dataset{Source: SampleName, Questions: qs}, nil
}

// Load reads a dataset from a file path or a doublestar glob pattern.
// Glob matches are read in sorted path order and concatenated. An empty
// source loads the bundled sample.
func Load(source string) (Dataset, error) {
	if source == "" {
		return Sample()
	}

	files, err := expand(source)
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Source: source, Files: files}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return Dataset{}, fmt.Errorf("read dataset %q: %w", file, err)
		}

		qs, err := Parse(data, filepath.Ext(file))
		if err != nil {
			return Dataset{}, fmt.Errorf("parse dataset %q: %w", file, err)
		}
		ds.Questions = append(ds.Questions, qs...)
	}

	if len(ds.Questions) == 0 {
		return ds, ErrEmptyDataset
	}

	return ds, nil
}

// expand resolves source to a sorted list of files.
func expand(source string) ([]string, error) {
	if !hasMeta(source) {
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("dataset %q: %w", source, err)
		}
		return []string{source}, nil
	}

	matches, err := doublestar.FilepathGlob(source, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand dataset glob %q: %w", source, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("dataset glob %q matched no files", source)
	}

	sort.Strings(matches)
	return matches, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Parse decodes questions from JSON or YAML, chosen by file extension. Both
// the {"questions": [...]} envelope and a bare list are accepted.
func Parse(data []byte, ext string) ([]Question, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func parseJSON(data []byte) ([]Question, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDataset
	}

	if trimmed[0] == '[' {
		var qs []Question
		if err := json.Unmarshal(trimmed, &qs); err != nil {
			return nil, err
		}
		return qs, nil
	}

	var file datasetFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, err
	}
	return file.Questions, nil
}

func parseYAML(data []byte) ([]Question, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, ErrEmptyDataset
	}

	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var qs []Question
		if err := doc.Decode(&qs); err != nil {
			return nil, err
		}
		return qs, nil
	}

	var file datasetFile
	if err := doc.Decode(&file); err != nil {
		return nil, err
	}
	return file.Questions, nil
}
