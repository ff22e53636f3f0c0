package cluster

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Errors returned when reading assignment files.
var (
	ErrAssignmentNotFound = errors.New("cluster assignment not found")
	ErrUnsupportedVersion = errors.New("unsupported assignment version")
)

// CurrentFileVersion is the format version of gob assignment files.
// Increment this when making breaking changes to the file format.
const CurrentFileVersion = 1

// assignmentFile is the on-disk gob representation of an assignment.
type assignmentFile struct {
	Version   int
	Source    Source
	Model     string
	CreatedAt time.Time
	Members   map[string]int
}

// SaveGob writes the assignment to path using gob encoding.
// The file is written to a temp file first and renamed into place.
func (a *Assignment) SaveGob(path, model string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	file := assignmentFile{
		Version:   CurrentFileVersion,
		Source:    a.Source,
		Model:     model,
		CreatedAt: time.Now().UTC(),
		Members:   a.Members,
	}
	if err := gob.NewEncoder(f).Encode(file); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding assignment: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// LoadGob reads a gob assignment file.
// Returns ErrUnsupportedVersion if the file was written with an incompatible format.
func LoadGob(path string) (*Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, path)
		}
		return nil, fmt.Errorf("opening assignment file: %w", err)
	}
	defer f.Close()

	var file assignmentFile
	if err := gob.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding assignment: %w", err)
	}

	if file.Version != CurrentFileVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, file.Version, CurrentFileVersion)
	}

	return FromMap(file.Source, file.Members), nil
}

// LoadJSON reads an assignment stored as a JSON object of handle -> cluster id.
func LoadJSON(path string, source Source) (*Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, path)
		}
		return nil, fmt.Errorf("reading assignment file: %w", err)
	}

	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing assignment file: %w", err)
	}
	return FromMap(source, m), nil
}

// LoadFile reads an assignment, choosing the format from the file extension:
// .csv (keyColumn selects the handle column), .json, or .gob.
func LoadFile(path, keyColumn string, source Source) (*Assignment, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, keyColumn, source)
	case ".json":
		return LoadJSON(path, source)
	case ".gob":
		a, err := LoadGob(path)
		if err != nil {
			return nil, err
		}
		a.Source = source
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported assignment format %q (want .csv, .json or .gob)", filepath.Ext(path))
	}
}
