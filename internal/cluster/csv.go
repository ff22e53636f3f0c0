package cluster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ClusterColumn is the header of the cluster id column in tabular assignments.
const ClusterColumn = "cluster"

// ErrMissingColumn is returned when a tabular assignment lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// LoadCSV reads a tabular assignment with a header row. keyColumn names the
// column holding the handle; when empty the first column is used. Other columns,
// such as embedding dimensions, are ignored.
func LoadCSV(path, keyColumn string, source Source) (*Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, path)
		}
		return nil, fmt.Errorf("opening assignment file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, keyColumn, source)
}

// ReadCSV parses a tabular assignment from r.
func ReadCSV(r io.Reader, keyColumn string, source Source) (*Assignment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s (empty file)", ErrMissingColumn, ClusterColumn)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	keyIdx, clusterIdx := 0, -1
	if keyColumn != "" {
		keyIdx = -1
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == ClusterColumn {
			clusterIdx = i
		}
		if keyColumn != "" && name == keyColumn {
			keyIdx = i
		}
	}
	if clusterIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ClusterColumn)
	}
	if keyIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, keyColumn)
	}

	a := New(source)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", line, err)
		}
		if keyIdx >= len(record) || clusterIdx >= len(record) {
			return nil, fmt.Errorf("parsing line %d: expected at least %d fields, got %d",
				line, max(keyIdx, clusterIdx)+1, len(record))
		}

		handle := strings.TrimSpace(record[keyIdx])
		if handle == "" {
			continue
		}
		id, err := parseClusterID(record[clusterIdx])
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", line, err)
		}
		a.Set(handle, id)
	}

	return a, nil
}

// parseClusterID accepts integer ids, including float spellings like "2.0".
func parseClusterID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid cluster id %q", s)
	}
	return int(f), nil
}
