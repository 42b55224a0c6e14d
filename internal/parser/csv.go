// Package parser turns column-indented CSV files into a taxonomy forest.
//
// Each row carries one label, placed in the column matching its depth:
//
//	Animals,,
//	,Mammals,
//	,,Dog
//	,Birds,
//
// A row inherits its ancestry from the path built for the previous
// non-blank row, truncated to the row's depth.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"paligo/taxonomy/internal/domain"
)

const bom = "\ufeff"

// Label is the first meaningful cell of a row
type Label struct {
	Depth int
	Value string
}

// ReadFile builds a forest from the CSV file at path.
// The file is closed as soon as parsing finishes.
func ReadFile(path string) (*domain.Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open taxonomy file: %w", err)
	}
	defer f.Close()

	forest, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return forest, nil
}

// Read builds a forest from CSV-encoded rows
func Read(r io.Reader) (*domain.Forest, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	forest := domain.NewForest()
	for _, path := range Paths(rows) {
		forest.Insert(path)
	}

	log.Debugf("Parsed %d rows into %d taxonomy nodes", len(rows), forest.Len())
	return forest, nil
}

func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Hand-written labels carry inch marks and stray quotes, e.g. 12" Pipe
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(rows) == 0 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], bom)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// FirstLabel returns the first cell holding non-whitespace content.
// Cells after it are ignored.
func FirstLabel(row []string) (Label, bool) {
	for depth, cell := range row {
		if value := strings.TrimSpace(cell); value != "" {
			return Label{Depth: depth, Value: value}, true
		}
	}
	return Label{}, false
}

// NextPath derives a row's path from the previous path. A nil previous path
// or depth 0 starts a new root. When previous is shorter than depth the
// result is shorter than depth+1; that input has no well-defined parent.
func NextPath(previous domain.Path, label Label) domain.Path {
	if previous == nil || label.Depth == 0 {
		return domain.Path{label.Value}
	}

	keep := min(label.Depth, len(previous))
	if keep < label.Depth {
		log.Debugf("Row %q at depth %d follows shallower path %q", label.Value, label.Depth, previous)
	}

	path := make(domain.Path, 0, keep+1)
	path = append(path, previous[:keep]...)
	return append(path, label.Value)
}

// Paths folds rows into one path per non-blank row.
// Blank rows leave the previous path untouched.
func Paths(rows [][]string) []domain.Path {
	var (
		paths    []domain.Path
		previous domain.Path
	)
	for _, row := range rows {
		label, ok := FirstLabel(row)
		if !ok {
			continue
		}
		previous = NextPath(previous, label)
		paths = append(paths, previous)
	}
	return paths
}
