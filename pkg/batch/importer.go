// Package batch provides bulk part registration from tabular sources
package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/packline/packline/pkg/ledger"
	"github.com/packline/packline/pkg/logger"
	"github.com/packline/packline/pkg/types"
)

// Result summarizes one import run. Processed counts every row that
// reached registration, whatever its verdict; rows that errored before
// registration appear only in Errors.
type Result struct {
	RunID     string
	Processed int
	Approved  int
	Rejected  int
	Errors    []*RowError
}

// ErrorMessages renders the row errors in source order
func (r *Result) ErrorMessages() []string {
	msgs := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}

// Importer registers parts in bulk from comma-delimited UTF-8 input
// with a header row. Column order is free and extra columns are
// ignored; the required column names come from configuration.
type Importer struct {
	ledger  *ledger.Ledger
	columns types.BatchColumns
	logger  logger.Logger
}

// NewImporter creates an importer feeding the given ledger
func NewImporter(l *ledger.Ledger, cfg types.BatchConfig, log logger.Logger) *Importer {
	columns := cfg.Columns
	if columns.Weight == "" {
		columns.Weight = "weight"
	}
	if columns.Color == "" {
		columns.Color = "color"
	}
	if columns.Length == "" {
		columns.Length = "length"
	}

	return &Importer{
		ledger:  l,
		columns: columns,
		logger:  log,
	}
}

// ImportFile imports every data row of the CSV file at path.
// An unreadable file or a header missing required columns aborts the
// whole batch with zero processed; per-row failures are collected in
// the result and never stop the batch.
func (i *Importer) ImportFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, path)
	}
	defer file.Close()

	return i.ImportReader(file)
}

// ImportReader imports from an already-open source
func (i *Importer) ImportReader(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // short rows are a per-row error, not a batch failure
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read header row", ErrSourceUnavailable)
	}

	index, err := i.resolveColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.New().String()}
	if i.logger != nil {
		i.logger.Debug("Starting batch import", logger.WithField("run", result.RunID))
	}

	// Header is row 1; data rows count from 2.
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, &RowError{
				Row:    row,
				Kind:   RowErrorUnexpected,
				Detail: err.Error(),
			})
			continue
		}

		i.importRow(result, row, record, index)
	}

	if i.logger != nil {
		i.logger.Info("Batch import finished",
			logger.WithField("run", result.RunID),
			logger.WithField("processed", result.Processed),
			logger.WithField("approved", result.Approved),
			logger.WithField("rejected", result.Rejected),
			logger.WithField("errors", len(result.Errors)))
	}

	return result, nil
}

// columnIndex maps the three required attributes to header positions
type columnIndex struct {
	weight int
	color  int
	length int
}

func (i *Importer) resolveColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for pos, name := range header {
		positions[normalizeColumn(name)] = pos
	}

	index := columnIndex{weight: -1, color: -1, length: -1}
	var missing []string

	lookup := func(name string) int {
		if pos, ok := positions[normalizeColumn(name)]; ok {
			return pos
		}
		missing = append(missing, name)
		return -1
	}

	index.weight = lookup(i.columns.Weight)
	index.color = lookup(i.columns.Color)
	index.length = lookup(i.columns.Length)

	if len(missing) > 0 {
		return index, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (i *Importer) importRow(result *Result, row int, record []string, index columnIndex) {
	weightRaw, rowErr := fieldAt(record, row, index.weight, i.columns.Weight)
	if rowErr != nil {
		result.Errors = append(result.Errors, rowErr)
		return
	}
	colorRaw, rowErr := fieldAt(record, row, index.color, i.columns.Color)
	if rowErr != nil {
		result.Errors = append(result.Errors, rowErr)
		return
	}
	lengthRaw, rowErr := fieldAt(record, row, index.length, i.columns.Length)
	if rowErr != nil {
		result.Errors = append(result.Errors, rowErr)
		return
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(weightRaw), 64)
	if err != nil {
		result.Errors = append(result.Errors, &RowError{
			Row:    row,
			Kind:   RowErrorMalformed,
			Column: i.columns.Weight,
			Detail: strconv.Quote(strings.TrimSpace(weightRaw)),
		})
		return
	}

	length, err := strconv.ParseFloat(strings.TrimSpace(lengthRaw), 64)
	if err != nil {
		result.Errors = append(result.Errors, &RowError{
			Row:    row,
			Kind:   RowErrorMalformed,
			Column: i.columns.Length,
			Detail: strconv.Quote(strings.TrimSpace(lengthRaw)),
		})
		return
	}

	_, verdict := i.ledger.Register(weight, strings.TrimSpace(colorRaw), length)
	result.Processed++
	if verdict.Passed {
		result.Approved++
	} else {
		result.Rejected++
	}
}

func fieldAt(record []string, row, pos int, column string) (string, *RowError) {
	if pos >= len(record) {
		return "", &RowError{Row: row, Kind: RowErrorMissingColumn, Column: column}
	}
	return record[pos], nil
}
