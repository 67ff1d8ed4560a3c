package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"carbonpay/internal/domain"
)

type EmissionWriter interface {
	UpsertEmission(ctx context.Context, e domain.Emission) error
}

// columns lists the required header names. Extra columns are ignored.
var columns = []string{"id", "source", "amount", "date", "offset", "projectName"}

// CSVImporter reads emission rows from CSV and upserts them by id.
type CSVImporter struct {
	reader *csv.Reader
	writer EmissionWriter
}

func NewCSVImporter(r io.Reader, w EmissionWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, writer: w}
}

// Run imports every row and returns how many were written. It stops at the
// first invalid row; rows before it stay imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)
		if blank(record) {
			continue
		}

		e, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if err := e.Validate(); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if err := i.writer.UpsertEmission(ctx, e); err != nil {
			return imported, fmt.Errorf("upsert emission %q: %w", e.ID, err)
		}
		imported++
	}
	return imported, nil
}

func parseRow(record []string, index map[string]int) (domain.Emission, error) {
	amount, err := strconv.Atoi(pick(record, index, "amount"))
	if err != nil {
		return domain.Emission{}, fmt.Errorf("invalid amount: %w", err)
	}
	offset, err := strconv.Atoi(pick(record, index, "offset"))
	if err != nil {
		return domain.Emission{}, fmt.Errorf("invalid offset: %w", err)
	}
	date, err := time.Parse(time.DateOnly, pick(record, index, "date"))
	if err != nil {
		return domain.Emission{}, fmt.Errorf("invalid date: %w", err)
	}
	return domain.Emission{
		ID:          pick(record, index, "id"),
		Source:      pick(record, index, "source"),
		Amount:      amount,
		Date:        date,
		Offset:      offset,
		ProjectName: pick(record, index, "projectName"),
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
