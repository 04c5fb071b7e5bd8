package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vytor/cardrank/internal/logger"
)

// ErrMissingColumns is returned when the header lacks name or image_url.
var ErrMissingColumns = errors.New("csv must contain 'name' and 'image_url' columns")

// Row is one importable card read from the file.
type Row struct {
	Line        int
	Name        string
	ImageURL    string
	Description string
}

// Skip records a row that was dropped and why.
type Skip struct {
	Line   int
	Reason string
}

// Result is everything ParseCSV read.
type Result struct {
	Rows    []Row
	Skipped []Skip
}

// ParseCSV reads a header row followed by card rows. Row and skip line numbers are the
// 1-based physical line a record starts on, so a quoted field spanning lines does not
// shift the rows after it.
func ParseCSV(r io.Reader, log *logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.Default()
	}
	log = log.WithPrefix("importer")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrMissingColumns)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := columnIndex(header)
	nameCol, okName := cols["name"]
	imageCol, okImage := cols["image_url"]
	if !okName || !okImage {
		return nil, fmt.Errorf("%w (found %s)", ErrMissingColumns, strings.Join(header, ", "))
	}
	descCol, hasDesc := cols["description"]

	res := &Result{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn("skipping row %d: %v", parseErr.StartLine, parseErr.Err)
				res.Skipped = append(res.Skipped, Skip{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := Row{
			Line:     line,
			Name:     field(record, nameCol),
			ImageURL: field(record, imageCol),
		}
		if hasDesc {
			row.Description = field(record, descCol)
		}
		if row.Name == "" || row.ImageURL == "" {
			log.Warn("skipping row %d: missing name or image_url", line)
			res.Skipped = append(res.Skipped, Skip{Line: line, Reason: "missing name or image_url"})
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	log.Info("loaded %d cards, skipped %d rows", len(res.Rows), len(res.Skipped))
	return res, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
