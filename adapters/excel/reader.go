package excel

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"autoinsight/domain/dataset"
	"autoinsight/internal"
	apperrors "autoinsight/internal/errors"
)

// DataReader loads CSV, XLSX and JSON record files into a Dataset. It
// implements ports.DatasetReader and sits outside the pipeline core.
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a reader. A nil logger uses DefaultLogger.
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if config.Comma == 0 {
		config.Comma = ','
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger}
}

// ReadDataset picks a decoder from the file extension.
func (r *DataReader) ReadDataset(ctx context.Context, path string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound(fmt.Sprintf("file %s", path))
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	start := time.Now()
	var (
		ds  *dataset.Dataset
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		ds, err = r.readCSV(path, ext)
	case ".xlsx", ".xlsm":
		ds, err = r.readExcel(path)
	case ".json":
		ds, err = r.readJSON(path)
	default:
		return nil, apperrors.Unsupported(ext)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("read %s in %.2fms (%d rows, %d columns)",
		path, float64(time.Since(start).Nanoseconds())/1e6, ds.NumRows(), ds.NumCols())
	return ds, nil
}

func (r *DataReader) readCSV(path, ext string) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.config.Comma
	if ext == ".tsv" {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.InvalidInputCause("malformed CSV", err)
	}
	return r.fromRows(rows)
}

func (r *DataReader) readExcel(path string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.InvalidInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return r.fromRows(rows)
}

// readJSON accepts an array of flat objects. Columns appear in the order
// their keys are first seen, starting with the first object.
func (r *DataReader) readJSON(path string) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open JSON file: %w", err)
	}
	defer file.Close()
	return r.decodeJSON(file)
}

const jsonShapeError = "JSON input must be an array of objects"

// decodeJSON walks the token stream so key order survives; decoding into a
// map would lose it.
func (r *DataReader) decodeJSON(in io.Reader) (*dataset.Dataset, error) {
	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var (
		header  []string
		seen    = make(map[string]bool)
		records []map[string]any
	)
	for dec.More() {
		if r.config.MaxRows > 0 && len(records) == r.config.MaxRows {
			break
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		rec := make(map[string]any)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, apperrors.InvalidInputCause(jsonShapeError, err)
			}
			key, ok := tok.(string)
			if !ok {
				return nil, apperrors.InvalidInput(jsonShapeError)
			}
			var value any
			if err := dec.Decode(&value); err != nil {
				return nil, apperrors.InvalidInputCause(jsonShapeError, err)
			}
			rec[key] = value
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return dataset.FromRecords(header, records)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return apperrors.InvalidInputCause(jsonShapeError, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return apperrors.InvalidInput(jsonShapeError)
	}
	return nil
}

// fromRows treats the first row as the header. Short rows are padded with
// missing cells; blank header cells get positional names.
func (r *DataReader) fromRows(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) < 1 {
		return nil, apperrors.InvalidInput("file has no header row")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		header[i] = h
	}

	body := rows[1:]
	if r.config.MaxRows > 0 && len(body) > r.config.MaxRows {
		body = body[:r.config.MaxRows]
	}
	ds, err := dataset.FromStrings(header, body)
	if err != nil {
		return nil, apperrors.InvalidInputCause("invalid table", err)
	}
	return ds, nil
}
