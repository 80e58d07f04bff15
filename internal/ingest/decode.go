package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AngelCh415/growth-report/internal/models"
)

var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrEmptyFile      = errors.New("empty file")
)

type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// ParseDataset valida el nombre que llega por URL.
func ParseDataset(s string) (models.Dataset, error) {
	for _, ds := range models.Datasets {
		if string(ds) == strings.ToLower(strings.TrimSpace(s)) {
			return ds, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
}

// DetectFormat: los .xlsx son zip, todo lo demás se trata como CSV.
func DetectFormat(filename string, raw []byte) Format {
	if bytes.HasPrefix(raw, zipMagic) || strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

func Decode(f Format, raw []byte) ([]models.Record, error) {
	if f == FormatXLSX {
		return DecodeXLSX(raw)
	}
	return DecodeCSV(raw)
}

// DecodeCSV lee un CSV con encabezado. El separador (';', ',' o tab) se
// deduce de la primera línea.
func DecodeCSV(raw []byte) ([]models.Record, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}
	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = sniffComma(raw)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var out []models.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if rec, ok := toRecord(header, row); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// DecodeXLSX toma la primera hoja, con la primera fila como encabezado.
func DecodeXLSX(raw []byte) ([]models.Record, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyFile
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	var header []string
	var out []models.Record
	for rows.Next() {
		vals, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		if header == nil {
			if isBlank(vals) {
				continue
			}
			header = vals
			continue
		}
		if rec, ok := toRecord(header, vals); ok {
			out = append(out, rec)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, ErrEmptyFile
	}
	return out, nil
}

func sniffComma(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	best, n := ',', bytes.Count(line, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if k := bytes.Count(line, []byte(string(c))); k > n {
			best, n = c, k
		}
	}
	return best
}

// toRecord descarta las filas en blanco; las columnas faltantes quedan "".
func toRecord(header, row []string) (models.Record, bool) {
	if isBlank(row) {
		return nil, false
	}
	rec := make(models.Record, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		v := ""
		if i < len(row) {
			v = row[i]
		}
		rec[h] = v
	}
	return rec, true
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
