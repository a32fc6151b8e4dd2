package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bookstore-migrator/internal/domains/book/model"

	"github.com/xuri/excelize/v2"
)

var requiredColumns = []string{"title", "author", "price", "note"}

type fileReader struct{}

func NewFileReader() EntryReader {
	return &fileReader{}
}

// ReadEntries chọn parser theo extension của file
func (r *fileReader) ReadEntries(path string) ([]model.BookEntry, error) {
	var (
		entries []model.BookEntry
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = r.readJSON(path)
	case ".xlsx":
		entries, err = r.readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedInput, path)
	}
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrEmptyInput, path)
	}
	return entries, nil
}

func (r *fileReader) readJSON(path string) ([]model.BookEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries []model.BookEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for i := range entries {
		entries[i].Row = i + 1
	}
	return entries, nil
}

// readXLSX đọc sheet đầu tiên; row 1 là header (title, author, price, note)
func (r *fileReader) readXLSX(path string) ([]model.BookEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", model.ErrEmptyInput, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	colMap := buildColumnIndexMap(rows[0])
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrMissingColumn, col)
		}
	}

	var entries []model.BookEntry
	for i, record := range rows[1:] {
		rowNum := i + 2 // row 1 là header

		getCol := func(name string) string {
			if idx, ok := colMap[name]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		if getCol("title") == "" && getCol("author") == "" {
			continue // dòng trống
		}

		price, err := model.ParsePrice(getCol("price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %s", rowNum, model.ErrInvalidPrice, getCol("price"))
		}

		entries = append(entries, model.BookEntry{
			Row:    rowNum,
			Title:  getCol("title"),
			Author: getCol("author"),
			Price:  price,
			Note:   getCol("note"),
		})
	}
	return entries, nil
}

// buildColumnIndexMap tạo map từ column name → index
func buildColumnIndexMap(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, colName := range header {
		colMap[strings.TrimSpace(strings.ToLower(colName))] = i
	}
	return colMap
}

// ========================================
// WRITER
// ========================================

type fileWriter struct{}

func NewFileWriter() SeedWriter {
	return &fileWriter{}
}

func (w *fileWriter) WriteSeed(path string, script string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
