package vocab

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lingua/internal/lang"
)

// ImportConfig maps spreadsheet columns onto word fields. Columns are
// spreadsheet letters ("A", "B", ...); an empty column is not read.
type ImportConfig struct {
	FilePath           string
	SheetName          string // xlsx only; empty means the first sheet
	WordColumn         string
	TranslationColumn  string
	PartOfSpeechColumn string
	ExampleColumn      string
	SkipHeader         bool
}

// DefaultImportConfig reads word, translation, part of speech and example
// from columns A to D and skips one header row.
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:           path,
		WordColumn:         "A",
		TranslationColumn:  "B",
		PartOfSpeechColumn: "C",
		ExampleColumn:      "D",
		SkipHeader:         true,
	}
}

// ImportResult reports what an import did.
type ImportResult struct {
	Processed int
	Added     int
	Skipped   int
	Errors    []string
}

// ReadWords parses an .xlsx or .csv file into words. Rows with an empty word
// or translation are reported in the result and not returned.
func ReadWords(cfg ImportConfig) ([]NewWord, *ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		rows, err = readCSV(cfg.FilePath)
	case ".xlsx", ".xlsm":
		rows, err = readExcel(cfg.FilePath, cfg.SheetName)
	default:
		return nil, nil, fmt.Errorf("unsupported import file %q: want .xlsx or .csv", cfg.FilePath)
	}
	if err != nil {
		return nil, nil, err
	}

	cols, err := cfg.columns()
	if err != nil {
		return nil, nil, err
	}

	result := &ImportResult{}
	var words []NewWord
	for i, row := range rows {
		if i == 0 && cfg.SkipHeader {
			continue
		}
		if isBlank(row) {
			continue
		}
		result.Processed++

		w := NewWord{
			Word:         cell(row, cols[0]),
			Translation:  cell(row, cols[1]),
			PartOfSpeech: cell(row, cols[2]),
			Example:      cell(row, cols[3]),
		}
		switch {
		case w.Word == "":
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: word cannot be empty", i+1))
			continue
		case w.Translation == "":
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: translation cannot be empty", i+1))
			continue
		}
		words = append(words, w)
	}
	return words, result, nil
}

// Import reads a file and adds its words to a language's vocabulary.
func (s *Service) Import(ctx context.Context, l lang.Language, cfg ImportConfig) (*ImportResult, error) {
	words, result, err := ReadWords(cfg)
	if err != nil {
		return nil, err
	}
	added, err := s.AddWords(ctx, l, words)
	if err != nil {
		return nil, err
	}
	result.Added = added
	result.Skipped = len(words) - added
	return result, nil
}

// columns resolves the configured letters to zero-based indexes; -1 means
// the field is not mapped.
func (cfg ImportConfig) columns() ([4]int, error) {
	var idx [4]int
	for i, name := range []string{cfg.WordColumn, cfg.TranslationColumn, cfg.PartOfSpeechColumn, cfg.ExampleColumn} {
		if name == "" {
			if i < 2 {
				return idx, errors.New("word and translation columns are required")
			}
			idx[i] = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return idx, fmt.Errorf("column %q: %w", name, err)
		}
		idx[i] = n - 1
	}
	return idx, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
