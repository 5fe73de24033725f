// Package spreadsheet extracts survey questions from uploaded workbooks.
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExtractQuestions reads the first sheet of a workbook and returns the
// non-empty values of its first column, in row order. The first row is
// treated as a header and skipped.
func ExtractQuestions(filePath string) ([]string, error) {
	workbook, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %v", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading rows: %v", err)
	}

	var questions []string
	for rowIndex, row := range rows {
		if rowIndex == 0 {
			continue // header
		}
		if len(row) == 0 {
			continue
		}

		questionText := strings.TrimSpace(row[0])
		if questionText == "" {
			continue
		}

		questions = append(questions, questionText)
	}

	return questions, nil
}

// IsSpreadsheetFile reports whether the filename carries a supported
// spreadsheet extension.
func IsSpreadsheetFile(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}

	parts := strings.Split(filename, ".")
	extension := strings.ToLower(parts[len(parts)-1])

	return extension == "xlsx" || extension == "xlsm"
}
