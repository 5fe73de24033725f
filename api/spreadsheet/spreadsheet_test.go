package spreadsheet_test

import (
	"path/filepath"
	"testing"

	"github.com/quorumhq/quorum/api/spreadsheet"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, cells map[string]string) string {
	t.Helper()

	workbook := excelize.NewFile()
	for cell, value := range cells {
		if err := workbook.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("set cell %s: %v", cell, err)
		}
	}

	path := filepath.Join(t.TempDir(), "questions.xlsx")
	if err := workbook.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestExtractQuestionsSkipsHeaderAndBlanks(t *testing.T) {
	path := writeWorkbook(t, map[string]string{
		"A1": "Question",
		"A2": "Should antibiotics be given preoperatively?",
		"A3": "   ",
		"A4": "  Is routine drainage recommended?  ",
		"B2": "ignored column",
	})

	questions, err := spreadsheet.ExtractQuestions(path)
	if err != nil {
		t.Fatalf("extract questions: %v", err)
	}

	want := []string{
		"Should antibiotics be given preoperatively?",
		"Is routine drainage recommended?",
	}

	if len(questions) != len(want) {
		t.Fatalf("got %d questions, want %d: %v", len(questions), len(want), questions)
	}
	for i := range want {
		if questions[i] != want[i] {
			t.Errorf("question %d = %q, want %q", i, questions[i], want[i])
		}
	}
}

func TestExtractQuestionsEmptyWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string]string{"A1": "Question"})

	questions, err := spreadsheet.ExtractQuestions(path)
	if err != nil {
		t.Fatalf("extract questions: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("got %d questions, want 0", len(questions))
	}
}

func TestExtractQuestionsMissingFile(t *testing.T) {
	if _, err := spreadsheet.ExtractQuestions(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsSpreadsheetFile(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"questions.xlsx", true},
		{"QUESTIONS.XLSX", true},
		{"macro.xlsm", true},
		{"questions.csv", false},
		{"questions.xls", false},
		{"noextension", false},
		{"archive.tar.xlsx", true},
	}

	for _, c := range cases {
		if got := spreadsheet.IsSpreadsheetFile(c.filename); got != c.want {
			t.Errorf("IsSpreadsheetFile(%q) = %v, want %v", c.filename, got, c.want)
		}
	}
}
