// Package reports renders survey results into downloadable artifacts.
package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/quorumhq/quorum/api/stats"
	"github.com/quorumhq/quorum/api/surveys"
	"github.com/xuri/excelize/v2"
)

// ResultRow is one question's line in an export, in canonical traversal
// order.
type ResultRow struct {
	QuestionNumber int
	SectionTitle   string
	QuestionText   string
	TotalResponses int
	YesPercentage  float64
	NoPercentage   float64
	AbstainCount   int
	MeetsThreshold bool
	Comments       []string
}

var exportHeaders = []string{
	"Q#", "Section", "Question Text", "Total Responses",
	"Yes %", "No %", "Abstain", "Comments",
}

// BuildRows flattens a survey into export rows. NoPercentage shares the
// yes+no denominator with YesPercentage: abstentions never dilute either
// side.
func BuildRows(detail surveys.SurveyDetail) []ResultRow {
	var rows []ResultRow

	for _, sectionDetail := range detail.Sections {
		for _, questionWithAnswers := range sectionDetail.Questions {
			statistics := stats.Compute(
				int(questionWithAnswers.Question.QuestionNumber),
				questionWithAnswers.Question.QuestionText,
				questionWithAnswers.Answers,
			)

			var comments []string
			for _, answer := range questionWithAnswers.Answers {
				if answer.Elaboration.Valid && strings.TrimSpace(answer.Elaboration.String) != "" {
					comments = append(comments, strings.TrimSpace(answer.Elaboration.String))
				}
			}

			rows = append(rows, ResultRow{
				QuestionNumber: statistics.QuestionNumber,
				SectionTitle:   sectionDetail.Section.Title,
				QuestionText:   statistics.QuestionText,
				TotalResponses: statistics.TotalResponses,
				YesPercentage:  statistics.YesPercentage,
				NoPercentage:   stats.Percentage(statistics.NoCount, statistics.YesCount+statistics.NoCount),
				AbstainCount:   statistics.AbstainCount,
				MeetsThreshold: statistics.MeetsThreshold,
				Comments:       comments,
			})
		}
	}

	return rows
}

// ExportXLSX renders the rows into a styled workbook.
func ExportXLSX(rows []ResultRow) ([]byte, error) {
	workbook := excelize.NewFile()
	defer workbook.Close()

	const sheet = "Results"
	if err := workbook.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("error naming sheet: %v", err)
	}

	headerStyle, err := workbook.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1B3A5C"}},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating header style: %v", err)
	}

	for columnIndex, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(columnIndex+1, 1)
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("error writing header: %v", err)
		}
	}
	if err := workbook.SetCellStyle(sheet, "A1", "H1", headerStyle); err != nil {
		return nil, fmt.Errorf("error styling header: %v", err)
	}

	for rowIndex, row := range rows {
		values := []any{
			row.QuestionNumber,
			row.SectionTitle,
			row.QuestionText,
			row.TotalResponses,
			fmt.Sprintf("%.1f%%", row.YesPercentage),
			fmt.Sprintf("%.1f%%", row.NoPercentage),
			row.AbstainCount,
			strings.Join(row.Comments, " | "),
		}
		for columnIndex, value := range values {
			cell, _ := excelize.CoordinatesToCellName(columnIndex+1, rowIndex+2)
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("error writing row %d: %v", rowIndex+1, err)
			}
		}
	}

	columnWidths := map[string]float64{
		"A": 6, "B": 18, "C": 60, "D": 16, "E": 10, "F": 10, "G": 10, "H": 60,
	}
	for column, width := range columnWidths {
		if err := workbook.SetColWidth(sheet, column, column, width); err != nil {
			return nil, fmt.Errorf("error sizing column %s: %v", column, err)
		}
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %v", err)
	}

	return buf.Bytes(), nil
}

// ExportCSV renders the rows into a CSV with the same columns as the
// workbook export.
func ExportCSV(rows []ResultRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.QuestionNumber),
			row.SectionTitle,
			row.QuestionText,
			strconv.Itoa(row.TotalResponses),
			fmt.Sprintf("%.1f%%", row.YesPercentage),
			fmt.Sprintf("%.1f%%", row.NoPercentage),
			strconv.Itoa(row.AbstainCount),
			strings.Join(row.Comments, " | "),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportFilename derives a download filename from the survey title.
func ExportFilename(title, extension string) string {
	safeTitle := strings.ReplaceAll(title, " ", "_")
	safeTitle = strings.ReplaceAll(safeTitle, "/", "_")
	return fmt.Sprintf("%s_Results.%s", safeTitle, extension)
}
