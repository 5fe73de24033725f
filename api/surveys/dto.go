package surveys

import (
	"strings"
	"time"

	"github.com/quorumhq/quorum/api/stats"
	"github.com/quorumhq/quorum/database"
)

// Request bodies

type SectionInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Questions   []string `json:"questions"`
}

type CreateSurveyBody struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Sections    []SectionInput `json:"sections" validate:"required,min=1,dive"`
}

type UpdateSurveyBody struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Sections    []SectionInput `json:"sections" validate:"required,min=1,dive"`
}

// NormalizeSections trims question text, drops blank questions and sections
// with a blank title, and renumbers what remains. Returns the surviving
// sections and the total question count.
func NormalizeSections(inputs []SectionInput) ([]SectionInput, int) {
	var sections []SectionInput
	totalQuestions := 0

	for _, input := range inputs {
		title := strings.TrimSpace(input.Title)
		if title == "" {
			continue
		}

		var questions []string
		for _, questionText := range input.Questions {
			questionText = strings.TrimSpace(questionText)
			if questionText == "" {
				continue
			}
			questions = append(questions, questionText)
		}
		totalQuestions += len(questions)

		sections = append(sections, SectionInput{
			Title:       title,
			Description: strings.TrimSpace(input.Description),
			Questions:   questions,
		})
	}

	return sections, totalQuestions
}

// Store parameter structs

type CreateSurveyParams struct {
	Title       string
	Description string
	Sections    []SectionInput
}

type ReplaceSectionsParams struct {
	SurveyID    int64
	Title       string
	Description string
	Sections    []SectionInput
}

// Read views

type SurveyDetail struct {
	Survey   database.Survey `json:"survey"`
	Sections []SectionDetail `json:"sections"`
}

type SectionDetail struct {
	Section   database.Section      `json:"section"`
	Questions []QuestionWithAnswers `json:"questions"`
}

type QuestionWithAnswers struct {
	Question database.Question `json:"question"`
	Answers  []database.Answer `json:"answers"`
}

// Results

type SurveyResults struct {
	Survey         database.Survey       `json:"survey"`
	TotalResponses int64                 `json:"total_responses"`
	PassedCount    int                   `json:"passed_count"`
	FailedCount    int                   `json:"failed_count"`
	Statistics     []stats.Statistics    `json:"statistics"`
	Sections       []SectionElaborations `json:"sections"`
}

type SectionElaborations struct {
	SectionTitle string                 `json:"section_title"`
	Questions    []QuestionElaborations `json:"questions"`
}

type QuestionElaborations struct {
	QuestionNumber int                `json:"question_number"`
	QuestionText   string             `json:"question_text"`
	Elaborations   []ElaborationEntry `json:"elaborations"`
}

type ElaborationEntry struct {
	Choice      string    `json:"choice"`
	Elaboration string    `json:"elaboration"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Per-respondent records

type RespondentRecord struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	SubmittedAt time.Time       `json:"submitted_at"`
	IsComplete  bool            `json:"is_complete"`
	Sections    []RecordSection `json:"sections"`
}

type RecordSection struct {
	SectionTitle string         `json:"section_title"`
	Answers      []RecordAnswer `json:"answers"`
}

type RecordAnswer struct {
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question_text"`
	Choice         string `json:"choice"`
	Elaboration    string `json:"elaboration"`
}
