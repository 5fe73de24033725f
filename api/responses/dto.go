package responses

import (
	"github.com/quorumhq/quorum/database"
	"github.com/shopspring/decimal"
)

// Actions a respondent can take on a section page.
const (
	ActionSave     = "save"
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionSubmit   = "submit"
)

type AnswerInput struct {
	QuestionID  int64  `json:"question_id" validate:"required"`
	Choice      string `json:"choice" validate:"omitempty,oneof=Yes No Abstain"`
	Elaboration string `json:"elaboration"`
}

type SaveSectionBody struct {
	Action          string        `json:"action" validate:"required,oneof=save next previous submit"`
	Email           string        `json:"email" validate:"omitempty,email"`
	ParticipantName string        `json:"participant_name"`
	ResumeToken     string        `json:"resume_token"`
	Answers         []AnswerInput `json:"answers" validate:"dive"`
}

// SectionView renders one page of the survey: the section's questions plus
// whatever the resuming respondent already answered.
type SectionView struct {
	Survey        database.Survey     `json:"survey"`
	Section       database.Section    `json:"section"`
	Questions     []database.Question `json:"questions"`
	SectionNum    int                 `json:"section_num"`
	TotalSections int                 `json:"total_sections"`
	Email         string              `json:"email,omitempty"`
	Answers       []database.Answer   `json:"answers"`
}

// EntryState is what the survey entry route hands back: where to start and,
// when a resume token matched, the restored session identity.
type EntryState struct {
	SurveyID    int64  `json:"survey_id"`
	SectionNum  int    `json:"section_num"`
	ResumeToken string `json:"resume_token,omitempty"`
	Email       string `json:"email,omitempty"`
}

// SaveSectionResult reports the outcome of a section action: the section to
// show next, the session token (empty once submitted) and, for saves,
// whether the resume email was handed to the delivery queue.
type SaveSectionResult struct {
	SectionNum          int             `json:"section_num"`
	TotalSections       int             `json:"total_sections"`
	ResumeToken         string          `json:"resume_token,omitempty"`
	Email               string          `json:"email,omitempty"`
	Completed           bool            `json:"completed"`
	EmailQueued         bool            `json:"email_queued"`
	ResumeLink          string          `json:"resume_link,omitempty"`
	PercentageCompleted decimal.Decimal `json:"percentage_completed"`
}
