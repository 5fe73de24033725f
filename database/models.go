package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Survey struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description pgtype.Text        `json:"description"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type Section struct {
	ID            int64       `json:"id"`
	SurveyID      int64       `json:"survey_id"`
	SectionNumber int32       `json:"section_number"`
	Title         string      `json:"title"`
	Description   pgtype.Text `json:"description"`
}

type Question struct {
	ID             int64  `json:"id"`
	SectionID      int64  `json:"section_id"`
	QuestionNumber int32  `json:"question_number"`
	QuestionText   string `json:"question_text"`
}

type Response struct {
	ID              int64              `json:"id"`
	SurveyID        int64              `json:"survey_id"`
	Email           pgtype.Text        `json:"email"`
	ParticipantName pgtype.Text        `json:"participant_name"`
	ResumeToken     pgtype.Text        `json:"resume_token"`
	IsComplete      bool               `json:"is_complete"`
	SubmittedAt     pgtype.Timestamptz `json:"submitted_at"`
}

type Answer struct {
	ID          int64       `json:"id"`
	ResponseID  int64       `json:"response_id"`
	QuestionID  int64       `json:"question_id"`
	Choice      string      `json:"choice"`
	Elaboration pgtype.Text `json:"elaboration"`
}
