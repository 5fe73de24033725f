package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// queries run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// ==================== Surveys ====================

type CreateSurveyParams struct {
	Title       string
	Description pgtype.Text
}

func (q *Queries) CreateSurvey(ctx context.Context, params CreateSurveyParams) (Survey, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO surveys (title, description)
		VALUES ($1, $2)
		RETURNING id, title, description, is_active, created_at`,
		params.Title, params.Description,
	)

	var survey Survey
	err := row.Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsActive, &survey.CreatedAt)
	return survey, err
}

func (q *Queries) GetSurvey(ctx context.Context, surveyID int64) (Survey, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, title, description, is_active, created_at
		FROM surveys
		WHERE id = $1`,
		surveyID,
	)

	var survey Survey
	err := row.Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsActive, &survey.CreatedAt)
	return survey, err
}

func (q *Queries) ListSurveys(ctx context.Context) ([]Survey, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, title, description, is_active, created_at
		FROM surveys
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []Survey
	for rows.Next() {
		var survey Survey
		if err := rows.Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsActive, &survey.CreatedAt); err != nil {
			return nil, err
		}
		surveys = append(surveys, survey)
	}
	return surveys, rows.Err()
}

type UpdateSurveyParams struct {
	ID          int64
	Title       pgtype.Text
	Description pgtype.Text
}

func (q *Queries) UpdateSurvey(ctx context.Context, params UpdateSurveyParams) (Survey, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE surveys
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, title, description, is_active, created_at`,
		params.ID, params.Title, params.Description,
	)

	var survey Survey
	err := row.Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsActive, &survey.CreatedAt)
	return survey, err
}

type SetSurveyActiveParams struct {
	ID       int64
	IsActive bool
}

func (q *Queries) SetSurveyActive(ctx context.Context, params SetSurveyActiveParams) (Survey, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE surveys
		SET is_active = $2
		WHERE id = $1
		RETURNING id, title, description, is_active, created_at`,
		params.ID, params.IsActive,
	)

	var survey Survey
	err := row.Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsActive, &survey.CreatedAt)
	return survey, err
}

func (q *Queries) DeleteSurvey(ctx context.Context, surveyID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM surveys WHERE id = $1`, surveyID)
	return err
}

// ==================== Sections ====================

type CreateSectionParams struct {
	SurveyID      int64
	SectionNumber int32
	Title         string
	Description   pgtype.Text
}

func (q *Queries) CreateSection(ctx context.Context, params CreateSectionParams) (Section, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO sections (survey_id, section_number, title, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, survey_id, section_number, title, description`,
		params.SurveyID, params.SectionNumber, params.Title, params.Description,
	)

	var section Section
	err := row.Scan(&section.ID, &section.SurveyID, &section.SectionNumber, &section.Title, &section.Description)
	return section, err
}

func (q *Queries) GetSectionsBySurveyID(ctx context.Context, surveyID int64) ([]Section, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, survey_id, section_number, title, description
		FROM sections
		WHERE survey_id = $1
		ORDER BY section_number`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var section Section
		if err := rows.Scan(&section.ID, &section.SurveyID, &section.SectionNumber, &section.Title, &section.Description); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func (q *Queries) DeleteSectionsBySurveyID(ctx context.Context, surveyID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM sections WHERE survey_id = $1`, surveyID)
	return err
}

// ==================== Questions ====================

type CreateQuestionParams struct {
	SectionID      int64
	QuestionNumber int32
	QuestionText   string
}

func (q *Queries) CreateQuestion(ctx context.Context, params CreateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO questions (section_id, question_number, question_text)
		VALUES ($1, $2, $3)
		RETURNING id, section_id, question_number, question_text`,
		params.SectionID, params.QuestionNumber, params.QuestionText,
	)

	var question Question
	err := row.Scan(&question.ID, &question.SectionID, &question.QuestionNumber, &question.QuestionText)
	return question, err
}

func (q *Queries) GetQuestionsBySectionID(ctx context.Context, sectionID int64) ([]Question, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, section_id, question_number, question_text
		FROM questions
		WHERE section_id = $1
		ORDER BY question_number`,
		sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var question Question
		if err := rows.Scan(&question.ID, &question.SectionID, &question.QuestionNumber, &question.QuestionText); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (q *Queries) GetQuestionsBySurveyID(ctx context.Context, surveyID int64) ([]Question, error) {
	rows, err := q.db.Query(ctx, `
		SELECT q.id, q.section_id, q.question_number, q.question_text
		FROM questions q
		JOIN sections s ON s.id = q.section_id
		WHERE s.survey_id = $1`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var question Question
		if err := rows.Scan(&question.ID, &question.SectionID, &question.QuestionNumber, &question.QuestionText); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

// ==================== Responses ====================

type CreateResponseParams struct {
	SurveyID        int64
	Email           pgtype.Text
	ParticipantName pgtype.Text
	ResumeToken     pgtype.Text
	IsComplete      bool
}

func (q *Queries) CreateResponse(ctx context.Context, params CreateResponseParams) (Response, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO responses (survey_id, email, participant_name, resume_token, is_complete)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, survey_id, email, participant_name, resume_token, is_complete, submitted_at`,
		params.SurveyID, params.Email, params.ParticipantName, params.ResumeToken, params.IsComplete,
	)

	var response Response
	err := row.Scan(&response.ID, &response.SurveyID, &response.Email, &response.ParticipantName,
		&response.ResumeToken, &response.IsComplete, &response.SubmittedAt)
	return response, err
}

func (q *Queries) GetResponse(ctx context.Context, responseID int64) (Response, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, survey_id, email, participant_name, resume_token, is_complete, submitted_at
		FROM responses
		WHERE id = $1`,
		responseID,
	)

	var response Response
	err := row.Scan(&response.ID, &response.SurveyID, &response.Email, &response.ParticipantName,
		&response.ResumeToken, &response.IsComplete, &response.SubmittedAt)
	return response, err
}

type GetIncompleteResponseByTokenParams struct {
	ResumeToken string
	SurveyID    int64
}

func (q *Queries) GetIncompleteResponseByToken(ctx context.Context, params GetIncompleteResponseByTokenParams) (Response, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, survey_id, email, participant_name, resume_token, is_complete, submitted_at
		FROM responses
		WHERE resume_token = $1 AND survey_id = $2 AND is_complete = FALSE`,
		params.ResumeToken, params.SurveyID,
	)

	var response Response
	err := row.Scan(&response.ID, &response.SurveyID, &response.Email, &response.ParticipantName,
		&response.ResumeToken, &response.IsComplete, &response.SubmittedAt)
	return response, err
}

func (q *Queries) GetResponseByToken(ctx context.Context, resumeToken string) (Response, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, survey_id, email, participant_name, resume_token, is_complete, submitted_at
		FROM responses
		WHERE resume_token = $1`,
		resumeToken,
	)

	var response Response
	err := row.Scan(&response.ID, &response.SurveyID, &response.Email, &response.ParticipantName,
		&response.ResumeToken, &response.IsComplete, &response.SubmittedAt)
	return response, err
}

type UpdateResponseContactParams struct {
	ID              int64
	Email           pgtype.Text
	ParticipantName pgtype.Text
}

func (q *Queries) UpdateResponseContact(ctx context.Context, params UpdateResponseContactParams) (Response, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE responses
		SET email = COALESCE($2, email),
		    participant_name = COALESCE($3, participant_name)
		WHERE id = $1
		RETURNING id, survey_id, email, participant_name, resume_token, is_complete, submitted_at`,
		params.ID, params.Email, params.ParticipantName,
	)

	var response Response
	err := row.Scan(&response.ID, &response.SurveyID, &response.Email, &response.ParticipantName,
		&response.ResumeToken, &response.IsComplete, &response.SubmittedAt)
	return response, err
}

func (q *Queries) CompleteResponse(ctx context.Context, responseID int64) (Response, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE responses
		SET is_complete = TRUE, submitted_at = NOW()
		WHERE id = $1
		RETURNING id, survey_id, email, participant_name, resume_token, is_complete, submitted_at`,
		responseID,
	)

	var response Response
	err := row.Scan(&response.ID, &response.SurveyID, &response.Email, &response.ParticipantName,
		&response.ResumeToken, &response.IsComplete, &response.SubmittedAt)
	return response, err
}

func (q *Queries) ListResponsesBySurveyID(ctx context.Context, surveyID int64) ([]Response, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, survey_id, email, participant_name, resume_token, is_complete, submitted_at
		FROM responses
		WHERE survey_id = $1
		ORDER BY submitted_at DESC`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []Response
	for rows.Next() {
		var response Response
		if err := rows.Scan(&response.ID, &response.SurveyID, &response.Email, &response.ParticipantName,
			&response.ResumeToken, &response.IsComplete, &response.SubmittedAt); err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

func (q *Queries) CountResponsesBySurveyID(ctx context.Context, surveyID int64) (int64, error) {
	row := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM responses WHERE survey_id = $1`, surveyID)

	var count int64
	err := row.Scan(&count)
	return count, err
}

func (q *Queries) DeleteResponse(ctx context.Context, responseID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM responses WHERE id = $1`, responseID)
	return err
}

// ==================== Answers ====================

type CreateAnswerParams struct {
	ResponseID  int64
	QuestionID  int64
	Choice      string
	Elaboration pgtype.Text
}

func (q *Queries) CreateAnswer(ctx context.Context, params CreateAnswerParams) (Answer, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO answers (response_id, question_id, choice, elaboration)
		VALUES ($1, $2, $3, $4)
		RETURNING id, response_id, question_id, choice, elaboration`,
		params.ResponseID, params.QuestionID, params.Choice, params.Elaboration,
	)

	var answer Answer
	err := row.Scan(&answer.ID, &answer.ResponseID, &answer.QuestionID, &answer.Choice, &answer.Elaboration)
	return answer, err
}

type DeleteAnswersForQuestionsParams struct {
	ResponseID  int64
	QuestionIDs []int64
}

func (q *Queries) DeleteAnswersForQuestions(ctx context.Context, params DeleteAnswersForQuestionsParams) error {
	_, err := q.db.Exec(ctx, `
		DELETE FROM answers
		WHERE response_id = $1 AND question_id = ANY($2)`,
		params.ResponseID, params.QuestionIDs,
	)
	return err
}

func (q *Queries) GetAnswersByResponseID(ctx context.Context, responseID int64) ([]Answer, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, response_id, question_id, choice, elaboration
		FROM answers
		WHERE response_id = $1`,
		responseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var answer Answer
		if err := rows.Scan(&answer.ID, &answer.ResponseID, &answer.QuestionID, &answer.Choice, &answer.Elaboration); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}

func (q *Queries) GetAnswersBySurveyID(ctx context.Context, surveyID int64) ([]Answer, error) {
	rows, err := q.db.Query(ctx, `
		SELECT a.id, a.response_id, a.question_id, a.choice, a.elaboration
		FROM answers a
		JOIN responses r ON r.id = a.response_id
		WHERE r.survey_id = $1`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var answer Answer
		if err := rows.Scan(&answer.ID, &answer.ResponseID, &answer.QuestionID, &answer.Choice, &answer.Elaboration); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}

func (q *Queries) CountAnswersByResponseID(ctx context.Context, responseID int64) (int64, error) {
	row := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM answers WHERE response_id = $1`, responseID)

	var count int64
	err := row.Scan(&count)
	return count, err
}
