package surveys

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/quorumhq/quorum/api/custom_errors"
	"github.com/quorumhq/quorum/database"
)

type Store interface {
	CreateSurveyWithSections(ctx context.Context, params CreateSurveyParams) (database.Survey, error)
	GetSurvey(ctx context.Context, surveyID int64) (database.Survey, error)
	GetSurveyDetail(ctx context.Context, surveyID int64) (SurveyDetail, error)
	ListSurveys(ctx context.Context) ([]database.Survey, error)
	ReplaceSections(ctx context.Context, params ReplaceSectionsParams) (database.Survey, error)
	SetSurveyActive(ctx context.Context, surveyID int64, isActive bool) (database.Survey, error)
	DeleteSurvey(ctx context.Context, surveyID int64) error

	ListResponses(ctx context.Context, surveyID int64) ([]database.Response, error)
	CountResponses(ctx context.Context, surveyID int64) (int64, error)
	GetResponse(ctx context.Context, responseID int64) (database.Response, error)
	GetResponseAnswers(ctx context.Context, responseID int64) ([]database.Answer, error)
	DeleteResponse(ctx context.Context, responseID int64) error
}

type Repository struct {
	queries    *database.Queries
	transactor database.Transactor
}

func NewSurveyStore(queries *database.Queries, transactor database.Transactor) *Repository {
	return &Repository{queries: queries, transactor: transactor}
}

func createSections(ctx context.Context, q *database.Queries, surveyID int64, sections []SectionInput) error {
	for sectionIndex, sectionInput := range sections {
		section, err := q.CreateSection(ctx, database.CreateSectionParams{
			SurveyID:      surveyID,
			SectionNumber: int32(sectionIndex + 1),
			Title:         sectionInput.Title,
			Description:   pgtype.Text{String: sectionInput.Description, Valid: sectionInput.Description != ""},
		})
		if err != nil {
			return fmt.Errorf("error creating section %d: %v", sectionIndex+1, err)
		}

		for questionIndex, questionText := range sectionInput.Questions {
			_, err := q.CreateQuestion(ctx, database.CreateQuestionParams{
				SectionID:      section.ID,
				QuestionNumber: int32(questionIndex + 1),
				QuestionText:   questionText,
			})
			if err != nil {
				return fmt.Errorf("error creating question %d in section %d: %v", questionIndex+1, sectionIndex+1, err)
			}
		}
	}

	return nil
}

// CreateSurveyWithSections creates a survey and all of its sections and
// questions in one transaction; a failure part-way leaves nothing behind.
func (r *Repository) CreateSurveyWithSections(ctx context.Context, params CreateSurveyParams) (database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var survey database.Survey

	err := r.transactor.WithTransaction(ctx, func(q *database.Queries) error {
		var err error
		survey, err = q.CreateSurvey(ctx, database.CreateSurveyParams{
			Title:       params.Title,
			Description: pgtype.Text{String: params.Description, Valid: params.Description != ""},
		})
		if err != nil {
			return fmt.Errorf("error creating survey: %v", err)
		}

		return createSections(ctx, q, survey.ID, params.Sections)
	})
	if err != nil {
		return database.Survey{}, err
	}

	return survey, nil
}

func (r *Repository) GetSurvey(ctx context.Context, surveyID int64) (database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	survey, err := r.queries.GetSurvey(ctx, surveyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Survey{}, custom_errors.ErrNotFound
		}
		return database.Survey{}, fmt.Errorf("error getting survey: %v", err)
	}

	return survey, nil
}

func (r *Repository) GetSurveyDetail(ctx context.Context, surveyID int64) (SurveyDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	survey, err := r.GetSurvey(ctx, surveyID)
	if err != nil {
		return SurveyDetail{}, err
	}

	sections, err := r.queries.GetSectionsBySurveyID(ctx, surveyID)
	if err != nil {
		return SurveyDetail{}, fmt.Errorf("error getting sections: %v", err)
	}

	answers, err := r.queries.GetAnswersBySurveyID(ctx, surveyID)
	if err != nil {
		return SurveyDetail{}, fmt.Errorf("error getting answers: %v", err)
	}

	answersByQuestion := make(map[int64][]database.Answer)
	for _, answer := range answers {
		answersByQuestion[answer.QuestionID] = append(answersByQuestion[answer.QuestionID], answer)
	}

	detail := SurveyDetail{Survey: survey, Sections: []SectionDetail{}}
	for _, section := range sections {
		questions, err := r.queries.GetQuestionsBySectionID(ctx, section.ID)
		if err != nil {
			return SurveyDetail{}, fmt.Errorf("error getting questions for section %d: %v", section.SectionNumber, err)
		}

		sectionDetail := SectionDetail{Section: section, Questions: []QuestionWithAnswers{}}
		for _, question := range questions {
			sectionDetail.Questions = append(sectionDetail.Questions, QuestionWithAnswers{
				Question: question,
				Answers:  answersByQuestion[question.ID],
			})
		}

		detail.Sections = append(detail.Sections, sectionDetail)
	}

	return detail, nil
}

func (r *Repository) ListSurveys(ctx context.Context) ([]database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	surveys, err := r.queries.ListSurveys(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing surveys: %v", err)
	}

	return surveys, nil
}

// ReplaceSections performs the wholesale replace-children edit: the survey
// row is updated and every section (with its questions, via cascade) is
// deleted and recreated from the submitted structure, all in one
// transaction. Existing answers reference the deleted questions and are
// removed with them.
func (r *Repository) ReplaceSections(ctx context.Context, params ReplaceSectionsParams) (database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var survey database.Survey

	err := r.transactor.WithTransaction(ctx, func(q *database.Queries) error {
		var err error
		survey, err = q.UpdateSurvey(ctx, database.UpdateSurveyParams{
			ID:          params.SurveyID,
			Title:       pgtype.Text{String: params.Title, Valid: true},
			Description: pgtype.Text{String: params.Description, Valid: true},
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return custom_errors.ErrNotFound
			}
			return fmt.Errorf("error updating survey: %v", err)
		}

		if err := q.DeleteSectionsBySurveyID(ctx, params.SurveyID); err != nil {
			return fmt.Errorf("error deleting sections: %v", err)
		}

		return createSections(ctx, q, params.SurveyID, params.Sections)
	})
	if err != nil {
		return database.Survey{}, err
	}

	return survey, nil
}

func (r *Repository) SetSurveyActive(ctx context.Context, surveyID int64, isActive bool) (database.Survey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	survey, err := r.queries.SetSurveyActive(ctx, database.SetSurveyActiveParams{
		ID:       surveyID,
		IsActive: isActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Survey{}, custom_errors.ErrNotFound
		}
		return database.Survey{}, fmt.Errorf("error toggling survey: %v", err)
	}

	return survey, nil
}

func (r *Repository) DeleteSurvey(ctx context.Context, surveyID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.queries.DeleteSurvey(ctx, surveyID); err != nil {
		return fmt.Errorf("error deleting survey: %v", err)
	}

	return nil
}

func (r *Repository) ListResponses(ctx context.Context, surveyID int64) ([]database.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	responses, err := r.queries.ListResponsesBySurveyID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error listing responses: %v", err)
	}

	return responses, nil
}

func (r *Repository) CountResponses(ctx context.Context, surveyID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.queries.CountResponsesBySurveyID(ctx, surveyID)
	if err != nil {
		return 0, fmt.Errorf("error counting responses: %v", err)
	}

	return count, nil
}

func (r *Repository) GetResponse(ctx context.Context, responseID int64) (database.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := r.queries.GetResponse(ctx, responseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Response{}, custom_errors.ErrNotFound
		}
		return database.Response{}, fmt.Errorf("error getting response: %v", err)
	}

	return response, nil
}

func (r *Repository) GetResponseAnswers(ctx context.Context, responseID int64) ([]database.Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	answers, err := r.queries.GetAnswersByResponseID(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("error getting answers: %v", err)
	}

	return answers, nil
}

func (r *Repository) DeleteResponse(ctx context.Context, responseID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.queries.DeleteResponse(ctx, responseID); err != nil {
		return fmt.Errorf("error deleting response: %v", err)
	}

	return nil
}
