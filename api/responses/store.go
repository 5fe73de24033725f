package responses

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
	GetSurvey(ctx context.Context, surveyID int64) (database.Survey, error)
	GetSections(ctx context.Context, surveyID int64) ([]database.Section, error)
	GetSectionQuestions(ctx context.Context, sectionID int64) ([]database.Question, error)
	CountQuestions(ctx context.Context, surveyID int64) (int64, error)

	FindIncompleteByToken(ctx context.Context, resumeToken string, surveyID int64) (database.Response, error)
	CreateResponse(ctx context.Context, params CreateResponseParams) (database.Response, error)
	UpdateContact(ctx context.Context, responseID int64, email, participantName string) (database.Response, error)
	CompleteResponse(ctx context.Context, responseID int64) (database.Response, error)

	// ReplaceSectionAnswers deletes every answer this response holds for the
	// given questions and inserts the submitted ones, as a single atomic
	// unit. Inputs without a choice simply leave no row behind.
	ReplaceSectionAnswers(ctx context.Context, responseID int64, questionIDs []int64, answers []AnswerInput) error

	GetAnswers(ctx context.Context, responseID int64) ([]database.Answer, error)
	CountAnswers(ctx context.Context, responseID int64) (int64, error)
}

type CreateResponseParams struct {
	SurveyID        int64
	Email           string
	ParticipantName string
	ResumeToken     string
	IsComplete      bool
}

type Repository struct {
	queries    *database.Queries
	transactor database.Transactor
}

func NewResponseStore(queries *database.Queries, transactor database.Transactor) *Repository {
	return &Repository{queries: queries, transactor: transactor}
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

func (r *Repository) GetSections(ctx context.Context, surveyID int64) ([]database.Section, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sections, err := r.queries.GetSectionsBySurveyID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("error getting sections: %v", err)
	}

	return sections, nil
}

func (r *Repository) GetSectionQuestions(ctx context.Context, sectionID int64) ([]database.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	questions, err := r.queries.GetQuestionsBySectionID(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("error getting questions: %v", err)
	}

	return questions, nil
}

func (r *Repository) CountQuestions(ctx context.Context, surveyID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	questions, err := r.queries.GetQuestionsBySurveyID(ctx, surveyID)
	if err != nil {
		return 0, fmt.Errorf("error counting questions: %v", err)
	}

	return int64(len(questions)), nil
}

func (r *Repository) FindIncompleteByToken(ctx context.Context, resumeToken string, surveyID int64) (database.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := r.queries.GetIncompleteResponseByToken(ctx, database.GetIncompleteResponseByTokenParams{
		ResumeToken: resumeToken,
		SurveyID:    surveyID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Response{}, custom_errors.ErrNotFound
		}
		return database.Response{}, fmt.Errorf("error looking up resume token: %v", err)
	}

	return response, nil
}

func (r *Repository) CreateResponse(ctx context.Context, params CreateResponseParams) (database.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := r.queries.CreateResponse(ctx, database.CreateResponseParams{
		SurveyID:        params.SurveyID,
		Email:           pgtype.Text{String: params.Email, Valid: params.Email != ""},
		ParticipantName: pgtype.Text{String: params.ParticipantName, Valid: params.ParticipantName != ""},
		ResumeToken:     pgtype.Text{String: params.ResumeToken, Valid: params.ResumeToken != ""},
		IsComplete:      params.IsComplete,
	})
	if err != nil {
		return database.Response{}, fmt.Errorf("error creating response: %v", err)
	}

	return response, nil
}

func (r *Repository) UpdateContact(ctx context.Context, responseID int64, email, participantName string) (database.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := r.queries.UpdateResponseContact(ctx, database.UpdateResponseContactParams{
		ID:              responseID,
		Email:           pgtype.Text{String: email, Valid: email != ""},
		ParticipantName: pgtype.Text{String: participantName, Valid: participantName != ""},
	})
	if err != nil {
		return database.Response{}, fmt.Errorf("error updating response contact: %v", err)
	}

	return response, nil
}

func (r *Repository) CompleteResponse(ctx context.Context, responseID int64) (database.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := r.queries.CompleteResponse(ctx, responseID)
	if err != nil {
		return database.Response{}, fmt.Errorf("error completing response: %v", err)
	}

	return response, nil
}

func (r *Repository) ReplaceSectionAnswers(ctx context.Context, responseID int64, questionIDs []int64, answers []AnswerInput) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.transactor.WithTransaction(ctx, func(q *database.Queries) error {
		if err := q.DeleteAnswersForQuestions(ctx, database.DeleteAnswersForQuestionsParams{
			ResponseID:  responseID,
			QuestionIDs: questionIDs,
		}); err != nil {
			return fmt.Errorf("error deleting section answers: %v", err)
		}

		for _, answer := range answers {
			if answer.Choice == "" {
				continue
			}

			if _, err := q.CreateAnswer(ctx, database.CreateAnswerParams{
				ResponseID:  responseID,
				QuestionID:  answer.QuestionID,
				Choice:      answer.Choice,
				Elaboration: pgtype.Text{String: answer.Elaboration, Valid: answer.Elaboration != ""},
			}); err != nil {
				return fmt.Errorf("error saving answer for question %d: %v", answer.QuestionID, err)
			}
		}

		return nil
	})
}

func (r *Repository) GetAnswers(ctx context.Context, responseID int64) ([]database.Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	answers, err := r.queries.GetAnswersByResponseID(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("error getting answers: %v", err)
	}

	return answers, nil
}

func (r *Repository) CountAnswers(ctx context.Context, responseID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.queries.CountAnswersByResponseID(ctx, responseID)
	if err != nil {
		return 0, fmt.Errorf("error counting answers: %v", err)
	}

	return count, nil
}
