package responses

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/quorumhq/quorum/api/custom_errors"
	"github.com/quorumhq/quorum/api/tokens"
	"github.com/quorumhq/quorum/database"
	"github.com/quorumhq/quorum/queue"
	"github.com/shopspring/decimal"
)

var (
	ErrEmailRequired     = errors.New("please enter your email address to save your progress")
	ErrInvalidSection    = errors.New("invalid section")
	ErrUnknownAction     = errors.New("unknown action")
	ErrQuestionNotInPage = errors.New("answer does not belong to this section")
)

// Workflow drives a respondent through a survey section by section:
// lazily creating the response record, replacing a section's answers on
// every action, and finalizing on submit. One instance serves all surveys.
type Workflow struct {
	Store  Store
	Tokens tokens.TokenService
	Queue  queue.Queue
}

type SaveSectionParams struct {
	SurveyID        int64
	SectionNum      int
	Action          string
	Email           string
	ParticipantName string
	ResumeToken     string
	Answers         []AnswerInput
	Admin           bool
}

// checkAccess loads the survey and enforces the active gate. An admin auth
// context bypasses the gate so inactive surveys can be previewed.
func (w *Workflow) checkAccess(ctx context.Context, surveyID int64, admin bool) (database.Survey, error) {
	survey, err := w.Store.GetSurvey(ctx, surveyID)
	if err != nil {
		return database.Survey{}, err
	}

	if !survey.IsActive && !admin {
		return database.Survey{}, custom_errors.ErrSurveyInactive
	}

	return survey, nil
}

// Entry resolves the survey entry route: restores resume state when the
// token matches an incomplete response for this survey, and derives the
// starting section. An unknown token silently starts a fresh session.
func (w *Workflow) Entry(ctx context.Context, surveyID int64, resumeToken string, section int, admin bool) (EntryState, error) {
	if _, err := w.checkAccess(ctx, surveyID, admin); err != nil {
		return EntryState{}, err
	}

	state := EntryState{SurveyID: surveyID, SectionNum: 1}
	if section > 0 {
		state.SectionNum = section
	}

	if resumeToken == "" {
		return state, nil
	}

	response, err := w.Store.FindIncompleteByToken(ctx, resumeToken, surveyID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			return state, nil
		}
		return EntryState{}, err
	}

	state.ResumeToken = response.ResumeToken.String
	state.Email = response.Email.String

	return state, nil
}

// Section builds the view for one section page, including any answers the
// resuming respondent already gave for it.
func (w *Workflow) Section(ctx context.Context, surveyID int64, sectionNum int, resumeToken string, admin bool) (SectionView, error) {
	survey, err := w.checkAccess(ctx, surveyID, admin)
	if err != nil {
		return SectionView{}, err
	}

	sections, err := w.Store.GetSections(ctx, surveyID)
	if err != nil {
		return SectionView{}, err
	}

	if sectionNum < 1 || sectionNum > len(sections) {
		return SectionView{}, ErrInvalidSection
	}

	currentSection := sections[sectionNum-1]

	questions, err := w.Store.GetSectionQuestions(ctx, currentSection.ID)
	if err != nil {
		return SectionView{}, err
	}

	view := SectionView{
		Survey:        survey,
		Section:       currentSection,
		Questions:     questions,
		SectionNum:    sectionNum,
		TotalSections: len(sections),
		Answers:       []database.Answer{},
	}

	if resumeToken == "" {
		return view, nil
	}

	response, err := w.Store.FindIncompleteByToken(ctx, resumeToken, surveyID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			return view, nil
		}
		return SectionView{}, err
	}

	view.Email = response.Email.String

	answers, err := w.Store.GetAnswers(ctx, response.ID)
	if err != nil {
		return SectionView{}, err
	}

	inSection := make(map[int64]bool, len(questions))
	for _, question := range questions {
		inSection[question.ID] = true
	}
	for _, answer := range answers {
		if inSection[answer.QuestionID] {
			view.Answers = append(view.Answers, answer)
		}
	}

	return view, nil
}

// SaveSection runs one state transition of the response session: replace
// the current section's answers, then act on the requested action.
func (w *Workflow) SaveSection(ctx context.Context, params SaveSectionParams) (SaveSectionResult, error) {
	if _, err := w.checkAccess(ctx, params.SurveyID, params.Admin); err != nil {
		return SaveSectionResult{}, err
	}

	sections, err := w.Store.GetSections(ctx, params.SurveyID)
	if err != nil {
		return SaveSectionResult{}, err
	}

	totalSections := len(sections)
	if params.SectionNum < 1 || params.SectionNum > totalSections {
		return SaveSectionResult{}, ErrInvalidSection
	}

	if params.Action == ActionSave && params.Email == "" {
		return SaveSectionResult{}, ErrEmailRequired
	}

	currentSection := sections[params.SectionNum-1]

	questions, err := w.Store.GetSectionQuestions(ctx, currentSection.ID)
	if err != nil {
		return SaveSectionResult{}, err
	}

	questionIDs := make([]int64, 0, len(questions))
	inSection := make(map[int64]bool, len(questions))
	for _, question := range questions {
		questionIDs = append(questionIDs, question.ID)
		inSection[question.ID] = true
	}

	for _, answer := range params.Answers {
		if !inSection[answer.QuestionID] {
			return SaveSectionResult{}, ErrQuestionNotInPage
		}
	}

	response, err := w.resolveResponse(ctx, params)
	if err != nil {
		return SaveSectionResult{}, err
	}

	if err := w.Store.ReplaceSectionAnswers(ctx, response.ID, questionIDs, params.Answers); err != nil {
		return SaveSectionResult{}, err
	}

	result := SaveSectionResult{
		SectionNum:    params.SectionNum,
		TotalSections: totalSections,
		ResumeToken:   response.ResumeToken.String,
		Email:         response.Email.String,
	}
	result.PercentageCompleted = w.progress(ctx, params.SurveyID, response.ID)

	switch params.Action {
	case ActionSave:
		resumeLink := buildResumeLink(params.SurveyID, response.ResumeToken.String, params.SectionNum)
		result.ResumeLink = resumeLink
		result.EmailQueued = w.queueResumeEmail(ctx, response.Email.String, params.SurveyID, resumeLink, params.SectionNum, totalSections)

	case ActionNext:
		result.SectionNum = clamp(params.SectionNum+1, 1, totalSections)

	case ActionPrevious:
		result.SectionNum = clamp(params.SectionNum-1, 1, totalSections)

	case ActionSubmit:
		if _, err := w.Store.CompleteResponse(ctx, response.ID); err != nil {
			return SaveSectionResult{}, err
		}
		result.Completed = true
		// The session ends here: the token is no longer honored and must
		// not be handed back to the client.
		result.ResumeToken = ""

	default:
		return SaveSectionResult{}, ErrUnknownAction
	}

	return result, nil
}

// resolveResponse finds the response the token points at, or lazily creates
// one. The resume token is assigned exactly once, at creation.
func (w *Workflow) resolveResponse(ctx context.Context, params SaveSectionParams) (database.Response, error) {
	if params.ResumeToken != "" {
		response, err := w.Store.FindIncompleteByToken(ctx, params.ResumeToken, params.SurveyID)
		if err == nil {
			if params.Action == ActionSave {
				return w.Store.UpdateContact(ctx, response.ID, params.Email, params.ParticipantName)
			}
			return response, nil
		}
		if !errors.Is(err, custom_errors.ErrNotFound) {
			return database.Response{}, err
		}
		// Unknown or expired token: fall through and start fresh.
	}

	resumeToken, err := w.Tokens.GenerateResumeToken()
	if err != nil {
		return database.Response{}, err
	}

	return w.Store.CreateResponse(ctx, CreateResponseParams{
		SurveyID:        params.SurveyID,
		Email:           params.Email,
		ParticipantName: params.ParticipantName,
		ResumeToken:     resumeToken,
	})
}

func (w *Workflow) progress(ctx context.Context, surveyID, responseID int64) decimal.Decimal {
	answered, err := w.Store.CountAnswers(ctx, responseID)
	if err != nil {
		return decimal.Zero
	}

	total, err := w.Store.CountQuestions(ctx, surveyID)
	if err != nil || total == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(answered).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// queueResumeEmail hands the resume link to the delivery queue. Failures
// are logged and reported as false, never bubbled up: the save has already
// committed and must stand regardless of email outcome.
func (w *Workflow) queueResumeEmail(ctx context.Context, email string, surveyID int64, resumeLink string, sectionNum, totalSections int) bool {
	if w.Queue == nil {
		return false
	}

	survey, err := w.Store.GetSurvey(ctx, surveyID)
	if err != nil {
		log.Printf("error loading survey for resume email: %s", err)
		return false
	}

	err = w.Queue.Enqueue(&queue.ResumeEmailPayload{
		Email:          email,
		SurveyTitle:    survey.Title,
		ResumeLink:     resumeLink,
		CurrentSection: sectionNum,
		TotalSections:  totalSections,
	})
	if err != nil {
		log.Printf("error enqueuing resume email: %s", err)
		return false
	}

	return true
}

func buildResumeLink(surveyID int64, resumeToken string, sectionNum int) string {
	baseUrl := os.Getenv("BASE_URL")
	if baseUrl == "" {
		baseUrl = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/surveys/%d?token=%s&section=%d", baseUrl, surveyID, resumeToken, sectionNum)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
