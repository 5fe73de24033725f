package surveys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/quorumhq/quorum/api/custom_errors"
	"github.com/quorumhq/quorum/api/jsonutil"
	"github.com/quorumhq/quorum/api/spreadsheet"
	"github.com/quorumhq/quorum/database"
)

const MaxUploadSize = 16 << 20 // 16MB

var validate = validator.New()

type Handler struct {
	Store Store
}

func parseSurveyID(request *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(request, "surveyID"), 10, 64)
}

func writeError(responseWriter http.ResponseWriter, message string, statusCode int) {
	response := jsonutil.Response{
		Status:  "error",
		Message: message,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, statusCode)
}

func writeStoreError(responseWriter http.ResponseWriter, err error) {
	if errors.Is(err, custom_errors.ErrNotFound) {
		writeError(responseWriter, "survey not found", http.StatusNotFound)
		return
	}
	writeError(responseWriter, err.Error(), http.StatusInternalServerError)
}

// ==================== Survey Management Handlers ====================

func (h *Handler) CreateSurveyHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	data, err := jsonutil.UnmarshalJsonResponse[CreateSurveyBody](request)
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(data); err != nil {
		writeError(responseWriter, "please provide a survey title and at least one section", http.StatusBadRequest)
		return
	}

	sections, totalQuestions := NormalizeSections(data.Sections)
	if totalQuestions == 0 {
		writeError(responseWriter, "please add at least one question", http.StatusBadRequest)
		return
	}

	survey, err := h.Store.CreateSurveyWithSections(ctx, CreateSurveyParams{
		Title:       data.Title,
		Description: data.Description,
		Sections:    sections,
	})
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: fmt.Sprintf("survey %q created with %d questions", survey.Title, totalQuestions),
		Data:    survey,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusCreated)
}

func (h *Handler) UploadSurveyHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	request.Body = http.MaxBytesReader(responseWriter, request.Body, MaxUploadSize)

	file, header, err := request.FormFile("file")
	if err != nil {
		writeError(responseWriter, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !spreadsheet.IsSpreadsheetFile(header.Filename) {
		writeError(responseWriter, "invalid file type, please upload a spreadsheet (.xlsx)", http.StatusBadRequest)
		return
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "upload"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		writeError(responseWriter, fmt.Sprintf("error preparing upload dir: %v", err), http.StatusInternalServerError)
		return
	}

	tempPath := filepath.Join(uploadDir, uuid.NewString()+filepath.Ext(header.Filename))
	tempFile, err := os.Create(tempPath)
	if err != nil {
		writeError(responseWriter, fmt.Sprintf("error saving upload: %v", err), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tempPath)

	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		writeError(responseWriter, fmt.Sprintf("error saving upload: %v", err), http.StatusInternalServerError)
		return
	}
	tempFile.Close()

	questions, err := spreadsheet.ExtractQuestions(tempPath)
	if err != nil {
		writeError(responseWriter, fmt.Sprintf("error reading spreadsheet: %v", err), http.StatusBadRequest)
		return
	}

	if len(questions) == 0 {
		writeError(responseWriter, "no questions found in spreadsheet", http.StatusBadRequest)
		return
	}

	title := request.FormValue("title")
	if title == "" {
		title = "Consensus Survey"
	}

	// Imported questions land in a single default section; the admin can
	// reorganize them through the edit endpoint afterwards.
	survey, err := h.Store.CreateSurveyWithSections(ctx, CreateSurveyParams{
		Title:       title,
		Description: request.FormValue("description"),
		Sections: []SectionInput{
			{Title: "Questions", Questions: questions},
		},
	})
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: fmt.Sprintf("survey %q created with %d questions", survey.Title, len(questions)),
		Data:    survey,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusCreated)
}

func (h *Handler) ListSurveysHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveys, err := h.Store.ListSurveys(ctx)
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "surveys retrieved successfully",
		Data:    surveys,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) GetSurveyHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := parseSurveyID(request)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	detail, err := h.Store.GetSurveyDetail(ctx, surveyID)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "survey retrieved successfully",
		Data:    detail,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) UpdateSurveyHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := parseSurveyID(request)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	data, err := jsonutil.UnmarshalJsonResponse[UpdateSurveyBody](request)
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(data); err != nil {
		writeError(responseWriter, "please provide a survey title and at least one section", http.StatusBadRequest)
		return
	}

	sections, totalQuestions := NormalizeSections(data.Sections)
	if totalQuestions == 0 {
		writeError(responseWriter, "please add at least one question", http.StatusBadRequest)
		return
	}

	survey, err := h.Store.ReplaceSections(ctx, ReplaceSectionsParams{
		SurveyID:    surveyID,
		Title:       data.Title,
		Description: data.Description,
		Sections:    sections,
	})
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "survey updated successfully",
		Data:    survey,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) ToggleSurveyHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := parseSurveyID(request)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	survey, err := h.Store.GetSurvey(ctx, surveyID)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	survey, err = h.Store.SetSurveyActive(ctx, surveyID, !survey.IsActive)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	statusWord := "deactivated"
	if survey.IsActive {
		statusWord = "activated"
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: fmt.Sprintf("survey %q has been %s", survey.Title, statusWord),
		Data:    survey,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) DeleteSurveyHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := parseSurveyID(request)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	survey, err := h.Store.GetSurvey(ctx, surveyID)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	// Cascades to sections, questions, responses and answers.
	if err := h.Store.DeleteSurvey(ctx, surveyID); err != nil {
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: fmt.Sprintf("survey %q deleted successfully", survey.Title),
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// ==================== Results Handlers ====================

func (h *Handler) GetResultsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := parseSurveyID(request)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	detail, err := h.Store.GetSurveyDetail(ctx, surveyID)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	responses, err := h.Store.ListResponses(ctx, surveyID)
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	results := BuildResults(detail, responses)

	response := jsonutil.Response{
		Status:  "success",
		Message: "results retrieved successfully",
		Data:    results,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) ListResponsesHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := parseSurveyID(request)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	detail, err := h.Store.GetSurveyDetail(ctx, surveyID)
	if err != nil {
		writeStoreError(responseWriter, err)
		return
	}

	responses, err := h.Store.ListResponses(ctx, surveyID)
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	records := BuildRespondentRecords(detail, responses)

	response := jsonutil.Response{
		Status:  "success",
		Message: "responses retrieved successfully",
		Data:    records,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) DeleteResponseHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	responseID, err := strconv.ParseInt(chi.URLParam(request, "responseID"), 10, 64)
	if err != nil {
		writeError(responseWriter, "invalid response ID", http.StatusBadRequest)
		return
	}

	if _, err := h.Store.GetResponse(ctx, responseID); err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			writeError(responseWriter, "response not found", http.StatusNotFound)
			return
		}
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.Store.DeleteResponse(ctx, responseID); err != nil {
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "response deleted successfully",
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// ==================== View Builders ====================

// BuildResults assembles the admin results view: per-question statistics,
// pass/fail tallies and elaborations grouped by section and question.
func BuildResults(detail SurveyDetail, responses []database.Response) SurveyResults {
	allStats := AllStatistics(detail)
	passed, failed := PassFailCounts(allStats)

	submittedAt := make(map[int64]database.Response, len(responses))
	for _, resp := range responses {
		submittedAt[resp.ID] = resp
	}

	sections := make([]SectionDetail, len(detail.Sections))
	copy(sections, detail.Sections)

	var sectionElaborations []SectionElaborations
	for _, sectionDetail := range sections {
		sectionData := SectionElaborations{
			SectionTitle: sectionDetail.Section.Title,
			Questions:    []QuestionElaborations{},
		}

		for _, questionWithAnswers := range sectionDetail.Questions {
			questionData := QuestionElaborations{
				QuestionNumber: int(questionWithAnswers.Question.QuestionNumber),
				QuestionText:   questionWithAnswers.Question.QuestionText,
				Elaborations:   []ElaborationEntry{},
			}

			for _, answer := range questionWithAnswers.Answers {
				if !answer.Elaboration.Valid || answer.Elaboration.String == "" {
					continue
				}
				entry := ElaborationEntry{
					Choice:      answer.Choice,
					Elaboration: answer.Elaboration.String,
				}
				if resp, ok := submittedAt[answer.ResponseID]; ok {
					entry.SubmittedAt = resp.SubmittedAt.Time
				}
				questionData.Elaborations = append(questionData.Elaborations, entry)
			}

			sectionData.Questions = append(sectionData.Questions, questionData)
		}

		sectionElaborations = append(sectionElaborations, sectionData)
	}

	return SurveyResults{
		Survey:         detail.Survey,
		TotalResponses: int64(len(responses)),
		PassedCount:    passed,
		FailedCount:    failed,
		Statistics:     allStats,
		Sections:       sectionElaborations,
	}
}

// BuildRespondentRecords lists every response with each question in
// canonical order and the respondent's choice, blank where unanswered.
func BuildRespondentRecords(detail SurveyDetail, responses []database.Response) []RespondentRecord {
	type answerKey struct {
		responseID int64
		questionID int64
	}

	answerByKey := make(map[answerKey]database.Answer)
	for _, sectionDetail := range detail.Sections {
		for _, questionWithAnswers := range sectionDetail.Questions {
			for _, answer := range questionWithAnswers.Answers {
				answerByKey[answerKey{answer.ResponseID, answer.QuestionID}] = answer
			}
		}
	}

	records := make([]RespondentRecord, 0, len(responses))
	for _, resp := range responses {
		name := "Anonymous"
		if resp.ParticipantName.Valid && resp.ParticipantName.String != "" {
			name = resp.ParticipantName.String
		}

		record := RespondentRecord{
			ID:          resp.ID,
			Name:        name,
			SubmittedAt: resp.SubmittedAt.Time,
			IsComplete:  resp.IsComplete,
			Sections:    []RecordSection{},
		}

		for _, sectionDetail := range detail.Sections {
			recordSection := RecordSection{
				SectionTitle: sectionDetail.Section.Title,
				Answers:      []RecordAnswer{},
			}

			for _, questionWithAnswers := range sectionDetail.Questions {
				recordAnswer := RecordAnswer{
					QuestionNumber: int(questionWithAnswers.Question.QuestionNumber),
					QuestionText:   questionWithAnswers.Question.QuestionText,
				}
				if answer, ok := answerByKey[answerKey{resp.ID, questionWithAnswers.Question.ID}]; ok {
					recordAnswer.Choice = answer.Choice
					recordAnswer.Elaboration = answer.Elaboration.String
				}
				recordSection.Answers = append(recordSection.Answers, recordAnswer)
			}

			record.Sections = append(record.Sections, recordSection)
		}

		records = append(records, record)
	}

	return records
}
