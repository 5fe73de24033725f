package responses

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/quorumhq/quorum/api/custom_errors"
	"github.com/quorumhq/quorum/api/jsonutil"
	"github.com/quorumhq/quorum/api/middlewares"
)

var validate = validator.New()

type Handler struct {
	Workflow *Workflow
}

func writeError(responseWriter http.ResponseWriter, message string, statusCode int) {
	response := jsonutil.Response{
		Status:  "error",
		Message: message,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, statusCode)
}

func writeWorkflowError(responseWriter http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, custom_errors.ErrNotFound):
		writeError(responseWriter, "survey not found", http.StatusNotFound)
	case errors.Is(err, custom_errors.ErrSurveyInactive):
		writeError(responseWriter, "this survey is no longer active", http.StatusForbidden)
	case errors.Is(err, ErrInvalidSection):
		writeError(responseWriter, "invalid section", http.StatusNotFound)
	case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrUnknownAction), errors.Is(err, ErrQuestionNotInPage):
		writeError(responseWriter, err.Error(), http.StatusBadRequest)
	default:
		writeError(responseWriter, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) EntryHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := strconv.ParseInt(chi.URLParam(request, "surveyID"), 10, 64)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	query := request.URL.Query()
	section, _ := strconv.Atoi(query.Get("section"))

	authCtx := middlewares.FromRequest(request)

	state, err := h.Workflow.Entry(ctx, surveyID, query.Get("token"), section, authCtx.Admin)
	if err != nil {
		writeWorkflowError(responseWriter, err)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "survey entry resolved",
		Data:    state,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) GetSectionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := strconv.ParseInt(chi.URLParam(request, "surveyID"), 10, 64)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	sectionNum, err := strconv.Atoi(chi.URLParam(request, "sectionNum"))
	if err != nil {
		writeError(responseWriter, "invalid section number", http.StatusBadRequest)
		return
	}

	authCtx := middlewares.FromRequest(request)

	view, err := h.Workflow.Section(ctx, surveyID, sectionNum, request.URL.Query().Get("token"), authCtx.Admin)
	if err != nil {
		writeWorkflowError(responseWriter, err)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "section retrieved successfully",
		Data:    view,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) SaveSectionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := context.Background()

	surveyID, err := strconv.ParseInt(chi.URLParam(request, "surveyID"), 10, 64)
	if err != nil {
		writeError(responseWriter, "invalid survey ID", http.StatusBadRequest)
		return
	}

	sectionNum, err := strconv.Atoi(chi.URLParam(request, "sectionNum"))
	if err != nil {
		writeError(responseWriter, "invalid section number", http.StatusBadRequest)
		return
	}

	data, err := jsonutil.UnmarshalJsonResponse[SaveSectionBody](request)
	if err != nil {
		writeError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(data); err != nil {
		writeError(responseWriter, "invalid section submission", http.StatusBadRequest)
		return
	}

	authCtx := middlewares.FromRequest(request)

	result, err := h.Workflow.SaveSection(ctx, SaveSectionParams{
		SurveyID:        surveyID,
		SectionNum:      sectionNum,
		Action:          data.Action,
		Email:           data.Email,
		ParticipantName: data.ParticipantName,
		ResumeToken:     data.ResumeToken,
		Answers:         data.Answers,
		Admin:           authCtx.Admin,
	})
	if err != nil {
		writeWorkflowError(responseWriter, err)
		return
	}

	message := "progress saved"
	if result.Completed {
		message = "survey submitted, thank you for participating"
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: message,
		Data:    result,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}
