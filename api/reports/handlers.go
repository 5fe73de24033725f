package reports

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quorumhq/quorum/api/custom_errors"
	"github.com/quorumhq/quorum/api/jsonutil"
	"github.com/quorumhq/quorum/api/surveys"
)

type Handler struct {
	Store surveys.Store
}

func (h *Handler) loadRows(responseWriter http.ResponseWriter, request *http.Request) (surveys.SurveyDetail, []ResultRow, bool) {
	ctx := context.Background()

	surveyID, err := strconv.ParseInt(chi.URLParam(request, "surveyID"), 10, 64)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: "invalid survey ID",
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return surveys.SurveyDetail{}, nil, false
	}

	detail, err := h.Store.GetSurveyDetail(ctx, surveyID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, custom_errors.ErrNotFound) {
			status = http.StatusNotFound
		}
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, status)
		return surveys.SurveyDetail{}, nil, false
	}

	return detail, BuildRows(detail), true
}

func (h *Handler) ExportXLSXHandler(responseWriter http.ResponseWriter, request *http.Request) {
	detail, rows, ok := h.loadRows(responseWriter, request)
	if !ok {
		return
	}

	artifact, err := ExportXLSX(rows)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	filename := ExportFilename(detail.Survey.Title, "xlsx")
	responseWriter.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	responseWriter.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	responseWriter.WriteHeader(http.StatusOK)
	responseWriter.Write(artifact)
}

func (h *Handler) ExportCSVHandler(responseWriter http.ResponseWriter, request *http.Request) {
	detail, rows, ok := h.loadRows(responseWriter, request)
	if !ok {
		return
	}

	artifact, err := ExportCSV(rows)
	if err != nil {
		response := jsonutil.Response{
			Status:  "error",
			Message: err.Error(),
		}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	filename := ExportFilename(detail.Survey.Title, "csv")
	responseWriter.Header().Set("Content-Type", "text/csv")
	responseWriter.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	responseWriter.WriteHeader(http.StatusOK)
	responseWriter.Write(artifact)
}
