package surveys_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/quorumhq/quorum/api/custom_errors"
	"github.com/quorumhq/quorum/api/surveys"
	"github.com/quorumhq/quorum/database"
)

// ============================================================================
// Test Helpers
// ============================================================================

func assertResponseCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("response code = %d, want %d", got, want)
	}
}

func assertResponseStatus(t *testing.T, got map[string]interface{}, wantStatus string) {
	t.Helper()
	if got["status"] != wantStatus {
		t.Errorf("status = %v, want %v", got["status"], wantStatus)
	}
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("error decoding response body: %v", err)
	}
	return body
}

// ============================================================================
// Stubs
// ============================================================================

type StubSurveyStore struct {
	Surveys map[int64]database.Survey

	CreatedParams  []surveys.CreateSurveyParams
	ReplacedParams []surveys.ReplaceSectionsParams
	DeletedIDs     []int64

	nextID int64
}

func NewStubSurveyStore() *StubSurveyStore {
	return &StubSurveyStore{Surveys: make(map[int64]database.Survey)}
}

func (s *StubSurveyStore) CreateSurveyWithSections(ctx context.Context, params surveys.CreateSurveyParams) (database.Survey, error) {
	s.CreatedParams = append(s.CreatedParams, params)
	s.nextID++
	survey := database.Survey{ID: s.nextID, Title: params.Title, IsActive: true}
	s.Surveys[survey.ID] = survey
	return survey, nil
}

func (s *StubSurveyStore) GetSurvey(ctx context.Context, surveyID int64) (database.Survey, error) {
	survey, ok := s.Surveys[surveyID]
	if !ok {
		return database.Survey{}, custom_errors.ErrNotFound
	}
	return survey, nil
}

func (s *StubSurveyStore) GetSurveyDetail(ctx context.Context, surveyID int64) (surveys.SurveyDetail, error) {
	survey, ok := s.Surveys[surveyID]
	if !ok {
		return surveys.SurveyDetail{}, custom_errors.ErrNotFound
	}
	return surveys.SurveyDetail{Survey: survey, Sections: []surveys.SectionDetail{}}, nil
}

func (s *StubSurveyStore) ListSurveys(ctx context.Context) ([]database.Survey, error) {
	var all []database.Survey
	for _, survey := range s.Surveys {
		all = append(all, survey)
	}
	return all, nil
}

func (s *StubSurveyStore) ReplaceSections(ctx context.Context, params surveys.ReplaceSectionsParams) (database.Survey, error) {
	survey, ok := s.Surveys[params.SurveyID]
	if !ok {
		return database.Survey{}, custom_errors.ErrNotFound
	}
	s.ReplacedParams = append(s.ReplacedParams, params)
	survey.Title = params.Title
	s.Surveys[params.SurveyID] = survey
	return survey, nil
}

func (s *StubSurveyStore) SetSurveyActive(ctx context.Context, surveyID int64, isActive bool) (database.Survey, error) {
	survey, ok := s.Surveys[surveyID]
	if !ok {
		return database.Survey{}, custom_errors.ErrNotFound
	}
	survey.IsActive = isActive
	s.Surveys[surveyID] = survey
	return survey, nil
}

func (s *StubSurveyStore) DeleteSurvey(ctx context.Context, surveyID int64) error {
	if _, ok := s.Surveys[surveyID]; !ok {
		return custom_errors.ErrNotFound
	}
	delete(s.Surveys, surveyID)
	s.DeletedIDs = append(s.DeletedIDs, surveyID)
	return nil
}

func (s *StubSurveyStore) ListResponses(ctx context.Context, surveyID int64) ([]database.Response, error) {
	return nil, nil
}

func (s *StubSurveyStore) CountResponses(ctx context.Context, surveyID int64) (int64, error) {
	return 0, nil
}

func (s *StubSurveyStore) GetResponse(ctx context.Context, responseID int64) (database.Response, error) {
	return database.Response{}, custom_errors.ErrNotFound
}

func (s *StubSurveyStore) GetResponseAnswers(ctx context.Context, responseID int64) ([]database.Answer, error) {
	return nil, nil
}

func (s *StubSurveyStore) DeleteResponse(ctx context.Context, responseID int64) error {
	return errors.New("not implemented")
}

func newTestRouter(store surveys.Store) *chi.Mux {
	handler := surveys.Handler{Store: store}

	r := chi.NewRouter()
	r.Post("/surveys", handler.CreateSurveyHandler)
	r.Get("/surveys/{surveyID}", handler.GetSurveyHandler)
	r.Put("/surveys/{surveyID}", handler.UpdateSurveyHandler)
	r.Post("/surveys/{surveyID}/toggle", handler.ToggleSurveyHandler)
	r.Delete("/surveys/{surveyID}", handler.DeleteSurveyHandler)
	return r
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateSurveyHandler(t *testing.T) {
	store := NewStubSurveyStore()
	router := newTestRouter(store)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "Governance Review",
		"sections": []map[string]interface{}{
			{"title": "Strategy", "questions": []string{"Approve the budget?", "  "}},
		},
	})

	request := httptest.NewRequest(http.MethodPost, "/surveys", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assertResponseCode(t, recorder.Code, http.StatusCreated)
	assertResponseStatus(t, decodeBody(t, recorder), "success")

	if len(store.CreatedParams) != 1 {
		t.Fatalf("created surveys = %d, want 1", len(store.CreatedParams))
	}
	if len(store.CreatedParams[0].Sections[0].Questions) != 1 {
		t.Errorf("blank question was not dropped before create")
	}
}

func TestCreateSurveyHandlerRejectsMissingTitle(t *testing.T) {
	router := newTestRouter(NewStubSurveyStore())

	body, _ := json.Marshal(map[string]interface{}{
		"sections": []map[string]interface{}{
			{"title": "Strategy", "questions": []string{"Approve?"}},
		},
	})

	request := httptest.NewRequest(http.MethodPost, "/surveys", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assertResponseCode(t, recorder.Code, http.StatusBadRequest)
}

func TestCreateSurveyHandlerRejectsZeroQuestions(t *testing.T) {
	router := newTestRouter(NewStubSurveyStore())

	body, _ := json.Marshal(map[string]interface{}{
		"title": "Empty",
		"sections": []map[string]interface{}{
			{"title": "Strategy", "questions": []string{"   "}},
		},
	})

	request := httptest.NewRequest(http.MethodPost, "/surveys", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assertResponseCode(t, recorder.Code, http.StatusBadRequest)
}

func TestGetSurveyHandlerNotFound(t *testing.T) {
	router := newTestRouter(NewStubSurveyStore())

	request := httptest.NewRequest(http.MethodGet, "/surveys/99", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assertResponseCode(t, recorder.Code, http.StatusNotFound)
	assertResponseStatus(t, decodeBody(t, recorder), "error")
}

func TestUpdateSurveyHandlerReplacesSections(t *testing.T) {
	store := NewStubSurveyStore()
	store.Surveys[1] = database.Survey{ID: 1, Title: "Old Title", IsActive: true}
	router := newTestRouter(store)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "New Title",
		"sections": []map[string]interface{}{
			{"title": "Strategy", "questions": []string{"Approve?"}},
			{"title": "Operations", "questions": []string{"Extend?"}},
		},
	})

	request := httptest.NewRequest(http.MethodPut, "/surveys/1", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assertResponseCode(t, recorder.Code, http.StatusOK)

	if len(store.ReplacedParams) != 1 {
		t.Fatalf("replace calls = %d, want 1", len(store.ReplacedParams))
	}
	if store.ReplacedParams[0].Title != "New Title" {
		t.Errorf("title = %q, want New Title", store.ReplacedParams[0].Title)
	}
	if len(store.ReplacedParams[0].Sections) != 2 {
		t.Errorf("sections = %d, want 2", len(store.ReplacedParams[0].Sections))
	}
}

func TestToggleSurveyHandler(t *testing.T) {
	store := NewStubSurveyStore()
	store.Surveys[1] = database.Survey{ID: 1, Title: "Charter Vote", IsActive: true}
	router := newTestRouter(store)

	request := httptest.NewRequest(http.MethodPost, "/surveys/1/toggle", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assertResponseCode(t, recorder.Code, http.StatusOK)
	if store.Surveys[1].IsActive {
		t.Error("survey still active after toggle")
	}

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/surveys/1/toggle", nil))
	if !store.Surveys[1].IsActive {
		t.Error("survey still inactive after second toggle")
	}
}

func TestDeleteSurveyHandler(t *testing.T) {
	store := NewStubSurveyStore()
	store.Surveys[1] = database.Survey{ID: 1, Title: "Charter Vote"}
	router := newTestRouter(store)

	request := httptest.NewRequest(http.MethodDelete, "/surveys/1", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assertResponseCode(t, recorder.Code, http.StatusOK)
	if len(store.DeletedIDs) != 1 || store.DeletedIDs[0] != 1 {
		t.Errorf("deleted IDs = %v, want [1]", store.DeletedIDs)
	}
}
