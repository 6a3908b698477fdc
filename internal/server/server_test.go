package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpilot/resume-studio/internal/apiclient"
	"github.com/careerpilot/resume-studio/internal/db"
	"github.com/careerpilot/resume-studio/internal/types"
)

// stubTokens maps bearer token strings to user ids.
type stubTokens struct {
	users map[string]uuid.UUID
}

func (s *stubTokens) ValidateToken(tokenString string) (uuid.UUID, error) {
	if id, ok := s.users[tokenString]; ok {
		return id, nil
	}
	return uuid.Nil, errors.New("unknown token")
}

// fakeResumeAPI is an in-test remote service with overridable behavior.
type fakeResumeAPI struct {
	getResume    func(ctx context.Context, id string) (*types.ResumeMeta, error)
	getRendered  func(ctx context.Context, id string) (*types.RenderedResume, error)
	updateResume func(ctx context.Context, id string, req types.UpdateResumeRequest) error
	analyze      func(ctx context.Context, id string, req types.AnalyzeRequest) (*types.AnalyzeResponse, error)
	download     func(ctx context.Context, id, format string) (io.ReadCloser, error)
}

func (f *fakeResumeAPI) GetResume(ctx context.Context, id string) (*types.ResumeMeta, error) {
	if f.getResume != nil {
		return f.getResume(ctx, id)
	}
	return &types.ResumeMeta{ID: id, Name: "Test Resume", TemplateID: "modern"}, nil
}

func (f *fakeResumeAPI) GetRenderedResume(ctx context.Context, id string) (*types.RenderedResume, error) {
	if f.getRendered != nil {
		return f.getRendered(ctx, id)
	}
	return &types.RenderedResume{
		Summary: "A summary",
		Experiences: []types.APIExperience{
			{ID: "e1", CompanyName: "Acme", JobTitle: "Engineer", Bullets: []string{"Did things"}},
		},
	}, nil
}

func (f *fakeResumeAPI) UpdateResume(ctx context.Context, id string, req types.UpdateResumeRequest) error {
	if f.updateResume != nil {
		return f.updateResume(ctx, id, req)
	}
	return nil
}

func (f *fakeResumeAPI) AnalyzeResume(ctx context.Context, id string, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	if f.analyze != nil {
		return f.analyze(ctx, id, req)
	}
	return &types.AnalyzeResponse{Score: 77}, nil
}

func (f *fakeResumeAPI) DownloadResume(ctx context.Context, id, format string) (io.ReadCloser, error) {
	if f.download != nil {
		return f.download(ctx, id, format)
	}
	return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
}

// fakeSuggester returns a canned suggestion list.
type fakeSuggester struct {
	suggestions []types.AISuggestion
	err         error
}

func (f *fakeSuggester) SuggestEnhancements(_ context.Context, _ string, _ types.EnhancementKind) ([]types.AISuggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestions, nil
}

// sessionEnvelopeBody mirrors the wire shape of sessionResponse.
type sessionEnvelopeBody struct {
	SessionID string                `json:"session_id"`
	State     string                `json:"state"`
	Error     string                `json:"error"`
	Document  *types.ResumeDocument `json:"document"`
}

type enhancementsBody struct {
	Suggestions  []types.AISuggestion `json:"suggestions"`
	Confirmation *struct {
		SuggestionIndex int      `json:"suggestion_index"`
		SectionID       string   `json:"section_id"`
		Prompt          string   `json:"prompt"`
		Metrics         []string `json:"metrics"`
	} `json:"confirmation"`
}

const (
	tokenAlice = "alice-token"
	tokenBob   = "bob-token"
)

func newTestServer(t *testing.T, api *fakeResumeAPI, suggester *fakeSuggester) *Server {
	t.Helper()
	if api == nil {
		api = &fakeResumeAPI{}
	}
	if suggester == nil {
		suggester = &fakeSuggester{}
	}
	tokens := &stubTokens{users: map[string]uuid.UUID{
		tokenAlice: uuid.New(),
		tokenBob:   uuid.New(),
	}}
	srv, err := New(Config{Port: 8080}, Deps{API: api, Suggester: suggester, Tokens: tokens})
	require.NoError(t, err)
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, srv *Server, token string) sessionEnvelopeBody {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/sessions", token, types.CreateSessionRequest{ResumeID: "r1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var envelope sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestNew_RequiresCollaborators(t *testing.T) {
	tokens := &stubTokens{}
	_, err := New(Config{}, Deps{Suggester: &fakeSuggester{}, Tokens: tokens})
	assert.Error(t, err)

	_, err = New(Config{}, Deps{API: &fakeResumeAPI{}, Tokens: tokens})
	assert.Error(t, err)

	_, err = New(Config{}, Deps{API: &fakeResumeAPI{}, Suggester: &fakeSuggester{}})
	assert.Error(t, err)
}

func TestHealth_NoAuthRequired(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := doRequest(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessions_RequireAuth(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/sessions", "", types.CreateSessionRequest{ResumeID: "r1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/sessions", "bogus-token", types.CreateSessionRequest{ResumeID: "r1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSession_LoadsDocument(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	assert.Equal(t, "loaded", envelope.State)
	assert.Empty(t, envelope.Error)
	require.NotNil(t, envelope.Document)
	assert.Equal(t, "Test Resume", envelope.Document.Title)
	require.Len(t, envelope.Document.Sections, 4)
	assert.Equal(t, "A summary", envelope.Document.Sections[0].Content.Summary)
}

func TestCreateSession_MissingResumeID(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := doRequest(t, srv, http.MethodPost, "/sessions", tokenAlice, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSession_RemoteFailureIsBadGateway(t *testing.T) {
	api := &fakeResumeAPI{
		getRendered: func(_ context.Context, _ string) (*types.RenderedResume, error) {
			return nil, &apiclient.Error{Op: "get_rendered_resume", StatusCode: 500, Message: "boom"}
		},
	}
	srv := newTestServer(t, api, nil)
	rec := doRequest(t, srv, http.MethodPost, "/sessions", tokenAlice, types.CreateSessionRequest{ResumeID: "r1"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetDocument_OwnSession(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID, tokenAlice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetDocument_ForeignSessionLooksMissing(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID, tokenBob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDocument_UnknownSession(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+uuid.NewString(), tokenAlice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/sessions/not-a-uuid", tokenAlice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodDelete, "/sessions/"+envelope.SessionID, tokenAlice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID, tokenAlice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchSection_Title(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)
	sectionID := envelope.Document.Sections[0].ID

	rec := doRequest(t, srv, http.MethodPatch,
		"/sessions/"+envelope.SessionID+"/sections/"+sectionID, tokenAlice,
		map[string]any{"title": "About Me"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "About Me", updated.Document.Sections[0].Title)
}

func TestPatchSection_MismatchedContent(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)
	summaryID := envelope.Document.Sections[0].ID

	rec := doRequest(t, srv, http.MethodPatch,
		"/sessions/"+envelope.SessionID+"/sections/"+summaryID, tokenAlice,
		map[string]any{"content": map[string]any{
			"experiences": []map[string]any{{"id": "e9"}},
		}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReorderSections(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)
	first := envelope.Document.Sections[0].ID
	third := envelope.Document.Sections[2].ID

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/sections/reorder", tokenAlice,
		types.ReorderRequest{ActiveID: first, OverID: third})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, first, updated.Document.Sections[2].ID)
}

func TestToggleVisibility(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)
	sectionID := envelope.Document.Sections[3].ID

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/sections/"+sectionID+"/toggle", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.False(t, updated.Document.Sections[3].IsVisible)
}

func TestSave_Success(t *testing.T) {
	var saved types.UpdateResumeRequest
	api := &fakeResumeAPI{
		updateResume: func(_ context.Context, _ string, req types.UpdateResumeRequest) error {
			saved = req
			return nil
		},
	}
	srv := newTestServer(t, api, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+envelope.SessionID+"/save", tokenAlice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Test Resume", saved.Name)
	require.Len(t, saved.ContentSelection.Experiences, 1)
}

func TestSave_RemoteFailure(t *testing.T) {
	api := &fakeResumeAPI{
		updateResume: func(_ context.Context, _ string, _ types.UpdateResumeRequest) error {
			return &apiclient.Error{Op: "update_resume", StatusCode: 503, Message: "unavailable"}
		},
	}
	srv := newTestServer(t, api, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+envelope.SessionID+"/save", tokenAlice, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// The session survives with its error banner set.
	rec = doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID, tokenAlice, nil)
	var got sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "loaded", got.State)
	assert.Contains(t, got.Error, "Failed to save resume")
}

func TestDismissError(t *testing.T) {
	api := &fakeResumeAPI{
		updateResume: func(_ context.Context, _ string, _ types.UpdateResumeRequest) error {
			return errors.New("boom")
		},
	}
	srv := newTestServer(t, api, nil)
	envelope := createSession(t, srv, tokenAlice)
	doRequest(t, srv, http.MethodPost, "/sessions/"+envelope.SessionID+"/save", tokenAlice, nil)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+envelope.SessionID+"/dismiss-error", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Error)
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+envelope.SessionID+"/analyze", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Document.ATSScore)
	assert.Equal(t, 77, *got.Document.ATSScore)
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/download?format=pdf", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Test Resume.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestDownload_InvalidFormat(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/download?format=txt", tokenAlice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownload_RemoteFailureHasNoPartialBody(t *testing.T) {
	api := &fakeResumeAPI{
		download: func(_ context.Context, _, _ string) (io.ReadCloser, error) {
			return nil, &apiclient.Error{Op: "download_resume", StatusCode: 500, Message: "renderer down"}
		},
	}
	srv := newTestServer(t, api, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/download", tokenAlice, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func fetchEnhancements(t *testing.T, srv *Server, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, srv, http.MethodPost, "/sessions/"+sessionID+"/enhancements", tokenAlice,
		types.FetchEnhancementsRequest{Text: "A summary", Kind: types.KindSummary})
}

func TestEnhancements_FetchAndList(t *testing.T) {
	suggester := &fakeSuggester{suggestions: []types.AISuggestion{
		{OriginalText: "A summary", EnhancedText: "A sharper summary", VerificationStatus: types.StatusVerified},
	}}
	srv := newTestServer(t, nil, suggester)
	envelope := createSession(t, srv, tokenAlice)

	rec := fetchEnhancements(t, srv, envelope.SessionID)
	require.Equal(t, http.StatusOK, rec.Code)

	var body enhancementsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "A sharper summary", body.Suggestions[0].EnhancedText)

	rec = doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/enhancements", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Suggestions, 1)
}

func TestEnhancements_ProviderFailure(t *testing.T) {
	suggester := &fakeSuggester{err: errors.New("rate limited")}
	srv := newTestServer(t, nil, suggester)
	envelope := createSession(t, srv, tokenAlice)

	rec := fetchEnhancements(t, srv, envelope.SessionID)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEnhancements_ApplyVerified(t *testing.T) {
	suggester := &fakeSuggester{suggestions: []types.AISuggestion{
		{OriginalText: "A summary", EnhancedText: "A sharper summary", VerificationStatus: types.StatusVerified},
	}}
	srv := newTestServer(t, nil, suggester)
	envelope := createSession(t, srv, tokenAlice)
	summaryID := envelope.Document.Sections[0].ID
	require.Equal(t, http.StatusOK, fetchEnhancements(t, srv, envelope.SessionID).Code)

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/0/apply", tokenAlice,
		types.ApplySuggestionRequest{SectionID: summaryID})
	require.Equal(t, http.StatusOK, rec.Code)

	var got sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "A sharper summary", got.Document.Sections[0].Content.Summary)
}

func TestEnhancements_ApplyRejected(t *testing.T) {
	suggester := &fakeSuggester{suggestions: []types.AISuggestion{
		{OriginalText: "A summary", EnhancedText: "Fabricated claims", VerificationStatus: types.StatusRejected},
	}}
	srv := newTestServer(t, nil, suggester)
	envelope := createSession(t, srv, tokenAlice)
	summaryID := envelope.Document.Sections[0].ID
	require.Equal(t, http.StatusOK, fetchEnhancements(t, srv, envelope.SessionID).Code)

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/0/apply", tokenAlice,
		types.ApplySuggestionRequest{SectionID: summaryID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEnhancements_ApplyUnknownIndex(t *testing.T) {
	srv := newTestServer(t, nil, &fakeSuggester{})
	envelope := createSession(t, srv, tokenAlice)
	summaryID := envelope.Document.Sections[0].ID
	require.Equal(t, http.StatusOK, fetchEnhancements(t, srv, envelope.SessionID).Code)

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/9/apply", tokenAlice,
		types.ApplySuggestionRequest{SectionID: summaryID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnhancements_ConfirmationFlow(t *testing.T) {
	suggester := &fakeSuggester{suggestions: []types.AISuggestion{
		{
			OriginalText:       "A summary",
			EnhancedText:       "Grew revenue by {{revenue_growth}}",
			VerificationStatus: types.StatusNeedsConfirmation,
			ConfirmationPrompt: "What was the revenue growth?",
		},
	}}
	srv := newTestServer(t, nil, suggester)
	envelope := createSession(t, srv, tokenAlice)
	summaryID := envelope.Document.Sections[0].ID
	require.Equal(t, http.StatusOK, fetchEnhancements(t, srv, envelope.SessionID).Code)

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/0/apply", tokenAlice,
		types.ApplySuggestionRequest{SectionID: summaryID})
	require.Equal(t, http.StatusOK, rec.Code)

	var body enhancementsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Confirmation)
	assert.Equal(t, []string{"revenue_growth"}, body.Confirmation.Metrics)

	// Partial responses block confirmation.
	rec = doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/confirm", tokenAlice,
		types.ConfirmMetricsRequest{Responses: map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/confirm", tokenAlice,
		types.ConfirmMetricsRequest{Responses: map[string]string{"revenue_growth": "37%"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Grew revenue by 37%", got.Document.Sections[0].Content.Summary)
}

func TestEnhancements_ConfirmWithoutPending(t *testing.T) {
	srv := newTestServer(t, nil, &fakeSuggester{})
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/confirm", tokenAlice,
		types.ConfirmMetricsRequest{Responses: map[string]string{"x": "1"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEnhancements_ClosePanel(t *testing.T) {
	suggester := &fakeSuggester{suggestions: []types.AISuggestion{
		{OriginalText: "A summary", EnhancedText: "Better", VerificationStatus: types.StatusVerified},
	}}
	srv := newTestServer(t, nil, suggester)
	envelope := createSession(t, srv, tokenAlice)
	require.Equal(t, http.StatusOK, fetchEnhancements(t, srv, envelope.SessionID).Code)

	rec := doRequest(t, srv, http.MethodDelete, "/sessions/"+envelope.SessionID+"/enhancements", tokenAlice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/enhancements", tokenAlice, nil)
	var body enhancementsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Suggestions)
}

func TestSessions_AreIsolated(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	alice := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodPost, "/sessions", tokenBob, types.CreateSessionRequest{ResumeID: "r2"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var bob sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bob))

	// Edit Alice's document; Bob's stays untouched.
	title := fmt.Sprintf("renamed-%s", alice.SessionID[:8])
	doRequest(t, srv, http.MethodPatch,
		"/sessions/"+alice.SessionID+"/sections/"+alice.Document.Sections[0].ID, tokenAlice,
		map[string]any{"title": title})

	rec = doRequest(t, srv, http.MethodGet, "/sessions/"+bob.SessionID, tokenBob, nil)
	var got sessionEnvelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEqual(t, title, got.Document.Sections[0].Title)
}

// fakeSnapshots is an in-memory SnapshotStore.
type fakeSnapshots struct {
	snapshots map[uuid.UUID][]byte
	audit     []db.AppliedSuggestion
	listErr   error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{snapshots: make(map[uuid.UUID][]byte)}
}

func (f *fakeSnapshots) SaveSnapshot(_ context.Context, sessionID uuid.UUID, _ string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	f.snapshots[sessionID] = raw
	return nil
}

func (f *fakeSnapshots) GetSnapshot(_ context.Context, sessionID uuid.UUID) ([]byte, error) {
	return f.snapshots[sessionID], nil
}

func (f *fakeSnapshots) DeleteSnapshot(_ context.Context, sessionID uuid.UUID) error {
	delete(f.snapshots, sessionID)
	return nil
}

func (f *fakeSnapshots) RecordAppliedSuggestion(_ context.Context, rec db.AppliedSuggestion) error {
	f.audit = append(f.audit, rec)
	return nil
}

func (f *fakeSnapshots) ListAppliedSuggestions(_ context.Context, _ uuid.UUID) ([]db.AppliedSuggestion, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.audit, nil
}

func newTestServerWithDB(t *testing.T, suggester *fakeSuggester, store SnapshotStore) *Server {
	t.Helper()
	if suggester == nil {
		suggester = &fakeSuggester{}
	}
	tokens := &stubTokens{users: map[string]uuid.UUID{
		tokenAlice: uuid.New(),
		tokenBob:   uuid.New(),
	}}
	srv, err := New(Config{Port: 8080}, Deps{
		API: &fakeResumeAPI{}, Suggester: suggester, Tokens: tokens, DB: store,
	})
	require.NoError(t, err)
	return srv
}

func TestSnapshot_SaveThenRecover(t *testing.T) {
	store := newFakeSnapshots()
	srv := newTestServerWithDB(t, nil, store)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+envelope.SessionID+"/save", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/snapshot", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc types.ResumeDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Test Resume", doc.Title)
	assert.Len(t, doc.Sections, 4)
}

func TestSnapshot_NoneStored(t *testing.T) {
	srv := newTestServerWithDB(t, nil, newFakeSnapshots())
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/snapshot", tokenAlice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnapshot_PersistenceDisabled(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+envelope.SessionID+"/snapshot", tokenAlice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession_RemovesSnapshot(t *testing.T) {
	store := newFakeSnapshots()
	srv := newTestServerWithDB(t, nil, store)
	envelope := createSession(t, srv, tokenAlice)

	doRequest(t, srv, http.MethodPost, "/sessions/"+envelope.SessionID+"/save", tokenAlice, nil)
	require.Len(t, store.snapshots, 1)

	rec := doRequest(t, srv, http.MethodDelete, "/sessions/"+envelope.SessionID, tokenAlice, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.snapshots)
}

func TestAppliedSuggestions_RecordedAndListed(t *testing.T) {
	store := newFakeSnapshots()
	suggester := &fakeSuggester{suggestions: []types.AISuggestion{
		{OriginalText: "A summary", EnhancedText: "A sharper summary", VerificationStatus: types.StatusVerified},
	}}
	srv := newTestServerWithDB(t, suggester, store)
	envelope := createSession(t, srv, tokenAlice)
	summaryID := envelope.Document.Sections[0].ID
	require.Equal(t, http.StatusOK, fetchEnhancements(t, srv, envelope.SessionID).Code)

	rec := doRequest(t, srv, http.MethodPost,
		"/sessions/"+envelope.SessionID+"/enhancements/0/apply", tokenAlice,
		types.ApplySuggestionRequest{SectionID: summaryID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet,
		"/sessions/"+envelope.SessionID+"/enhancements/applied", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Applied []db.AppliedSuggestion `json:"applied"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Applied, 1)
	assert.Equal(t, summaryID, body.Applied[0].SectionID)
	assert.Equal(t, "A sharper summary", body.Applied[0].EnhancedText)
	assert.Equal(t, string(types.StatusVerified), body.Applied[0].Status)
}

func TestAppliedSuggestions_EmptyTrail(t *testing.T) {
	srv := newTestServerWithDB(t, nil, newFakeSnapshots())
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet,
		"/sessions/"+envelope.SessionID+"/enhancements/applied", tokenAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"applied": []}`, rec.Body.String())
}

func TestAppliedSuggestions_PersistenceDisabled(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet,
		"/sessions/"+envelope.SessionID+"/enhancements/applied", tokenAlice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppliedSuggestions_StoreFailure(t *testing.T) {
	store := newFakeSnapshots()
	store.listErr = errors.New("connection reset")
	srv := newTestServerWithDB(t, nil, store)
	envelope := createSession(t, srv, tokenAlice)

	rec := doRequest(t, srv, http.MethodGet,
		"/sessions/"+envelope.SessionID+"/enhancements/applied", tokenAlice, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
