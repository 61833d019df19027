package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tbtran/vocabd/internal/handler"
	"github.com/tbtran/vocabd/internal/handler/dto"
	"github.com/tbtran/vocabd/internal/repository"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

type HandlerTestSuite struct {
	suite.Suite
	store  *repository.MemoryVocabRepository
	pinger *fakePinger
	router http.Handler
}

func (s *HandlerTestSuite) SetupTest() {
	s.store = repository.NewMemoryVocabRepository()
	s.pinger = &fakePinger{}
	s.router = handler.New(s.store, s.pinger).Router([]string{"*"})
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// Helper to make a JSON request through the full pipeline
func (s *HandlerTestSuite) makeRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) createVocab(word string) dto.VocabResponse {
	w := s.makeRequest(http.MethodPost, "/vocabs", dto.CreateVocabRequest{
		Word:     word,
		Meaning:  "meaning of " + word,
		Examples: dto.StringList{"example of " + word},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.VocabResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func (s *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&errResp))
	return errResp
}

func (s *HandlerTestSuite) TestCreateVocab_JSON() {
	created := s.createVocab("sanguine")

	s.NotEmpty(created.ID)
	s.Equal("sanguine", created.Word)
	s.Equal("meaning of sanguine", created.Meaning)
	s.Equal([]string{"example of sanguine"}, created.Examples)
}

func (s *HandlerTestSuite) TestCreateVocab_Form() {
	req := httptest.NewRequest(http.MethodPost, "/vocabs",
		strings.NewReader("word=wistful&meaning=sadly+longing&examples=a+wistful+smile"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.VocabResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("wistful", resp.Word)
	s.Equal("sadly longing", resp.Meaning)
	s.Equal([]string{"a wistful smile"}, resp.Examples)
}

func (s *HandlerTestSuite) TestCreateVocab_ValidationError() {
	w := s.makeRequest(http.MethodPost, "/vocabs", dto.CreateVocabRequest{Meaning: "no word"})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.decodeError(w).Error.Code)
}

func (s *HandlerTestSuite) TestCreateVocab_RejectsNUL() {
	req := httptest.NewRequest(http.MethodPost, "/vocabs", strings.NewReader(`{"word":"nul\u0000word"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.decodeError(w).Error.Code)
}

func (s *HandlerTestSuite) TestUpdateVocab_RejectsNUL() {
	created := s.createVocab("gregarious")

	w := s.makeRequest(http.MethodPut, "/vocabs/"+created.ID, map[string]any{"examples": []string{"a\x00b"}})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.decodeError(w).Error.Code)
}

func (s *HandlerTestSuite) TestCreateVocab_FormMergesBracketKeys() {
	req := httptest.NewRequest(http.MethodPost, "/vocabs",
		strings.NewReader("word=w&examples=a&examples[]=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.VocabResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal([]string{"a", "b"}, resp.Examples)
}

func (s *HandlerTestSuite) TestCreateVocab_MissingBody() {
	w := s.makeRequest(http.MethodPost, "/vocabs", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_REQUEST", s.decodeError(w).Error.Code)
}

func (s *HandlerTestSuite) TestCreateVocab_WrongFieldType() {
	w := s.makeRequest(http.MethodPost, "/vocabs", map[string]any{"word": 12})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_JSON", s.decodeError(w).Error.Code)
}

func (s *HandlerTestSuite) TestGetVocab() {
	created := s.createVocab("mellifluous")

	w := s.makeRequest(http.MethodGet, "/vocabs/"+created.ID, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.VocabResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal(created.ID, resp.ID)
	s.Equal("mellifluous", resp.Word)
}

func (s *HandlerTestSuite) TestGetVocab_NotFound() {
	w := s.makeRequest(http.MethodGet, "/vocabs/99999999-9999-9999-9999-999999999999", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("VOCAB_NOT_FOUND", s.decodeError(w).Error.Code)
}

func (s *HandlerTestSuite) TestGetVocab_InvalidID() {
	w := s.makeRequest(http.MethodGet, "/vocabs/not-a-uuid", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_REQUEST", s.decodeError(w).Error.Code)
}

func (s *HandlerTestSuite) TestUpdateVocab_Merges() {
	created := s.createVocab("gregarious")

	w := s.makeRequest(http.MethodPut, "/vocabs/"+created.ID, map[string]any{"meaning": "fond of company"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.VocabResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("gregarious", resp.Word)
	s.Equal("fond of company", resp.Meaning)
	s.Equal([]string{"example of gregarious"}, resp.Examples)
}

func (s *HandlerTestSuite) TestUpdateVocab_EmptyPatch() {
	created := s.createVocab("gregarious")

	w := s.makeRequest(http.MethodPut, "/vocabs/"+created.ID, map[string]any{"unknown": true})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestDeleteVocab() {
	created := s.createVocab("evanescent")

	w := s.makeRequest(http.MethodDelete, "/vocabs/"+created.ID, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.MessageResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("Vocab successfully deleted", resp.Message)

	w = s.makeRequest(http.MethodDelete, "/vocabs/"+created.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestListVocabs() {
	s.createVocab("alpha")
	s.createVocab("alphabet")
	s.createVocab("beta")

	w := s.makeRequest(http.MethodGet, "/vocabs?word=alp&limit=1", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.VocabsListResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal(2, resp.Total)
	s.Equal(1, resp.Limit)
	s.Equal(0, resp.Offset)
	s.Require().Len(resp.Vocabs, 1)
	s.Equal("alpha", resp.Vocabs[0].Word)
}

func (s *HandlerTestSuite) TestListVocabs_InvalidPagingFallsBack() {
	s.createVocab("alpha")

	w := s.makeRequest(http.MethodGet, "/vocabs?limit=abc&offset=-3", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.VocabsListResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal(50, resp.Limit)
	s.Equal(0, resp.Offset)
	s.Len(resp.Vocabs, 1)
}

func (s *HandlerTestSuite) TestListVocabs_EmptyIsArray() {
	w := s.makeRequest(http.MethodGet, "/vocabs", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"vocabs":[]`)
}

func (s *HandlerTestSuite) TestHealthz() {
	w := s.makeRequest(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, w.Code)

	s.pinger.err = errors.New("connection refused")
	w = s.makeRequest(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlerTestSuite) TestNotFound_GetReportsURL() {
	w := s.makeRequest(http.MethodGet, "/nope?x=1", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"url":"/nope?x=1 not found"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestNotFound_RootPath() {
	w := s.makeRequest(http.MethodGet, "/", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"url":"/ not found"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestNotFound_NonGetGetsDefault() {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := s.makeRequest(method, "/nope", nil)

		s.Equal(http.StatusNotFound, w.Code, method)
		s.Equal("404 page not found\n", w.Body.String(), method)
	}
}

func (s *HandlerTestSuite) TestCORS_AppliedToRoutes() {
	req := httptest.NewRequest(http.MethodGet, "/vocabs", nil)
	req.Header.Set("Origin", "https://flashcards.example")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/vocabs", nil)
	req.Header.Set("Origin", "https://flashcards.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *HandlerTestSuite) TestMalformedJSON() {
	req := httptest.NewRequest(http.MethodPost, "/vocabs", strings.NewReader(`{"word":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_JSON", s.decodeError(w).Error.Code)
}
