package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProxyRouter(upstreamURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	proxy := services.NewPythonProxy(upstreamURL, time.Minute, zap.NewNop())
	h := NewProxyHandler(proxy, zap.NewNop())
	engine := gin.New()
	engine.POST("/api/python/:endpoint", h.Forward)
	return engine
}

func TestProxyForwardsJSONVerbatim(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summary":"hello summarized","word_count":1}`))
	}))
	defer upstream.Close()

	engine := newProxyRouter(upstream.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/python/summarize", bytes.NewReader([]byte(`{"text":"hello"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "/api/summarize", gotPath)
	assert.Equal(t, map[string]any{"text": "hello"}, gotBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":"hello summarized","word_count":1}`, rec.Body.String())
}

func TestProxyRelaysUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No text provided"}`))
	}))
	defer upstream.Close()

	engine := newProxyRouter(upstream.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/python/generate-document", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No text provided"}`, rec.Body.String())
}

func TestProxyNonJSONUpstreamBecomes500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer upstream.Close()

	engine := newProxyRouter(upstream.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/python/summarize", bytes.NewReader([]byte(`{"text":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid response from python backend")
	assert.Contains(t, rec.Body.String(), "upstream exploded")
}

func TestProxyUnknownEndpoint(t *testing.T) {
	engine := newProxyRouter("http://unused")
	req := httptest.NewRequest(http.MethodPost, "/api/python/delete-everything", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProxyForwardsMultipartWithExtraFields(t *testing.T) {
	var gotFile []byte
	var gotFileName, gotStrategy string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFile, _ = io.ReadAll(file)
		gotFileName = header.Filename
		gotStrategy = r.FormValue("strategy")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"transcript":"hello","summary":"hi"}`))
	}))
	defer upstream.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "meeting.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("wav payload"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("strategy", "balanced"))
	require.NoError(t, writer.Close())

	engine := newProxyRouter(upstream.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/python/process-audio", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("wav payload"), gotFile)
	assert.Equal(t, "meeting.wav", gotFileName)
	assert.Equal(t, "balanced", gotStrategy)
	assert.Contains(t, rec.Body.String(), "transcript")
}

func TestProxyMultipartMissingFile(t *testing.T) {
	engine := newProxyRouter("http://unused")
	req := httptest.NewRequest(http.MethodPost, "/api/python/transcribe", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No audio file provided")
}
