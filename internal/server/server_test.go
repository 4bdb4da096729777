package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagelens/internal/infrastructure/analyze"
	"pagelens/internal/infrastructure/extract"
	"pagelens/internal/infrastructure/fetch"
	"pagelens/internal/infrastructure/storage"
	"pagelens/internal/usecase"
)

// newTestServer wires a real pipeline against the given page handler and a
// throwaway sqlite store.
func newTestServer(t *testing.T, pageHandler http.HandlerFunc) (http.Handler, *httptest.Server) {
	t.Helper()

	pageServer := httptest.NewServer(pageHandler)
	t.Cleanup(pageServer.Close)

	store, err := storage.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.DiscardHandler)
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:     fetch.New(pageServer.Client(), fetch.Options{}),
		Extractor:   extract.New(),
		Sentiment:   analyze.NewVaderAnalyzer(0, 0),
		Readability: analyze.NewFleschScorer(),
		Lexical:     analyze.NewLexical(0),
		Summarizer:  analyze.NewSummarizer(),
		Store:       store,
		Logger:      logger,
	})

	return New(":0", pipeline, store, logger).Handler(), pageServer
}

func postAnalysis(t *testing.T, handler http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"url": url})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analyses", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func servePage(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Parallel()

	handler, pageServer := newTestServer(t, servePage("<html><body><p>Great news today!</p></body></html>"))

	rec := postAnalysis(t, handler, pageServer.URL)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Analysis struct {
			ID             int64  `json:"id"`
			URL            string `json:"url"`
			SentimentLabel string `json:"sentiment_label"`
			WordCount      int    `json:"word_count"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Positive(t, resp.Analysis.ID)
	assert.Equal(t, pageServer.URL, resp.Analysis.URL)
	assert.Equal(t, "positive", resp.Analysis.SentimentLabel)
	assert.Equal(t, 3, resp.Analysis.WordCount)
}

func TestAnalyzeEndpointInvalidURL(t *testing.T) {
	t.Parallel()

	handler, _ := newTestServer(t, servePage("<p>unused</p>"))

	rec := postAnalysis(t, handler, "ftp://example.com")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Stage string `json:"stage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation", resp.Stage)
}

func TestAnalyzeEndpointFetchFailure(t *testing.T) {
	t.Parallel()

	handler, pageServer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	rec := postAnalysis(t, handler, pageServer.URL)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetEndpoint(t *testing.T) {
	t.Parallel()

	handler, pageServer := newTestServer(t, servePage("<html><body><p>Great news today!</p></body></html>"))

	rec := postAnalysis(t, handler, pageServer.URL)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Analysis struct {
			ID int64 `json:"id"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/analyses/%d", created.Analysis.ID), nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, req)

	require.Equal(t, http.StatusOK, getRec.Code)

	var got struct {
		URL     string `json:"url"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
	assert.Equal(t, pageServer.URL, got.URL)
	assert.Equal(t, "Great news today!", got.Content)
}

func TestGetEndpointNotFound(t *testing.T) {
	t.Parallel()

	handler, _ := newTestServer(t, servePage("<p>unused</p>"))

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/999", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEndpoint(t *testing.T) {
	t.Parallel()

	handler, pageServer := newTestServer(t, servePage("<html><body><p>Great news today!</p></body></html>"))

	for i := 0; i < 2; i++ {
		rec := postAnalysis(t, handler, pageServer.URL)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/analyses?limit=10", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var list []struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID, "newest first")
	assert.Empty(t, list[0].Content, "listings omit content")
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	handler, pageServer := newTestServer(t, servePage("<html><body><p>Great news today!</p></body></html>"))

	rec := postAnalysis(t, handler, pageServer.URL)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	statsRec := httptest.NewRecorder()
	handler.ServeHTTP(statsRec, req)

	require.Equal(t, http.StatusOK, statsRec.Code)

	var stats struct {
		Total        int64          `json:"total_analyses"`
		Distribution map[string]int `json:"sentiment_distribution"`
	}
	require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, 1, stats.Distribution["positive"])
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := New("127.0.0.1:0", nil, nil, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunReturnsListenError(t *testing.T) {
	t.Parallel()

	srv := New("256.256.256.256:99999", nil, nil, slog.New(slog.DiscardHandler))

	err := srv.Run(context.Background(), time.Second)
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	handler, _ := newTestServer(t, servePage("<p>unused</p>"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
