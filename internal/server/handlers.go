package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pagelens/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// analysisDTO mirrors the persisted record for serialization.
type analysisDTO struct {
	ID                int64             `json:"id"`
	URL               string            `json:"url"`
	Title             string            `json:"title"`
	Content           string            `json:"content,omitempty"`
	Summary           string            `json:"summary,omitempty"`
	SentimentScore    float64           `json:"sentiment_score"`
	SentimentLabel    string            `json:"sentiment_label"`
	PositiveScore     float64           `json:"positive_score"`
	NegativeScore     float64           `json:"negative_score"`
	NeutralScore      float64           `json:"neutral_score"`
	ReadabilityScore  float64           `json:"readability_score"`
	GradeLevel        float64           `json:"grade_level"`
	WordCount         int               `json:"word_count"`
	CharCount         int               `json:"char_count"`
	SentenceCount     int               `json:"sentence_count"`
	AvgSentenceLength float64           `json:"avg_sentence_length"`
	Keywords          []string          `json:"keywords,omitempty"`
	TopWords          []domain.WordFreq `json:"top_words,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

func toDTO(a *domain.Analysis) analysisDTO {
	return analysisDTO{
		ID:                a.ID,
		URL:               a.URL,
		Title:             a.Title,
		Content:           a.Content,
		Summary:           a.Summary,
		SentimentScore:    a.Sentiment.Compound,
		SentimentLabel:    string(a.Sentiment.Label),
		PositiveScore:     a.Sentiment.Positive,
		NegativeScore:     a.Sentiment.Negative,
		NeutralScore:      a.Sentiment.Neutral,
		ReadabilityScore:  a.Readability.ReadingEase,
		GradeLevel:        a.Readability.GradeLevel,
		WordCount:         a.Lexical.WordCount,
		CharCount:         a.Lexical.CharCount,
		SentenceCount:     a.Lexical.SentenceCount,
		AvgSentenceLength: a.Lexical.AvgSentenceLength,
		Keywords:          a.Keywords,
		TopWords:          a.Lexical.TopWords,
		CreatedAt:         a.CreatedAt,
	}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	Analysis analysisDTO     `json:"analysis"`
	Charts   domain.ChartSet `json:"charts"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, analyzeResponse{
		Analysis: toDTO(result.Analysis),
		Charts:   result.Charts,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	analysis, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDTO(analysis))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := queryInt(r, "offset", 0)

	analyses, err := s.store.List(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}

	dtos := make([]analysisDTO, 0, len(analyses))
	for i := range analyses {
		dto := toDTO(&analyses[i])
		// History listings stay lean; full content is served by the
		// single-record endpoint.
		dto.Content = ""
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps the domain error taxonomy to HTTP statuses, always
// naming the stage that failed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		fetchErr      *domain.FetchError
		extractErr    *domain.ExtractionError
		analysisErr   *domain.AnalysisError
		storeErr      *domain.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Stage: "validation"})
	case errors.As(err, &fetchErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: fetchErr.Error(), Stage: "fetch"})
	case errors.As(err, &extractErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: extractErr.Error(), Stage: "extract"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &analysisErr):
		s.logger.Error("analysis error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "analysis failed", Stage: analysisErr.Stage})
	case errors.As(err, &storeErr):
		s.logger.Error("store error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage failed", Stage: "store"})
	default:
		s.logger.Error("unexpected error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
