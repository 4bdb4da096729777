package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagelens/internal/domain"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "already absolute", in: "https://example.com/article", want: "https://example.com/article"},
		{name: "http preserved", in: "http://example.com", want: "http://example.com"},
		{name: "scheme added", in: "example.com/article", want: "https://example.com/article"},
		{name: "whitespace trimmed", in: "  example.com  ", want: "https://example.com"},
		{name: "empty", in: "", wantErr: true},
		{name: "unsupported scheme", in: "ftp://example.com", wantErr: true},
		{name: "missing host", in: "https:///path", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				var validationErr *domain.ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer server.Close()

	client := New(server.Client(), Options{})
	page, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, page.URL)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", page.ContentType)
	assert.Contains(t, string(page.Body), "hello")
}

func TestFetchNotFoundIsPermanent(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.Client(), Options{MaxRetries: 3})
	_, err := client.Fetch(context.Background(), server.URL)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, int32(1), attempts.Load(), "4xx must not be retried")
}

func TestFetchRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	client := New(server.Client(), Options{MaxRetries: 5})
	page, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, "recovered", string(page.Body))
}

func TestFetchBodyCapped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 4096))
	}))
	defer server.Close()

	client := New(server.Client(), Options{MaxBodyBytes: 1024})
	page, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Len(t, page.Body, 1024)
}

func TestFetchInvalidURL(t *testing.T) {
	t.Parallel()

	client := New(nil, Options{})
	_, err := client.Fetch(context.Background(), "ftp://example.com")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
