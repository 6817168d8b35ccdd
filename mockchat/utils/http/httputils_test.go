package httputils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSONSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, `{"echo":%s}`, body)
	}))
	defer srv.Close()

	var out struct {
		Echo map[string]string `json:"echo"`
	}
	err := NewClient(srv.URL+"/", "tok").PostJSON(context.Background(), "/x", map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out.Echo["a"])
}

func TestGetJSONReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"missing userId"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").GetJSON(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "missing userId")
}

func sseServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
}

func TestStreamSSE(t *testing.T) {
	srv := sseServer("data: Mocked\n\ndata: reply\n\ndata: [DONE]\n\n")
	defer srv.Close()

	var tokens []string
	err := NewClient(srv.URL, "").StreamSSE(context.Background(), "/", func(tok string) { tokens = append(tokens, tok) })
	require.NoError(t, err)
	assert.Equal(t, []string{"Mocked", "reply"}, tokens)
}

func TestStreamSSEErrorEvent(t *testing.T) {
	srv := sseServer("data: [ERROR] missing userId or conversationId\n\n")
	defer srv.Close()

	err := NewClient(srv.URL, "").StreamSSE(context.Background(), "/", func(string) { t.Fatal("no tokens expected") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing userId or conversationId")
}

func TestStreamSSETruncated(t *testing.T) {
	srv := sseServer("data: partial\n\n")
	defer srv.Close()

	err := NewClient(srv.URL, "").StreamSSE(context.Background(), "/", func(string) {})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
