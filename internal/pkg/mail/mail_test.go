package mail

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSender(baseURL string) *Sender {
	return New(Config{
		BaseURL:     baseURL,
		Sender:      "newsletter@example.com",
		ServerToken: "test-server-token",
		Timeout:     200 * time.Millisecond,
	})
}

func TestSendPostsExpectedRequest(t *testing.T) {
	var (
		gotPath   string
		gotMethod string
		gotToken  string
		gotBody   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testSender(srv.URL).Send("taha@example.com", "Welcome!", "<p>hi</p>", "hi")
	require.NoError(t, err)

	assert.Equal(t, "/email", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "test-server-token", gotToken)
	for _, field := range []string{"From", "To", "Subject", "TextBody", "HtmlBody"} {
		assert.Contains(t, gotBody, field)
	}
	assert.Equal(t, "newsletter@example.com", gotBody["From"])
	assert.Equal(t, "taha@example.com", gotBody["To"])
}

func TestSendFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testSender(srv.URL).Send("taha@example.com", "Welcome!", "<p>hi</p>", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSendTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	err := testSender(srv.URL).Send("taha@example.com", "Welcome!", "<p>hi</p>", "hi")
	require.Error(t, err)
}

func TestSendConfirmationBodiesCarryIdenticalLink(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	link := "http://localhost:8080/subscriptions/confirm?subscription_token=abc123"
	require.NoError(t, testSender(srv.URL).SendConfirmation("taha@example.com", link))

	assert.Equal(t, "Welcome!", got.Subject)
	assert.Contains(t, got.HtmlBody, link)
	assert.Contains(t, got.TextBody, link)
}
