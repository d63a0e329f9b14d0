package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
)

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	jar, err := NewCookieJar(srv.URL, token)
	require.NoError(t, err)
	c, err := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second, Jar: jar, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return c
}

func TestGetPaperChat(t *testing.T) {
	var gotPath, gotUser, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.URL.Query().Get("userId")
		if c, err := r.Cookie(AuthCookie); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"paperId":"PRP07","userId":"u1","status":"pending",
			"reviewer_name":"Dr. Rao","messages":[{"_id":"m1","text":"Hello","sender":"evaluator","timestamp":"2026-03-01T09:00:00Z"}]}}`))
	}))
	defer srv.Close()

	env, err := newTestClient(t, srv, "tok-1").GetPaperChat(context.Background(), "PRP07", "u1")
	require.NoError(t, err)

	assert.Equal(t, "/inf/api/events/paper/PRP07/chat", gotPath)
	assert.Equal(t, "u1", gotUser)
	assert.Equal(t, "tok-1", gotCookie)

	require.True(t, env.Success)
	require.NotNil(t, env.Data)
	assert.Equal(t, domain.StatusPending, env.Data.Status)
	assert.Equal(t, "Dr. Rao", env.Data.ReviewerName)
	require.Len(t, env.Data.Messages, 1)
	assert.Equal(t, domain.SenderCounterpart, env.Data.Messages[0].Sender)
}

func TestGetPaperChatAcceptsEpochTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"status":"pending","messages":[
			{"_id":"m1","text":"Hello","sender":"user","timestamp":1767225600000},
			{"_id":"m2","text":"Hi","sender":"evaluator","timestamp":{"$date":"x"}}]}}`))
	}))
	defer srv.Close()

	env, err := newTestClient(t, srv, "tok").GetPaperChat(context.Background(), "PRP01", "u1")
	require.NoError(t, err)
	require.Len(t, env.Data.Messages, 2)
	assert.Equal(t, int64(1767225600000), env.Data.Messages[0].Timestamp.UnixMilli())
	assert.True(t, env.Data.Messages[1].Timestamp.IsZero())
}

func TestGetPaperChatEscapesPaperID(t *testing.T) {
	var rawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, "").GetPaperChat(context.Background(), "a/b", "u1")
	require.NoError(t, err)
	assert.Equal(t, "/inf/api/events/paper/a%2Fb/chat", rawPath)
}

func TestPostMessage(t *testing.T) {
	var got domain.SendMessageRequest
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv, "tok").PostMessage(context.Background(), "PRP01", domain.SendMessageRequest{
		UserID: "u1",
		Text:   "  Hello  ",
		Sender: domain.SenderUser,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/inf/api/events/paper/PRP01/chat/message", gotPath)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "  Hello  ", got.Text)
	assert.Equal(t, domain.SenderUser, got.Sender)
}

func TestNon2xxCarriesServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"top-level message", `{"success":false,"message":"Chat is closed"}`, "Chat is closed"},
		{"nested error", `{"success":false,"error":{"code":"X","message":"nested reason"}}`, "nested reason"},
		{"string error", `{"error":"flat reason"}`, "flat reason"},
		{"not json", `<html>oops</html>`, "500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv, "").GetPaperChat(context.Background(), "P", "u")
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.want, Describe(err))
			assert.False(t, errors.Is(err, domain.ErrNetwork))
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = c.GetPaperChat(context.Background(), "P", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"code":200,"accessToken":"tok","user":{"uniqueId":"u1","name":"Ana"}}`, ""},
		{"ok without code", `{"accessToken":"tok","user":{"uniqueId":"u1"}}`, ""},
		{"refused", `{"code":401,"msg":"Invalid credentials"}`, "Invalid credentials"},
		{"missing token", `{"code":200,"user":{"uniqueId":"u1"}}`, ErrMissingCredentials.Error()},
		{"missing user", `{"code":200,"accessToken":"tok"}`, ErrMissingCredentials.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var got domain.LoginRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_ = json.NewDecoder(r.Body).Decode(&got)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := newTestClient(t, srv, "").Login(context.Background(), domain.LoginRequest{Email: "a@b.c", Password: "pw"})
			assert.Equal(t, "/api/auth/user/login", gotPath)
			assert.Equal(t, "a@b.c", got.Email)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, Describe(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tok", resp.AccessToken)
			assert.Equal(t, "u1", resp.User.UniqueID)
		})
	}
}

func TestRegisterPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"code":200,"accessToken":"tok","user":{"uniqueId":"u9"}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv, "").Register(context.Background(), domain.RegisterRequest{Name: "N", Email: "e@x.y", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/user/register", gotPath)
	assert.Equal(t, "u9", resp.User.UniqueID)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost:5000"})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "http://localhost:5000/"})
	assert.NoError(t, err)
}
