package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, AnonKey: "anon-key"})
	require.NoError(t, err)
	return c
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{AnonKey: "k"})
	assert.Error(t, err)
	_, err = New(Config{BaseURL: "https://example.test"})
	assert.Error(t, err)
}

func TestQueryGetBuildsFiltersAndHeaders(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.Write([]byte(`[{"id":"l1"}]`))
	}))

	var rows []struct {
		ID string `json:"id"`
	}
	err := c.From("lessons", "user-token").
		Eq("subject", "math").
		In("id", []string{"l1", "l2"}).
		Order("created_at", true).
		Get(context.Background(), &rows)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/rest/v1/lessons", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "eq.math", q.Get("subject"))
	assert.Equal(t, "in.(l1,l2)", q.Get("id"))
	assert.Equal(t, "created_at.desc", q.Get("order"))
	assert.Equal(t, "*", q.Get("select"))
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer user-token", got.Header.Get("Authorization"))

	require.Len(t, rows, 1)
	assert.Equal(t, "l1", rows[0].ID)
}

func TestQueryAnonKeyUsedWithoutToken(t *testing.T) {
	var auth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	var rows []struct{}
	require.NoError(t, c.From("lessons", "").Get(context.Background(), &rows))
	assert.Equal(t, "Bearer anon-key", auth)
}

func TestQuerySingleNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`))
	}))

	var row struct{}
	err := c.From("student_progress", "t").Eq("id", "x").Single().Get(context.Background(), &row)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestQueryInsertPrefersRepresentation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(body)
	}))

	var out map[string]string
	err := c.From("users", "t").Insert(context.Background(), map[string]string{"id": "u1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "u1", out["id"])
}

func TestQueryUpsertConflictTarget(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.Write([]byte(`{"id":"p1"}`))
	}))

	var out struct {
		ID string `json:"id"`
	}
	err := c.From("student_progress", "t").
		Upsert(context.Background(), map[string]string{"id": "p1"}, []string{"student_id", "lesson_id"}, &out)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "student_id,lesson_id", got.URL.Query().Get("on_conflict"))
	assert.Equal(t, "resolution=merge-duplicates,return=representation", got.Header.Get("Prefer"))
	assert.Equal(t, "p1", out.ID)
}

func TestQueryUpdateSendsPatch(t *testing.T) {
	var got *http.Request
	var body map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))

	err := c.From("student_progress", "t").
		Eq("student_id", "u1").
		Eq("lesson_id", "l1").
		Update(context.Background(), map[string]string{"completion_status": "completed"})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "eq.u1", got.URL.Query().Get("student_id"))
	assert.Equal(t, "eq.l1", got.URL.Query().Get("lesson_id"))
	assert.Equal(t, "completed", body["completion_status"])
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ravi@school.example", body["email"])
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"expires_in":    3600,
			"user":          map[string]string{"id": "u1"},
		})
	}))

	s, err := c.SignIn(context.Background(), "ravi@school.example", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, "u1", s.UserID)
	assert.False(t, s.Expired())
}

func TestSignInBadCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	}))

	_, err := c.SignIn(context.Background(), "x@y.z", "nope")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestTokenSubject(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	sub, expiresAt, err := TokenSubject(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
	assert.Equal(t, exp.Unix(), expiresAt.Unix())
}

func TestTokenSubjectMalformed(t *testing.T) {
	_, _, err := TokenSubject("not-a-token")
	assert.Error(t, err)
}

func TestSessionExpired(t *testing.T) {
	assert.False(t, Session{}.Expired())
	assert.False(t, Session{ExpiresAt: time.Now().Add(time.Minute)}.Expired())
	assert.True(t, Session{ExpiresAt: time.Now().Add(-time.Minute)}.Expired())
}
