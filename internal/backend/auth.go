package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is an authenticated session issued by the auth endpoint.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// tokenResponse is the GoTrue token/signup response shape.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (r tokenResponse) session() Session {
	s := Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		UserID:       r.User.ID,
	}
	if r.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return s
}

// SignUp registers a new auth user. The profile row is the caller's
// responsibility; auth only knows about credentials.
func (c *Client) SignUp(ctx context.Context, email, password string) (Session, error) {
	var resp tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, nil, "", body, &resp); err != nil {
		return Session{}, fmt.Errorf("sign up: %w", err)
	}
	return resp.session(), nil
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	var resp tokenResponse
	query := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", query, nil, "", body, &resp); err != nil {
		return Session{}, fmt.Errorf("sign in: %w", err)
	}
	return resp.session(), nil
}

// SignOut invalidates the session held by token at the provider.
func (c *Client) SignOut(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, token, nil, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// TokenSubject extracts the user id and expiry from an access token without
// verifying the signature. Verification belongs to the service; the client
// only needs the claims to restore a persisted session.
func TokenSubject(token string) (userID string, expiresAt time.Time, err error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err = parser.ParseUnverified(token, claims); err != nil {
		return "", time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token subject: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return sub, time.Time{}, nil
	}
	return sub, exp.Time, nil
}
