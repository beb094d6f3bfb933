package api

import (
	"context"
	"net/http"

	"github.com/ascendhq/ascend-console-go/internal/domain"
)

// Auth endpoints (cookie-based sessions). Login sets the session
// cookie on the shared jar; every later call carries it.

type signupWire struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type loginWire struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account. It does not establish a session; callers
// log in afterwards.
func (c *Client) Signup(ctx context.Context, form domain.SignupForm) error {
	body := signupWire{Email: form.Email, Password: form.Password, Name: form.Name}
	return c.do(ctx, "Signup", http.MethodPost, "/api/auth/signup", body, nil)
}

// Login establishes the cookie session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) error {
	body := loginWire{Email: creds.Email, Password: creds.Password}
	return c.do(ctx, "Login", http.MethodPost, "/api/auth/login", body, nil)
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "Logout", http.MethodPost, "/api/auth/logout", nil, nil)
}
