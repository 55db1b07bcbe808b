// Package auth obtains and persists the credential token the session
// authenticates with.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"quiz-game-client/internal/domain"
)

// Store persists the acquired identity between runs (and between sessions
// sharing one credential set).
type Store interface {
	Get(ctx context.Context) (domain.Identity, error)
	Put(ctx context.Context, id domain.Identity) error
	Clear(ctx context.Context) error
}

// Client talks to the server's HTTP auth endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	store   Store
	logger  zerolog.Logger
	sf      singleflight.Group
}

func NewClient(baseURL string, store Store, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
		logger:  logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	} `json:"user"`
	Message string `json:"message"`
}

// Login exchanges credentials for a token and stores the identity.
// Concurrent logins for the same username collapse into one request.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	v, err, _ := c.sf.Do("login:"+username, func() (interface{}, error) {
		return c.authenticate(ctx, "/auth/login", username, password)
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return v.(domain.Identity), nil
}

// Register creates an account and stores the resulting identity.
func (c *Client) Register(ctx context.Context, username, password string) (domain.Identity, error) {
	return c.authenticate(ctx, "/auth/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (domain.Identity, error) {
	body, err := json.Marshal(credentialsRequest{Username: username, Password: password})
	if err != nil {
		return domain.Identity{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	var parsed authResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.Identity{}, fmt.Errorf("decode auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Token == "" {
		c.logger.Warn().Int("status", resp.StatusCode).Str("message", parsed.Message).Msg("auth rejected")
		return domain.Identity{}, fmt.Errorf("%w: %s", domain.ErrLoginFailed, parsed.Message)
	}

	id := domain.Identity{
		Token:       parsed.Token,
		UserID:      parsed.User.ID,
		DisplayName: parsed.User.Username,
	}
	if err := c.store.Put(ctx, id); err != nil {
		return domain.Identity{}, fmt.Errorf("store identity: %w", err)
	}
	c.logger.Info().Str("user_id", id.UserID).Msg("logged in")
	return id, nil
}

// Stored returns the previously persisted identity, if any.
func (c *Client) Stored(ctx context.Context) (domain.Identity, error) {
	return c.store.Get(ctx)
}
