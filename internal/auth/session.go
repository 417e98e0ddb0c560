// Package auth resolves a backend credential and holds the process-wide
// session used to authorize catalog and map calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2"

	"github.com/openterra/tilegate/internal/config"
	"github.com/openterra/tilegate/internal/model"
)

// Session is established once at startup and read-only afterwards. Initialize
// is guarded so concurrent first calls resolve the credential exactly once
// and reuse the outcome.
type Session struct {
	logger         *slog.Logger
	tokenEnv       string
	defaultProject string

	mu          sync.Mutex
	initialized bool
	tokens      oauth2.TokenSource
	project     string
}

func NewSession(logger *slog.Logger, tokenEnv, defaultProject string) *Session {
	if tokenEnv == "" {
		tokenEnv = config.DefaultTokenEnv
	}
	return &Session{
		logger:         logger,
		tokenEnv:       tokenEnv,
		defaultProject: defaultProject,
	}
}

// Initialize resolves a credential, first match wins: a service-account key
// under the fixed env var, then a stored refresh token under the configured
// env var. Idempotent; returns immediately once a session exists.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if raw := os.Getenv(config.ServiceAccountEnv); raw != "" {
		ts, project, err := serviceAccountSource(ctx, []byte(raw))
		if err != nil {
			return err
		}
		s.adopt(ts, project)
		s.logger.Info("session established", "credential", "service_account", "project", s.project)
		return nil
	}

	if raw := os.Getenv(s.tokenEnv); raw != "" {
		ts, project, err := storedTokenSource(ctx, []byte(raw))
		if err != nil {
			return err
		}
		s.adopt(ts, project)
		s.logger.Info("session established", "credential", "stored_token", "project", s.project)
		return nil
	}

	return fmt.Errorf("%w: no credential found (set %s or %s)",
		model.ErrInvalidCredential, config.ServiceAccountEnv, s.tokenEnv)
}

func (s *Session) adopt(ts oauth2.TokenSource, project string) {
	if project == "" {
		project = s.defaultProject
	}
	s.tokens = oauth2.ReuseTokenSource(nil, ts)
	s.project = project
	s.initialized = true
}

// Token returns a bearer token for the backend.
func (s *Session) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	ts := s.tokens
	s.mu.Unlock()

	if ts == nil {
		return "", errors.New("session not initialized")
	}
	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	return tok.AccessToken, nil
}

// Project returns the project the session resolved for map registration.
// Empty until initialized (and when no project was configured or stored).
func (s *Session) Project() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// Ready reports whether the session has been established; backs /readyz.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
