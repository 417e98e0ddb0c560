package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/openterra/tilegate/internal/model"
)

// OAuth scope required by the tiling backend.
const scope = "https://www.googleapis.com/auth/earthengine"

type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	ProjectID   string `json:"project_id"`
}

type storedToken struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
	Project      string `json:"project"`
}

// serviceAccountSource builds a JWT token source from a service-account key.
// Parse failures and a missing client_email fail before any network call.
func serviceAccountSource(ctx context.Context, raw []byte) (oauth2.TokenSource, string, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, "", fmt.Errorf("%w: service account key: %v", model.ErrInvalidCredential, err)
	}
	if key.ClientEmail == "" {
		return nil, "", fmt.Errorf("%w: service account key has no client_email", model.ErrInvalidCredential)
	}

	cfg, err := google.JWTConfigFromJSON(raw, scope)
	if err != nil {
		return nil, "", fmt.Errorf("%w: service account key: %v", model.ErrInvalidCredential, err)
	}
	return cfg.TokenSource(ctx), key.ProjectID, nil
}

// storedTokenSource reconstructs a refreshable credential from a stored
// OAuth refresh token.
func storedTokenSource(ctx context.Context, raw []byte) (oauth2.TokenSource, string, error) {
	var tok storedToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, "", fmt.Errorf("%w: stored token: %v", model.ErrInvalidCredential, err)
	}
	if tok.ClientID == "" || tok.ClientSecret == "" || tok.RefreshToken == "" {
		return nil, "", fmt.Errorf("%w: stored token needs client_id, client_secret and refresh_token", model.ErrInvalidCredential)
	}

	conf := &oauth2.Config{
		ClientID:     tok.ClientID,
		ClientSecret: tok.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{scope},
	}
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken}), tok.Project, nil
}
