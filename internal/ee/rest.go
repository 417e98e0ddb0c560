package ee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openterra/tilegate/internal/model"
	"github.com/openterra/tilegate/internal/observability"
)

// Asset ids without an explicit project resolve against the public catalog.
const publicAssetPrefix = "projects/earthengine-public/assets/"

// Project used for map registration when none is configured.
const defaultProject = "earthengine-legacy"

// TokenSource supplies bearer tokens for backend calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the REST implementation of Backend.
type Client struct {
	logger  *slog.Logger
	http    *http.Client
	baseURL string
	project string
	tokens  TokenSource
}

func NewClient(logger *slog.Logger, httpClient *http.Client, baseURL, project string, tokens TokenSource) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if project == "" {
		project = defaultProject
	}
	return &Client{
		logger:  logger,
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		project: project,
		tokens:  tokens,
	}
}

func assetName(assetID string) string {
	if strings.HasPrefix(assetID, "projects/") {
		return assetID
	}
	return publicAssetPrefix + assetID
}

func (c *Client) LookupType(ctx context.Context, assetID string) (AssetType, error) {
	u := c.baseURL + "/" + assetName(assetID)

	start := time.Now()
	status, body, err := c.do(ctx, http.MethodGet, u, nil)
	observability.ObserveUpstreamLatency("catalog", time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("catalog lookup: %w", err)
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", model.ErrNotFound, assetID)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("catalog status %d: %s", status, trimBody(body))
	}

	var asset struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &asset); err != nil {
		return "", fmt.Errorf("decode catalog response: %w", err)
	}
	if asset.Type == "" {
		return "", fmt.Errorf("catalog response for %s has no type", assetID)
	}
	return AssetType(asset.Type), nil
}

func (c *Client) TileTemplate(ctx context.Context, h Handle, vis model.VisParams) (string, error) {
	reqBody := map[string]any{
		"expression": h.Expression(),
		"fileFormat": "PNG",
	}
	if len(vis) > 0 {
		reqBody["visualization"] = vis
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode map request: %w", err)
	}

	u := c.baseURL + "/projects/" + c.project + "/maps"

	start := time.Now()
	status, body, err := c.do(ctx, http.MethodPost, u, payload)
	observability.ObserveUpstreamLatency("maps", time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("register map: %w", err)
	}
	if status < 200 || status >= 300 {
		// Surface the backend's rejection message verbatim.
		return "", fmt.Errorf("%w: %s", model.ErrFormat, backendMessage(body, status))
	}

	var m struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return "", fmt.Errorf("decode map response: %w", err)
	}
	if m.Name == "" {
		return "", fmt.Errorf("map response has no name")
	}

	c.logger.Debug("map registered", "name", m.Name, "kind", h.Kind().String())
	return c.baseURL + "/" + m.Name + "/tiles/{z}/{x}/{y}", nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) (int, []byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}

// backendMessage extracts the error message from a google-style error body,
// falling back to the raw body.
func backendMessage(body []byte, status int) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if s := trimBody(body); s != "" {
		return s
	}
	return fmt.Sprintf("backend status %d", status)
}
