package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
)

// =====================================================
// SESSION
// =====================================================

// Session holds the bearer token attached to every request.
// Token storage and refresh belong to the embedding application.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *response.LoginUser
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the user of the last successful login, if any.
func (s *Session) User() *response.LoginUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) set(token string, user *response.LoginUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// =====================================================
// CLIENT
// =====================================================

// Config configures a Client.
type Config struct {
	BaseURL    string        // e.g. http://localhost:8080/api
	Timeout    time.Duration // default 30s
	HTTPClient *http.Client  // overrides Timeout when set
	Session    *Session
	Logger     *zerolog.Logger
}

// Client is a typed wrapper over the CMS REST API. Payloads must already have
// passed form validation. Failures are returned as *apperr.Error and never
// retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	log        zerolog.Logger
}

// PageQuery selects one page of a paginated list, plus optional filters.
type PageQuery struct {
	Page    int
	PerPage int
	Filters map[string]string
}

// Values renders the query string.
func (q PageQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	session := cfg.Session
	if session == nil {
		session = NewSession("")
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		session:    session,
		log:        log.With().Str("component", "client").Logger(),
	}
	if cfg.Logger != nil {
		c.log = *cfg.Logger
	}
	return c, nil
}

// Session returns the session whose token the client attaches.
func (c *Client) Session() *Session {
	return c.session
}

// =====================================================
// RESOURCE OPERATIONS
// =====================================================

// List decodes GET {path} into out (a pointer to a slice).
func (c *Client) List(ctx context.Context, path string, out any) (*response.Meta, error) {
	return c.do(ctx, "list "+path, http.MethodGet, path, nil, nil, out)
}

// ListPage decodes one page of GET {path}?page=..&per_page=.. into out.
func (c *Client) ListPage(ctx context.Context, path string, q PageQuery, out any) (*response.Meta, error) {
	return c.do(ctx, "list "+path, http.MethodGet, path, q.Values(), nil, out)
}

// Get decodes GET {path}/{id} into out.
func (c *Client) Get(ctx context.Context, path string, id int64, out any) error {
	_, err := c.do(ctx, "get "+path, http.MethodGet, itemPath(path, id), nil, nil, out)
	return err
}

// Create posts payload to {path} and decodes the stored record into out.
func (c *Client) Create(ctx context.Context, path string, payload, out any) error {
	_, err := c.do(ctx, "create "+path, http.MethodPost, path, nil, payload, out)
	return err
}

// Update puts payload to {path}/{id} and decodes the stored record into out.
func (c *Client) Update(ctx context.Context, path string, id int64, payload, out any) error {
	_, err := c.do(ctx, "update "+path, http.MethodPut, itemPath(path, id), nil, payload, out)
	return err
}

// Remove deletes {path}/{id}.
func (c *Client) Remove(ctx context.Context, path string, id int64) error {
	_, err := c.do(ctx, "delete "+path, http.MethodDelete, itemPath(path, id), nil, nil, nil)
	return err
}

// GetContent decodes a content singleton (GET {path}, no id) into out.
func (c *Client) GetContent(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, "get "+path, http.MethodGet, path, nil, nil, out)
	return err
}

// UpdateContent puts a content singleton (PUT {path}, no id).
func (c *Client) UpdateContent(ctx context.Context, path string, payload, out any) error {
	_, err := c.do(ctx, "update "+path, http.MethodPut, path, nil, payload, out)
	return err
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, username, password string) (*response.LoginResponse, error) {
	const op = "login"
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", nil, bytes.NewReader(body))
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	raw, status, err := c.send(req, op)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, errorFromBody(op, status, raw)
	}

	var resp response.LoginResponse
	if err := json.Unmarshal(raw, &resp); err != nil || !resp.Success || resp.Token == "" {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Status: status, Message: "unexpected login response", Err: err}
	}

	c.session.set(resp.Token, &resp.User)
	c.log.Info().Str("username", resp.User.Username).Str("role", resp.User.Role).Msg("logged in")
	return &resp, nil
}

func itemPath(path string, id int64) string {
	return strings.TrimRight(path, "/") + "/" + strconv.FormatInt(id, 10)
}

// =====================================================
// TRANSPORT
// =====================================================

// envelope is the decode side of response.Response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   bool            `json:"error"`
	Code    string          `json:"code"`
	Meta    *response.Meta  `json:"meta"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send performs the request and reads the body. Transport failures become
// connectivity errors.
func (c *Client) send(req *http.Request, op string) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Str("url", req.URL.String()).Msg("request failed")
		return nil, 0, &apperr.Error{Kind: apperr.ErrConnectivity, Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &apperr.Error{Kind: apperr.ErrConnectivity, Op: op, Status: resp.StatusCode, Err: err}
	}

	c.log.Debug().
		Str("request_id", req.Header.Get("X-Request-ID")).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")
	return raw, resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload, out any) (*response.Meta, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Message: "payload is not JSON encodable", Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, status, err := c.send(req, op)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, errorFromBody(op, status, raw)
	}
	if status == http.StatusNoContent || out == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Status: status, Message: "response is not a JSON envelope", Err: err}
	}
	if !env.Success || env.Error {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Status: status, Code: env.Code, Message: firstNonEmpty(env.Message, "request reported failure")}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Status: status, Message: "response has no data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Status: status, Message: "unexpected data shape", Err: err}
	}
	return env.Meta, nil
}

// errorFromBody maps a non-2xx response to its error kind, keeping the
// backend's message and code when the body is an envelope.
func errorFromBody(op string, status int, raw []byte) *apperr.Error {
	e := &apperr.Error{Kind: apperr.FromStatus(status), Op: op, Status: status}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		e.Message = env.Message
		e.Code = env.Code
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
