// Package servlet implements the service.Service interface against the
// form-encoded task and auth servlets.
package servlet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"dtask/internal/config"
	"dtask/internal/service"
)

const (
	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20

	formContentType = "application/x-www-form-urlencoded"
)

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	taskURL string
	authURL string
	timeout time.Duration
	log     *log.Logger
}

// New creates a client for the endpoints in cfg.
// When an access token is configured every request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	taskURL, err := cfg.TaskURL()
	if err != nil {
		return nil, err
	}
	authURL, err := cfg.AuthURL()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Transport: http.DefaultTransport}
	if token := strings.TrimSpace(cfg.Backend.AccessToken); token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	}

	return &Client{
		http:    httpClient,
		taskURL: taskURL,
		authURL: authURL,
		timeout: cfg.Timeout(),
		log:     cfg.Logger(),
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, taskURL, authURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		http:    httpClient,
		taskURL: taskURL,
		authURL: authURL,
		timeout: timeout,
		log:     log.New(io.Discard, "", 0),
	}
}

// envelope holds the fields the servlets use to report outcomes.
type envelope struct {
	Success  *bool  `json:"success"`
	Error    string `json:"error"`
	Message  string `json:"message"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ListTasks returns the account's tasks in server order.
// Tasks without a title are dropped.
func (c *Client) ListTasks(ctx context.Context, accountID string) ([]service.Task, error) {
	const op = "list tasks"
	if strings.TrimSpace(accountID) == "" {
		return nil, service.ErrNotLoggedIn
	}

	data, err := c.do(ctx, op, http.MethodGet, c.taskURL, url.Values{"email": {accountID}}, nil)
	if err != nil {
		return nil, err
	}

	var raw []service.Task
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidResponse(op, err)
	}

	tasks := make([]service.Task, 0, len(raw))
	for _, t := range raw {
		t = t.Normalize()
		if t.Title == "" {
			c.log.Printf("dropping task %d without title", t.ID)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateTask creates a task owned by accountID.
func (c *Client) CreateTask(ctx context.Context, title, description, accountID string) (service.Task, error) {
	const op = "create task"
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := service.ValidateNewTask(title, description, accountID); err != nil {
		return service.Task{}, err
	}

	form := url.Values{
		"title":       {title},
		"description": {description},
		"email":       {accountID},
	}
	data, err := c.do(ctx, op, http.MethodPost, c.taskURL, nil, form)
	if err != nil {
		return service.Task{}, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return service.Task{}, invalidResponse(op, err)
	}
	if msg := rejection(env); msg != "" {
		return service.Task{}, &service.TransportError{Op: op, StatusCode: http.StatusOK, Err: errors.New(msg)}
	}

	var task service.Task
	if err := json.Unmarshal(data, &task); err != nil {
		// The task exists on the server at this point; keep it without a date.
		var loose struct {
			service.Task
			CreatedDate json.RawMessage `json:"createdDate"`
		}
		if jerr := json.Unmarshal(data, &loose); jerr != nil {
			return service.Task{}, invalidResponse(op, jerr)
		}
		c.log.Printf("%s: ignoring createdDate %s: %v", op, loose.CreatedDate, err)
		task = loose.Task
	}
	// Some servlets echo only {"success":true}; keep what was sent, never invent an id.
	if task.Title == "" {
		task.Title = title
	}
	if task.Description == "" {
		task.Description = description
	}
	return task.Normalize(), nil
}

// DeleteTask deletes a task. A 404 counts as success.
func (c *Client) DeleteTask(ctx context.Context, id int64, accountID string) (service.DeleteResult, error) {
	const op = "delete task"
	if strings.TrimSpace(accountID) == "" {
		return service.DeleteResult{}, service.ErrNotLoggedIn
	}

	query := url.Values{
		"id":    {strconv.FormatInt(id, 10)},
		"email": {accountID},
	}
	data, err := c.do(ctx, op, http.MethodDelete, c.taskURL, query, nil)
	if err != nil {
		var te *service.TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
			return service.DeleteResult{Success: true}, nil
		}
		return service.DeleteResult{}, err
	}

	var result service.DeleteResult
	if err := json.Unmarshal(data, &result); err != nil {
		return service.DeleteResult{}, invalidResponse(op, err)
	}
	return result, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (service.Session, error) {
	form := url.Values{
		"action":   {"login"},
		"email":    {email},
		"password": {password},
	}
	env, err := c.auth(ctx, "login", form)
	if err != nil {
		return service.Session{}, err
	}
	if env.Success != nil && !*env.Success {
		return service.Session{}, &service.AuthError{Message: firstNonEmpty(env.Message, "invalid credentials")}
	}
	if strings.TrimSpace(env.Email) == "" {
		return service.Session{}, &service.AuthError{Message: "invalid response"}
	}
	return service.Session{Email: strings.TrimSpace(env.Email), Username: env.Username}, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, displayName, email, password string) (service.RegisterResult, error) {
	form := url.Values{
		"action":   {"register"},
		"username": {displayName},
		"email":    {email},
		"password": {password},
	}
	env, err := c.auth(ctx, "register", form)
	if err != nil {
		return service.RegisterResult{}, err
	}
	if env.Success == nil {
		return service.RegisterResult{}, &service.AuthError{Message: "invalid response"}
	}
	if !*env.Success {
		return service.RegisterResult{}, &service.AuthError{Message: firstNonEmpty(env.Message, "registration failed")}
	}

	result := service.RegisterResult{Success: true, Message: env.Message}
	if strings.TrimSpace(env.Email) != "" {
		result.Session = &service.Session{Email: strings.TrimSpace(env.Email), Username: env.Username}
	}
	return result, nil
}

// auth posts to the auth endpoint and normalizes the reply.
// Client errors carrying a message become *service.AuthError.
func (c *Client) auth(ctx context.Context, op string, form url.Values) (envelope, error) {
	data, err := c.do(ctx, op, http.MethodPost, c.authURL, nil, form)
	if err != nil {
		var te *service.TransportError
		if errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500 {
			var env envelope
			if json.Unmarshal([]byte(te.Body), &env) != nil {
				return envelope{}, &service.AuthError{Message: "invalid response"}
			}
			return envelope{}, &service.AuthError{Message: firstNonEmpty(rejection(env), "invalid credentials")}
		}
		return envelope{}, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Printf("%s: non-JSON reply: %v", op, err)
		return envelope{}, &service.AuthError{Message: "invalid response"}
	}
	if env.Error != "" {
		return envelope{}, &service.AuthError{Message: env.Error}
	}
	return env, nil
}

// do sends one request under the client timeout and returns the body of a 2xx reply.
func (c *Client) do(ctx context.Context, op, method, endpoint string, query, form url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	if form != nil {
		req.Header.Set("Content-Type", formContentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Printf("%s %s failed after %s (request %s): %v", method, endpoint, time.Since(start), reqID, err)
		return nil, wrapError(op, err)
	}
	defer res.Body.Close()
	c.log.Printf("%s %s -> %d in %s (request %s)", method, endpoint, res.StatusCode, time.Since(start), reqID)

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, wrapError(op, err)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, wrapError(op, err)
	}
	return data, nil
}

// wrapError wraps HTTP errors with user-friendly messages.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	// Check for timeout
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &service.TransportError{Op: op, Timeout: true, Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		te := &service.TransportError{Op: op, StatusCode: apiErr.Code, Body: apiErr.Body}
		var env envelope
		_ = json.Unmarshal([]byte(apiErr.Body), &env)
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			te.Err = errors.New("not authorized by backend (check access_token)")
		case http.StatusNotFound:
			te.Err = errors.New("not found")
		default:
			if msg := rejection(env); msg != "" {
				te.Err = errors.New(msg)
			}
		}
		return te
	}

	return &service.TransportError{Op: op, Err: err}
}

func invalidResponse(op string, err error) error {
	return &service.TransportError{Op: op, StatusCode: http.StatusOK, Err: fmt.Errorf("invalid response: %w", err)}
}

// rejection returns the server's complaint, if the envelope carries one.
func rejection(env envelope) string {
	if env.Error != "" {
		return env.Error
	}
	if env.Success != nil && !*env.Success {
		return firstNonEmpty(env.Message, "request rejected")
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
