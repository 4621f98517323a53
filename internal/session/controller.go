package session

import (
	"context"
	"regexp"
	"strings"

	"dtask/internal/service"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Controller logs users in and out and owns the active session.
type Controller struct {
	auth  service.AuthService
	store *Store
}

// NewController returns a controller that authenticates through auth
// and records the result in store.
func NewController(auth service.AuthService, store *Store) *Controller {
	return &Controller{auth: auth, store: store}
}

// RegisterRequest holds the sign-up form.
type RegisterRequest struct {
	DisplayName string
	Email       string
	Password    string
	Confirm     string
}

// Current returns the persisted session, if any.
func (c *Controller) Current() (service.Session, bool) {
	return c.store.Load()
}

// Login authenticates and persists the session.
// The email is trimmed; the password is sent exactly as given.
// On any error the stored session is left as it was.
func (c *Controller) Login(ctx context.Context, email, password string) (service.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return service.Session{}, service.Validation("credentials", "email and password required")
	}

	sess, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return service.Session{}, err
	}
	if err := c.store.Save(sess); err != nil {
		return service.Session{}, err
	}
	return sess, nil
}

// Register validates the form and creates the account.
// It does not log in.
func (c *Controller) Register(ctx context.Context, req RegisterRequest) (service.RegisterResult, error) {
	if err := ValidateRegistration(req); err != nil {
		return service.RegisterResult{}, err
	}
	return c.auth.Register(ctx,
		strings.TrimSpace(req.DisplayName),
		strings.TrimSpace(req.Email),
		req.Password)
}

// Logout forgets the session. No remote call is made.
func (c *Controller) Logout() error {
	return c.store.Clear()
}

// ValidateRegistration checks the sign-up form without any I/O.
// Password checks apply to the password as it will be sent.
func ValidateRegistration(req RegisterRequest) error {
	if strings.TrimSpace(req.DisplayName) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Password) == "" ||
		strings.TrimSpace(req.Confirm) == "" {
		return service.Validation("form", "please fill in all fields")
	}
	if len(req.Password) < MinPasswordLen {
		return service.Validation("password", "password must be at least %d characters", MinPasswordLen)
	}
	if req.Password != req.Confirm {
		return service.Validation("confirm", "passwords do not match")
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return service.Validation("email", "please enter a valid email")
	}
	return nil
}
