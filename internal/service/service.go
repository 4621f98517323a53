// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All servlet calls go through this interface.
// Commands never build HTTP requests directly.
type Service interface {
	TaskService
	AuthService
}

// TaskService covers the task endpoint.
type TaskService interface {
	// ListTasks returns the account's tasks in server order.
	ListTasks(ctx context.Context, accountID string) ([]Task, error)

	// CreateTask creates a task owned by accountID.
	// The server assigns ID and CreatedDate.
	CreateTask(ctx context.Context, title, description, accountID string) (Task, error)

	// DeleteTask deletes a task. Deleting an unknown id is a success.
	DeleteTask(ctx context.Context, id int64, accountID string) (DeleteResult, error)
}

// AuthService covers the auth endpoint.
type AuthService interface {
	// Login returns the session for valid credentials, or an *AuthError.
	Login(ctx context.Context, email, password string) (Session, error)

	// Register creates an account. It does not log in.
	Register(ctx context.Context, displayName, email, password string) (RegisterResult, error)
}
