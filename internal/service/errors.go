package service

import (
	"fmt"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id int64, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %d not found", resourceType, id)}
}

func NewErrJobNotFound(id int64) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "analysis job")
}

func NewErrNotificationNotFound(id int64) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "notification")
}

type ErrPermissionDenied struct {
	error
}

func NewErrPermissionDenied(message string) *ErrPermissionDenied {
	return &ErrPermissionDenied{fmt.Errorf("permission denied: %s", message)}
}

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("bad request: %s", message)}
}

// ErrQueueUnavailable is returned when a job could not be handed to the
// worker pool. The job row stays PENDING and can be retried.
type ErrQueueUnavailable struct {
	error
}

func NewErrQueueUnavailable(jobID int64, cause error) *ErrQueueUnavailable {
	return &ErrQueueUnavailable{fmt.Errorf("failed to dispatch job %d: %w", jobID, cause)}
}

type ErrEmailTaken struct {
	error
}

func NewErrEmailTaken(email string) *ErrEmailTaken {
	return &ErrEmailTaken{fmt.Errorf("email %s is already registered", email)}
}

// ErrPushTokenTaken is returned when a push token is already bound to a
// different account. Tokens identify a device and stay unique.
type ErrPushTokenTaken struct {
	error
}

func NewErrPushTokenTaken() *ErrPushTokenTaken {
	return &ErrPushTokenTaken{fmt.Errorf("push token is already registered to another account")}
}

type ErrInvalidCredentials struct {
	error
}

func NewErrInvalidCredentials() *ErrInvalidCredentials {
	return &ErrInvalidCredentials{fmt.Errorf("invalid email or password")}
}
