package services

import "errors"

// Sentinel errors returned by the services and mapped onto HTTP statuses by
// the handlers.
var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPostType    = errors.New("post type must be one of: news, event, blog")
)
