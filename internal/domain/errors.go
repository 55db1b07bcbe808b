package domain

import "errors"

var (
	// ErrConnectionClosed is returned when writing to a closed socket.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrNoCredentials is returned when no stored token is available.
	ErrNoCredentials = errors.New("no stored credentials")
	// ErrLoginFailed indicates the auth endpoint rejected the credentials.
	ErrLoginFailed = errors.New("login failed")
)
