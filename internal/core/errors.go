package core

import "errors"

// ErrUnauthorized is the single answer for every relay authentication miss:
// unknown tenant, wrong api key, or inactive tenant. Callers must not be able
// to tell which.
var ErrUnauthorized = errors.New("invalid API key or tenant")

// ErrNotFound reports a missing row where the caller asked for a specific
// tenant or log entry.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken rejects registration with an already registered email.
var ErrEmailTaken = errors.New("email already registered")
