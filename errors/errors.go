package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrMissingSessionID     = fmt.Errorf("missing session identifier")
	ErrInvitationNotFound   = fmt.Errorf("invitation not found")
	ErrInvitationNotPending = fmt.Errorf("invitation is no longer pending")
	ErrDuplicateInvitation  = fmt.Errorf("invitation identifier already exists")
	ErrMalformedFrame       = fmt.Errorf("malformed frame")
	ErrNotAuthenticated     = fmt.Errorf("connection is not authenticated")
	ErrOnlyCensoredFiles    = fmt.Errorf("censored directory contains directories")
	ErrEmptyWords           = fmt.Errorf("no words have been found")
)
