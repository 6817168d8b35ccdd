package controllers

import "errors"

var (
	ErrMissingUserID    = errors.New("missing userId")
	ErrMissingStreamIDs = errors.New("missing userId or conversationId")
	ErrInvalidRole      = errors.New("message role must be user or assistant")
	ErrNoFile           = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("file too large")
	ErrAuthDisabled     = errors.New("token issuing is disabled")
)
