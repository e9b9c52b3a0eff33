package domain

import "errors"

var (
	ErrPromptNotFound     = errors.New("prompt not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrVoteCapExceeded    = errors.New("vote cap exceeded for this prompt")
	ErrVotingClosed       = errors.New("voting has ended for this prompt")
	ErrPromptClosed       = errors.New("prompt is archived")
	ErrWrongPassword      = errors.New("incorrect prompt password")
	ErrSecretMismatch     = errors.New("incorrect secret phrase for this username")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrAlreadyClaimed     = errors.New("device is already bound to a username")
	ErrPermissionDenied   = errors.New("store permission denied")
	ErrUnavailable        = errors.New("store unavailable")
)
