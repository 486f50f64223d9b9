package domain

import "errors"

var (
	ErrContentRequired     = errors.New("content is required")
	ErrNoContent           = errors.New("no article content provided")
	ErrTextTooShort        = errors.New("article text too short for meaningful analysis")
	ErrRemoteNotConfigured = errors.New("remote judge not configured")
	ErrUnparsableResponse  = errors.New("unparsable response")
	ErrEmptyResponse       = errors.New("empty response from model")
	ErrPromptBlocked       = errors.New("prompt blocked by safety filter")
	ErrClassifierFault     = errors.New("local classifier fault")
)
