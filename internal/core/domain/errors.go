package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrChannelNotFound = errors.New("channel not found")
	ErrStreamNotFound  = errors.New("stream not found")
	ErrMessageNotFound = errors.New("message not found")

	ErrStreamNotLive = errors.New("stream is not live")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)
