package redis

import "errors"

var (
	ErrNoURL       = errors.New("redis: connection URL is empty")
	ErrInvalidURL  = errors.New("redis: invalid connection URL")
	ErrUnreachable = errors.New("redis: server unreachable")
	ErrUnhealthy   = errors.New("redis: ping failed")
)
