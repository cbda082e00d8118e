package crud

import "errors"

var (
	ErrNoSession = errors.New("no add/edit dialog is open")
	ErrInFlight  = errors.New("request already in flight")
)
