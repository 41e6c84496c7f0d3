package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPlaylistNotFound    = errors.New("playlist not found")
	ErrDestinationCreation = errors.New("destination playlist could not be created")
	ErrUnknownProvider     = errors.New("unknown provider")
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrTransferExists      = errors.New("transfer id already in use")
	ErrInvalidRequest      = errors.New("invalid request")
)

func invalidRequest(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}
