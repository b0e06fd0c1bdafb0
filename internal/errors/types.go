package errors

import "errors"

var (
	ErrInvalidArguments      = errors.New("invalid arguments")
	ErrTemplateNotFound      = errors.New("kit template not found")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrInvalidTemplate       = errors.New("invalid kit template")
	ErrInvalidPlayer         = errors.New("invalid player")
	ErrStorage               = errors.New("storage operation failed")
	ErrCatalogueCorrupt      = errors.New("kit catalogue is corrupt")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrDisabled              = errors.New("kit extension is disabled")
	ErrAuthentication        = errors.New("authentication failed")
	ErrAuthorization         = errors.New("authorization failed")
)
