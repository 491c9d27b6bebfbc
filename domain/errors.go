package domain

import "errors"

var (
	// ErrDomainNotFound is returned by NewManager when the domain path
	// does not exist or is not a directory.
	ErrDomainNotFound = errors.New("domain: domain path not found")
	// ErrInvalidArgument covers malformed format/mode combinations and
	// out-of-range numeric creation parameters.
	ErrInvalidArgument = errors.New("domain: invalid argument")
	// ErrAlreadyExists is returned when creating a flow whose uuid is
	// already published in this domain.
	ErrAlreadyExists = errors.New("domain: flow already exists")
	// ErrNotFound is returned by Open when no published flow has the
	// requested uuid.
	ErrNotFound = errors.New("domain: flow not found")
	// ErrUnsupportedFormat is returned when creating a flow whose format
	// does not match the shape (discrete/continuous) requested.
	ErrUnsupportedFormat = errors.New("domain: format does not match requested flow shape")
)
