package api

import (
	"errors"
	"fmt"

	"vincit.fi/game-shelf/api/apitype"
)

var (
	ErrEmptyName        = errors.New("category name is empty")
	ErrSystemCategory   = errors.New("system categories cannot be modified")
	ErrNotConfirmed     = errors.New("delete was not confirmed")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateName    = errors.New("category with the same name already exists")
)

type Operation string

const (
	CreateOperation Operation = "create"
	DeleteOperation Operation = "delete"
	RenameOperation Operation = "rename"
)

// FetchError is returned when the category list could not be loaded.
type FetchError struct {
	Err error
}

func (s *FetchError) Error() string {
	return fmt.Sprintf("could not fetch categories: %s", s.Err)
}

func (s *FetchError) Unwrap() error {
	return s.Err
}

// MutationError is returned when a write failed remotely or was rejected before reaching the service.
type MutationError struct {
	Operation  Operation
	CategoryId apitype.CategoryId
	Name       string
	Err        error
	// Rejected is set when the mutation was stopped before the remote service was called.
	Rejected bool
}

func (s *MutationError) Error() string {
	if s.CategoryId != apitype.NoCategory {
		return fmt.Sprintf("could not %s category '%s' (%s): %s", s.Operation, s.Name, s.CategoryId, s.Err)
	}
	return fmt.Sprintf("could not %s category '%s': %s", s.Operation, s.Name, s.Err)
}

func (s *MutationError) Unwrap() error {
	return s.Err
}

// IsRejected tells if the mutation was stopped before the remote service was called.
// Errors returned by the service are never rejections, whatever their cause.
func (s *MutationError) IsRejected() bool {
	return s.Rejected
}
