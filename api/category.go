package api

import (
	"context"

	"vincit.fi/game-shelf/api/apitype"
)

// CategoryService is the remote source of truth for categories.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*apitype.Category, error)
	CreateCategory(ctx context.Context, name string) (*apitype.Category, error)
	DeleteCategory(ctx context.Context, id apitype.CategoryId) error
	RenameCategory(ctx context.Context, id apitype.CategoryId, name string) (*apitype.Category, error)
}

type CollectionState int

const (
	Uninitialized CollectionState = iota
	Loading
	Ready
)

func (s CollectionState) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	}
	return "Unknown"
}

// CategoryCollection holds the last snapshot fetched from the CategoryService.
type CategoryCollection interface {
	Refresh(ctx context.Context) error
	CurrentSnapshot() []*apitype.Category
	State() CollectionState
	IsStale() bool
}

type MutationResult struct {
	// Category is the created or renamed category. Nil for deletes.
	Category *apitype.Category
	// RefreshError is set when the mutation succeeded but the following refresh did not.
	RefreshError error
}

func (s *MutationResult) IsStale() bool {
	return s.RefreshError != nil
}

// CategoryMutator runs user initiated writes and resynchronizes the collection afterwards.
type CategoryMutator interface {
	Create(ctx context.Context, name string) (*MutationResult, error)
	Delete(ctx context.Context, category *apitype.Category, confirmed bool) (*MutationResult, error)
	Rename(ctx context.Context, category *apitype.Category, name string) (*MutationResult, error)
}

type CategorySeed struct {
	Name     string
	IsSystem bool
	Games    []string
}

type UpdateCategoriesCommand struct {
	Categories []*apitype.Category
}

type CategoryChangedCommand struct {
	Operation Operation
	Category  *apitype.Category
}
