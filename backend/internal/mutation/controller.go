package mutation

import (
	"context"
	"errors"
	"strings"

	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/common/logger"
)

// Controller validates writes, sends them to the service and refreshes the collection once
// the service has acknowledged them. The collection is never patched locally.
type Controller struct {
	service    api.CategoryService
	collection api.CategoryCollection
	sender     api.Sender
}

func NewController(service api.CategoryService, collection api.CategoryCollection, sender api.Sender) *Controller {
	return &Controller{
		service:    service,
		collection: collection,
		sender:     sender,
	}
}

func (s *Controller) Create(ctx context.Context, name string) (*api.MutationResult, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, rejected(api.CreateOperation, nil, name, api.ErrEmptyName)
	}

	category, err := s.service.CreateCategory(ctx, trimmed)
	if err != nil {
		return nil, s.failed(api.CreateOperation, nil, trimmed, err)
	}

	logger.Info.Printf("Created category '%s' (%s)", category.Name(), category.Id())
	return s.completed(ctx, api.CategoryCreated, api.CreateOperation, category), nil
}

func (s *Controller) Delete(ctx context.Context, category *apitype.Category, confirmed bool) (*api.MutationResult, error) {
	if category == nil {
		return nil, rejected(api.DeleteOperation, nil, "", api.ErrCategoryNotFound)
	} else if category.IsSystem() {
		return nil, rejected(api.DeleteOperation, category, category.Name(), api.ErrSystemCategory)
	} else if !confirmed {
		return nil, rejected(api.DeleteOperation, category, category.Name(), api.ErrNotConfirmed)
	}

	if err := s.service.DeleteCategory(ctx, category.Id()); err != nil {
		return nil, s.failed(api.DeleteOperation, category, category.Name(), err)
	}

	logger.Info.Printf("Deleted category '%s' (%s)", category.Name(), category.Id())
	result := s.completed(ctx, api.CategoryDeleted, api.DeleteOperation, category)
	result.Category = nil
	return result, nil
}

func (s *Controller) Rename(ctx context.Context, category *apitype.Category, name string) (*api.MutationResult, error) {
	trimmed := strings.TrimSpace(name)
	if category == nil {
		return nil, rejected(api.RenameOperation, nil, trimmed, api.ErrCategoryNotFound)
	} else if category.IsSystem() {
		return nil, rejected(api.RenameOperation, category, category.Name(), api.ErrSystemCategory)
	} else if trimmed == "" {
		return nil, rejected(api.RenameOperation, category, category.Name(), api.ErrEmptyName)
	}

	renamed, err := s.service.RenameCategory(ctx, category.Id(), trimmed)
	if err != nil {
		return nil, s.failed(api.RenameOperation, category, category.Name(), err)
	}

	logger.Info.Printf("Renamed category '%s' to '%s'", category.Name(), renamed.Name())
	return s.completed(ctx, api.CategoryRenamed, api.RenameOperation, renamed), nil
}

// completed refreshes after an acknowledged write. A failing refresh doesn't undo the write;
// it is returned in the result so the caller knows the list is stale.
func (s *Controller) completed(ctx context.Context, topic api.Topic, operation api.Operation, category *apitype.Category) *api.MutationResult {
	result := &api.MutationResult{Category: category}
	if err := s.collection.Refresh(ctx); err != nil {
		logger.Warn.Printf("Category %s succeeded but refresh failed: %s", operation, err)
		result.RefreshError = err
	}

	s.sender.SendCommandToTopic(topic, &api.CategoryChangedCommand{
		Operation: operation,
		Category:  category,
	})
	return result
}

func (s *Controller) failed(operation api.Operation, category *apitype.Category, name string, err error) error {
	mutationErr := newMutationError(operation, category, name, err)
	s.sender.SendError("Could not "+string(operation)+" category", mutationErr)
	return mutationErr
}

func rejected(operation api.Operation, category *apitype.Category, name string, err error) error {
	mutationErr := newMutationError(operation, category, name, err)
	mutationErr.Rejected = true
	if errors.Is(err, api.ErrNotConfirmed) {
		logger.Debug.Printf("Category %s cancelled: %s", operation, name)
	} else {
		logger.Warn.Printf("Rejected: %s", mutationErr)
	}
	return mutationErr
}

func newMutationError(operation api.Operation, category *apitype.Category, name string, err error) *api.MutationError {
	mutationErr := &api.MutationError{
		Operation: operation,
		Name:      name,
		Err:       err,
	}
	if category != nil {
		mutationErr.CategoryId = category.Id()
	}
	return mutationErr
}
