package mutation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/backend/internal/collection"
)

type MockSender struct {
	api.Sender
	mock.Mock
}

func (s *MockSender) SendToTopic(topic api.Topic) {
	s.Called(topic)
}

func (s *MockSender) SendCommandToTopic(topic api.Topic, command apitype.Command) {
	s.Called(topic, command)
}

func (s *MockSender) SendError(message string, err error) {
	s.Called(message, err)
}

type MockCategoryService struct {
	mock.Mock
}

func (s *MockCategoryService) ListCategories(ctx context.Context) ([]*apitype.Category, error) {
	args := s.Called(ctx)
	categories, _ := args.Get(0).([]*apitype.Category)
	return categories, args.Error(1)
}

func (s *MockCategoryService) CreateCategory(ctx context.Context, name string) (*apitype.Category, error) {
	args := s.Called(ctx, name)
	category, _ := args.Get(0).(*apitype.Category)
	return category, args.Error(1)
}

func (s *MockCategoryService) DeleteCategory(ctx context.Context, id apitype.CategoryId) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

func (s *MockCategoryService) RenameCategory(ctx context.Context, id apitype.CategoryId, name string) (*apitype.Category, error) {
	args := s.Called(ctx, id, name)
	category, _ := args.Get(0).(*apitype.Category)
	return category, args.Error(1)
}

var (
	favorites = apitype.NewPersistedCategory("fav", "Favorites", true, 4, "2024-01-01", "2024-01-01")
	racing    = apitype.NewPersistedCategory("rac", "Racing", false, 2, "2024-01-02", "2024-01-02")
	folder    = apitype.NewPersistedCategory("new", "New Folder", false, 0, "2024-01-03", "2024-01-03")
)

type fixture struct {
	service    *MockCategoryService
	sender     *MockSender
	collection *collection.Store
	sut        *Controller
}

// initSUT returns a controller whose collection already holds the given snapshot.
func initSUT(t *testing.T, initial []*apitype.Category) *fixture {
	ctx := context.Background()
	service := new(MockCategoryService)
	sender := new(MockSender)
	sender.On("SendCommandToTopic", mock.Anything, mock.Anything).Return()
	sender.On("SendError", mock.Anything, mock.Anything).Return()

	store := collection.NewStore(service, sender)
	service.On("ListCategories", ctx).Return(initial, nil).Once()
	assert.Nil(t, store.Refresh(ctx))

	return &fixture{
		service:    service,
		sender:     sender,
		collection: store,
		sut:        NewController(service, store, sender),
	}
}

func TestController_Create(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	t.Run("Blank names never reach the service", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})

		for _, name := range []string{"", "   ", "\t\n"} {
			result, err := f.sut.Create(ctx, name)
			a.Nil(result)
			var mutationErr *api.MutationError
			if a.ErrorAs(err, &mutationErr) {
				a.Equal(api.CreateOperation, mutationErr.Operation)
				a.True(mutationErr.IsRejected())
			}
			a.ErrorIs(err, api.ErrEmptyName)
		}

		f.service.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
		f.service.AssertNumberOfCalls(t, "ListCategories", 1)
	})

	t.Run("Success refreshes", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})
		f.service.On("CreateCategory", ctx, "New Folder").Return(folder, nil).Once()
		f.service.On("ListCategories", ctx).Return([]*apitype.Category{racing, folder}, nil).Once()

		result, err := f.sut.Create(ctx, "  New Folder  ")

		if a.Nil(err) && a.NotNil(result) {
			a.Equal(folder, result.Category)
			a.False(result.IsStale())
		}
		a.Equal([]*apitype.Category{racing, folder}, f.collection.CurrentSnapshot())
		f.sender.AssertCalled(t, "SendCommandToTopic", api.CategoryCreated, &api.CategoryChangedCommand{
			Operation: api.CreateOperation,
			Category:  folder,
		})
		f.service.AssertExpectations(t)
	})

	t.Run("Success with failing refresh", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})
		f.service.On("CreateCategory", ctx, "New Folder").Return(folder, nil).Once()
		f.service.On("ListCategories", ctx).Return(nil, errors.New("timeout")).Once()

		result, err := f.sut.Create(ctx, "New Folder")

		if a.Nil(err) && a.NotNil(result) {
			a.Equal(folder, result.Category)
			a.True(result.IsStale())
			var fetchErr *api.FetchError
			a.ErrorAs(result.RefreshError, &fetchErr)
		}
		a.Equal([]*apitype.Category{racing}, f.collection.CurrentSnapshot())
		a.True(f.collection.IsStale())
	})

	t.Run("Service failure", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})
		cause := errors.New("server error")
		f.service.On("CreateCategory", ctx, "Racing").Return(nil, cause).Once()

		result, err := f.sut.Create(ctx, "Racing")

		a.Nil(result)
		a.ErrorIs(err, cause)
		var mutationErr *api.MutationError
		if a.ErrorAs(err, &mutationErr) {
			a.False(mutationErr.IsRejected())
			a.Equal("Racing", mutationErr.Name)
		}
		a.Equal([]*apitype.Category{racing}, f.collection.CurrentSnapshot())
		f.service.AssertNumberOfCalls(t, "ListCategories", 1)
		f.sender.AssertCalled(t, "SendError", "Could not create category", err)
	})
}

func TestController_Delete(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	t.Run("System category never reaches the service", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{favorites, racing})

		result, err := f.sut.Delete(ctx, favorites, true)

		a.Nil(result)
		a.ErrorIs(err, api.ErrSystemCategory)
		var mutationErr *api.MutationError
		if a.ErrorAs(err, &mutationErr) {
			a.True(mutationErr.IsRejected())
		}
		f.service.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
		a.Equal([]*apitype.Category{favorites, racing}, f.collection.CurrentSnapshot())
	})

	t.Run("Not confirmed", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{favorites, racing})

		result, err := f.sut.Delete(ctx, racing, false)

		a.Nil(result)
		a.ErrorIs(err, api.ErrNotConfirmed)
		f.service.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
		a.Equal([]*apitype.Category{favorites, racing}, f.collection.CurrentSnapshot())
	})

	t.Run("Nil category", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})

		_, err := f.sut.Delete(ctx, nil, true)

		a.ErrorIs(err, api.ErrCategoryNotFound)
		f.service.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
	})

	t.Run("Success refreshes", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{favorites, racing})
		f.service.On("DeleteCategory", ctx, racing.Id()).Return(nil).Once()
		f.service.On("ListCategories", ctx).Return([]*apitype.Category{favorites}, nil).Once()

		result, err := f.sut.Delete(ctx, racing, true)

		if a.Nil(err) && a.NotNil(result) {
			a.Nil(result.Category)
			a.False(result.IsStale())
		}
		a.Equal([]*apitype.Category{favorites}, f.collection.CurrentSnapshot())
		f.sender.AssertCalled(t, "SendCommandToTopic", api.CategoryDeleted, mock.Anything)
	})

	t.Run("Service failure keeps the category", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{favorites, racing})
		f.service.On("DeleteCategory", ctx, racing.Id()).Return(api.ErrCategoryNotFound).Once()

		result, err := f.sut.Delete(ctx, racing, true)

		a.Nil(result)
		a.ErrorIs(err, api.ErrCategoryNotFound)
		var mutationErr *api.MutationError
		if a.ErrorAs(err, &mutationErr) {
			a.Equal(racing.Id(), mutationErr.CategoryId)
			a.Equal(api.DeleteOperation, mutationErr.Operation)
		}
		a.Equal([]*apitype.Category{favorites, racing}, f.collection.CurrentSnapshot())
		f.service.AssertNumberOfCalls(t, "ListCategories", 1)
	})
	t.Run("System category reported by the service is not a rejection", func(t *testing.T) {
		// The snapshot still shows the category as a regular one.
		f := initSUT(t, []*apitype.Category{racing})
		f.service.On("DeleteCategory", ctx, racing.Id()).Return(api.ErrSystemCategory).Once()

		_, err := f.sut.Delete(ctx, racing, true)

		a.ErrorIs(err, api.ErrSystemCategory)
		var mutationErr *api.MutationError
		if a.ErrorAs(err, &mutationErr) {
			a.False(mutationErr.IsRejected())
		}
		f.sender.AssertCalled(t, "SendError", "Could not delete category", err)
	})
}

func TestController_Rename(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	t.Run("System category never reaches the service", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{favorites})

		_, err := f.sut.Rename(ctx, favorites, "Loved")

		a.ErrorIs(err, api.ErrSystemCategory)
		f.service.AssertNotCalled(t, "RenameCategory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Blank name never reaches the service", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})

		_, err := f.sut.Rename(ctx, racing, "  ")

		a.ErrorIs(err, api.ErrEmptyName)
		var mutationErr *api.MutationError
		if a.ErrorAs(err, &mutationErr) {
			a.True(mutationErr.IsRejected())
		}
		f.service.AssertNotCalled(t, "RenameCategory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success refreshes", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})
		driving := racing.Renamed("Driving", "2024-02-01")
		f.service.On("RenameCategory", ctx, racing.Id(), "Driving").Return(driving, nil).Once()
		f.service.On("ListCategories", ctx).Return([]*apitype.Category{driving}, nil).Once()

		result, err := f.sut.Rename(ctx, racing, " Driving")

		if a.Nil(err) && a.NotNil(result) {
			a.Equal(driving, result.Category)
		}
		a.Equal([]*apitype.Category{driving}, f.collection.CurrentSnapshot())
	})

	t.Run("Blank name reported by the service is not a rejection", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})
		f.service.On("RenameCategory", ctx, racing.Id(), "Driving").Return(nil, api.ErrEmptyName).Once()

		_, err := f.sut.Rename(ctx, racing, "Driving")

		var mutationErr *api.MutationError
		if a.ErrorAs(err, &mutationErr) {
			a.False(mutationErr.IsRejected())
		}
	})

	t.Run("Service failure", func(t *testing.T) {
		f := initSUT(t, []*apitype.Category{racing})
		f.service.On("RenameCategory", ctx, racing.Id(), "Puzzle").Return(nil, api.ErrDuplicateName).Once()

		_, err := f.sut.Rename(ctx, racing, "Puzzle")

		a.ErrorIs(err, api.ErrDuplicateName)
		var mutationErr *api.MutationError
		if a.ErrorAs(err, &mutationErr) {
			a.False(mutationErr.IsRejected())
		}
		a.Equal([]*apitype.Category{racing}, f.collection.CurrentSnapshot())
	})
}
