package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/backend/internal/database"
	"vincit.fi/game-shelf/common/constants"
	"vincit.fi/game-shelf/common/logger"
)

// Service is the backing implementation of api.CategoryService on top of the local database.
type Service struct {
	categoryStore *database.CategoryStore
	gameStore     *database.GameStore
	now           func() time.Time
	newId         func() apitype.CategoryId
}

// Parse reads a command line category in format <name> or <name>:system.
func Parse(value string) (name string, isSystem bool) {
	parts := strings.Split(value, ":")

	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		isSystem = strings.EqualFold(strings.TrimSpace(parts[1]), constants.SystemCategoryFlag)
	}
	return
}

func NewCategoryService(categoryStore *database.CategoryStore, gameStore *database.GameStore) *Service {
	return &Service{
		categoryStore: categoryStore,
		gameStore:     gameStore,
		now:           time.Now,
		newId: func() apitype.CategoryId {
			return apitype.CategoryId(uuid.NewString())
		},
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]*apitype.Category, error) {
	return s.categoryStore.GetCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*apitype.Category, error) {
	return s.addCategory(ctx, name, false)
}

func (s *Service) addCategory(ctx context.Context, name string, isSystem bool) (*apitype.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, api.ErrEmptyName
	}

	if existing, err := s.categoryStore.FindCategoryByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: '%s'", api.ErrDuplicateName, existing.Name())
	}

	timestamp := apitype.FormatTimestamp(s.now())
	category := apitype.NewPersistedCategory(s.newId(), name, isSystem, 0, timestamp, timestamp)

	logger.Info.Printf("Creating category '%s'", name)
	return s.categoryStore.AddCategory(ctx, category)
}

func (s *Service) DeleteCategory(ctx context.Context, id apitype.CategoryId) error {
	if category, err := s.findCategory(ctx, id); err != nil {
		return err
	} else if category.IsSystem() {
		return api.ErrSystemCategory
	} else {
		logger.Info.Printf("Deleting category '%s' (%s)", category.Name(), id)
		return s.categoryStore.RemoveCategory(ctx, id)
	}
}

func (s *Service) RenameCategory(ctx context.Context, id apitype.CategoryId, name string) (*apitype.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, api.ErrEmptyName
	}

	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	} else if category.IsSystem() {
		return nil, api.ErrSystemCategory
	}

	if existing, err := s.categoryStore.FindCategoryByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil && existing.Id() != id {
		return nil, fmt.Errorf("%w: '%s'", api.ErrDuplicateName, existing.Name())
	}

	logger.Info.Printf("Renaming category '%s' to '%s'", category.Name(), name)
	return s.categoryStore.UpdateCategory(ctx, category.Renamed(name, apitype.FormatTimestamp(s.now())))
}

func (s *Service) findCategory(ctx context.Context, id apitype.CategoryId) (*apitype.Category, error) {
	if category, err := s.categoryStore.GetCategoryById(ctx, id); err != nil {
		return nil, err
	} else if category == nil {
		return nil, fmt.Errorf("%w: %s", api.ErrCategoryNotFound, id)
	} else {
		return category, nil
	}
}

// InitializeCategories creates the seeded categories that don't exist yet and adds their games.
// Existing categories are left as they are.
func (s *Service) InitializeCategories(ctx context.Context, seeds []api.CategorySeed) error {
	for _, seed := range seeds {
		if existing, err := s.categoryStore.FindCategoryByName(ctx, seed.Name); err != nil {
			return err
		} else if existing != nil {
			logger.Debug.Printf("Category '%s' already exists", seed.Name)
			continue
		}

		category, err := s.addCategory(ctx, seed.Name, seed.IsSystem)
		if err != nil {
			return fmt.Errorf("could not seed category '%s': %w", seed.Name, err)
		}
		if len(seed.Games) > 0 {
			if err := s.gameStore.AddGames(ctx, category.Id(), seed.Games); err != nil {
				return fmt.Errorf("could not seed games for '%s': %w", seed.Name, err)
			}
		}
	}
	return nil
}

func (s *Service) Close() {
	logger.Info.Print("Shutting down category service")
}

func FromCategoriesStrings(categories []string) []api.CategorySeed {
	var seeds []api.CategorySeed
	for _, value := range categories {
		if len(strings.TrimSpace(value)) > 0 {
			name, isSystem := Parse(value)
			if name != "" {
				seeds = append(seeds, api.CategorySeed{Name: name, IsSystem: isSystem})
			}
		}
	}
	logger.Debug.Printf("Parsed %d categories", len(seeds))
	for _, seed := range seeds {
		logger.Trace.Printf(" - %s", seed.Name)
	}
	return seeds
}
