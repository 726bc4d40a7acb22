package backend

import (
	"context"
	"fmt"

	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/backend/internal/category"
	"vincit.fi/game-shelf/backend/internal/collection"
	"vincit.fi/game-shelf/backend/internal/database"
	"vincit.fi/game-shelf/backend/internal/mutation"
	"vincit.fi/game-shelf/common/constants"
	"vincit.fi/game-shelf/common/event"
	"vincit.fi/game-shelf/common/logger"
)

type Stores struct {
	CategoryStore *database.CategoryStore
	GameStore     *database.GameStore
	db            *database.Database
}

func (s *Stores) Close() {
	s.db.Close()
}

type Services struct {
	categoryService *category.Service
	CategoryService api.CategoryService
	Collection      api.CategoryCollection
	Mutator         api.CategoryMutator
}

func (s *Services) Close() {
	s.categoryService.Close()
}

// InitializeCategories creates the given categories unless they already exist.
func (s *Services) InitializeCategories(ctx context.Context, seeds []api.CategorySeed) error {
	if len(seeds) == 0 {
		return nil
	}
	logger.Debug.Printf("Initialize %d categories", len(seeds))
	return s.categoryService.InitializeCategories(ctx, seeds)
}

// ParseCategories reads categories in format <name> or <name>:system.
func ParseCategories(categories []string) []api.CategorySeed {
	return category.FromCategoriesStrings(categories)
}

type Brokers struct {
	Broker *event.Broker
}

func (s *Brokers) Close() {
	s.Broker.Close(api.CategoriesUpdated, api.CategoryCreated, api.CategoryDeleted, api.CategoryRenamed, api.ShowError)
}

func InitializeEventBrokers(eventBusQueueSize int) *Brokers {
	logger.Debug.Printf("Initialize event brokers...")
	brokers := &Brokers{
		Broker: event.InitBus(eventBusQueueSize),
	}
	logger.Debug.Printf("Event brokers initialized")
	return brokers
}

func InitializeServices(stores *Stores, brokers *Brokers) *Services {
	logger.Debug.Printf("Initialize services...")
	categoryService := category.NewCategoryService(stores.CategoryStore, stores.GameStore)
	categoryCollection := collection.NewStore(categoryService, brokers.Broker)
	services := &Services{
		categoryService: categoryService,
		CategoryService: categoryService,
		Collection:      categoryCollection,
		Mutator:         mutation.NewController(categoryService, categoryCollection, brokers.Broker),
	}
	logger.Debug.Printf("Services initialized")
	return services
}

// InitializeStores opens the given database file. Without a file the database is
// created in <rootPath>/.game-shelf and an empty rootPath means an in-memory database.
func InitializeStores(rootPath string, databaseFile string) (*Stores, error) {
	logger.Debug.Printf("Initialize databases...")
	var db *database.Database
	if databaseFile != "" {
		db = database.NewDatabase()
		if err := db.InitializeForFile(databaseFile); err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
	} else if rootPath != "" {
		db = database.NewDatabase()
		if err := db.InitializeForDirectory(rootPath, constants.DatabaseFileName); err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
	} else if memoryDb, err := database.NewInMemoryDatabase(); err != nil {
		return nil, err
	} else {
		db = memoryDb
	}

	if tableExist, err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	} else if tableExist == database.TableNotExist {
		logger.Info.Printf("Created a new database")
	}

	logger.Debug.Printf("Initialize backend stores...")
	stores := &Stores{
		CategoryStore: database.NewCategoryStore(db),
		GameStore:     database.NewGameStore(db),
		db:            db,
	}
	logger.Debug.Printf("Stores and databases initialized")
	return stores, nil
}
