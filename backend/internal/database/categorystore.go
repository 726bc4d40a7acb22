package database

import (
	"context"
	"errors"

	"github.com/upper/db/v4"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/common/logger"
)

const (
	categoryTable = "category"
	gameTable     = "game"
)

type CategoryStore struct {
	database *Database
}

func NewCategoryStore(database *Database) *CategoryStore {
	return &CategoryStore{
		database: database,
	}
}

func (s *CategoryStore) session(ctx context.Context) db.Session {
	return s.database.Session().WithContext(ctx)
}

// AddCategory stores a category that already has its id and timestamps.
func (s *CategoryStore) AddCategory(ctx context.Context, category *apitype.Category) (*apitype.Category, error) {
	var result *apitype.Category
	err := s.session(ctx).Tx(func(sess db.Session) error {
		if added, err := addCategory(sess, category); err != nil {
			return err
		} else {
			result = added
			return nil
		}
	})
	return result, err
}

func addCategory(sess db.Session, category *apitype.Category) (*apitype.Category, error) {
	if _, err := sess.Collection(categoryTable).Insert(toDbCategory(category)); err != nil {
		return nil, err
	}

	logger.Debug.Printf("Stored category %s (%s) to DB", category.Name(), category.Id())
	return findCategoryById(sess, category.Id())
}

func (s *CategoryStore) GetCategories(ctx context.Context) ([]*apitype.Category, error) {
	var categories []CategoryWithCount
	err := selectCategoriesWithCount(s.session(ctx)).
		OrderBy("category.seq").
		All(&categories)

	if err != nil {
		return nil, err
	}

	return toApiCategories(categories), nil
}

func (s *CategoryStore) GetCategoryById(ctx context.Context, id apitype.CategoryId) (*apitype.Category, error) {
	return findCategoryById(s.session(ctx), id)
}

// FindCategoryByName returns nil when no category has the name. Names compare case-insensitively.
func (s *CategoryStore) FindCategoryByName(ctx context.Context, name string) (*apitype.Category, error) {
	var category CategoryWithCount
	err := selectCategoriesWithCount(s.session(ctx)).
		Where("category.name = ?", name).
		One(&category)

	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return toApiCategory(category), nil
}

// RemoveCategory deletes the category and leaves its games without a category.
func (s *CategoryStore) RemoveCategory(ctx context.Context, id apitype.CategoryId) error {
	return s.session(ctx).Tx(func(sess db.Session) error {
		if _, err := sess.SQL().Exec(`UPDATE game SET category_id = NULL WHERE category_id = ?`, id); err != nil {
			return err
		}
		return sess.Collection(categoryTable).Find(db.Cond{"id": id}).Delete()
	})
}

func (s *CategoryStore) UpdateCategory(ctx context.Context, category *apitype.Category) (*apitype.Category, error) {
	var result *apitype.Category
	err := s.session(ctx).Tx(func(sess db.Session) error {
		err := sess.Collection(categoryTable).
			Find(db.Cond{"id": category.Id()}).
			Update(map[string]interface{}{
				"name":       category.Name(),
				"updated_at": category.UpdatedAt(),
			})
		if err != nil {
			return err
		}

		result, err = findCategoryById(sess, category.Id())
		return err
	})
	return result, err
}

func findCategoryById(sess db.Session, id apitype.CategoryId) (*apitype.Category, error) {
	var category CategoryWithCount
	err := selectCategoriesWithCount(sess).
		Where("category.id = ?", id).
		One(&category)

	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return toApiCategory(category), nil
}

func selectCategoriesWithCount(sess db.Session) db.Selector {
	return sess.SQL().
		Select(
			"category.id AS id",
			"category.name AS name",
			"category.is_system AS is_system",
			"category.created_at AS created_at",
			"category.updated_at AS updated_at",
			db.Raw("COUNT(game.id) AS game_count"),
		).
		From(categoryTable).
		LeftJoin(gameTable).On("game.category_id = category.id").
		GroupBy("category.seq")
}
