package database

import (
	"context"

	"github.com/upper/db/v4"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/common/logger"
)

type GameStore struct {
	database *Database
}

func NewGameStore(database *Database) *GameStore {
	return &GameStore{
		database: database,
	}
}

func (s *GameStore) AddGames(ctx context.Context, categoryId apitype.CategoryId, titles []string) error {
	return s.database.Session().WithContext(ctx).Tx(func(sess db.Session) error {
		collection := sess.Collection(gameTable)
		for _, title := range titles {
			id := categoryId
			game := Game{Title: title}
			if categoryId != apitype.NoCategory {
				game.CategoryId = &id
			}
			if _, err := collection.Insert(game); err != nil {
				return err
			}
			logger.Trace.Printf("Stored game '%s' to category %s", title, categoryId)
		}
		return nil
	})
}

func (s *GameStore) GetGames(ctx context.Context, categoryId apitype.CategoryId) ([]Game, error) {
	var games []Game
	cond := db.Cond{"category_id": categoryId}
	if categoryId == apitype.NoCategory {
		cond = db.Cond{"category_id": db.IsNull()}
	}

	err := s.database.Session().WithContext(ctx).
		Collection(gameTable).
		Find(cond).
		OrderBy("id").
		All(&games)
	return games, err
}
