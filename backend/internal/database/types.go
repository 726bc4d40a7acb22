package database

import "vincit.fi/game-shelf/api/apitype"

type MigrationId int64

type Migration struct {
	Id MigrationId `db:"id"`
}

type Category struct {
	Seq       int64              `db:"seq,omitempty"`
	Id        apitype.CategoryId `db:"id"`
	Name      string             `db:"name"`
	IsSystem  bool               `db:"is_system"`
	CreatedAt string             `db:"created_at"`
	UpdatedAt string             `db:"updated_at"`
}

// CategoryWithCount is a category row joined with the number of its games.
type CategoryWithCount struct {
	Id        apitype.CategoryId `db:"id"`
	Name      string             `db:"name"`
	IsSystem  bool               `db:"is_system"`
	CreatedAt string             `db:"created_at"`
	UpdatedAt string             `db:"updated_at"`
	GameCount int64              `db:"game_count"`
}

type Game struct {
	Id         int64               `db:"id,omitempty"`
	Title      string              `db:"title"`
	CategoryId *apitype.CategoryId `db:"category_id"`
}
