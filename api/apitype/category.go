package apitype

import (
	"fmt"
	"time"
)

type CategoryId string

const NoCategory = CategoryId("")

// TimestampFormat is fixed width so that timestamps order correctly as plain strings.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z"

type Category struct {
	id        CategoryId
	name      string
	isSystem  bool
	gameCount int
	createdAt string
	updatedAt string
}

func NewPersistedCategory(id CategoryId, name string, isSystem bool, gameCount int, createdAt string, updatedAt string) *Category {
	return &Category{
		id:        id,
		name:      name,
		isSystem:  isSystem,
		gameCount: gameCount,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func NewCategory(name string) *Category {
	return NewPersistedCategory(NoCategory, name, false, 0, "", "")
}

func NewSystemCategory(name string) *Category {
	return NewPersistedCategory(NoCategory, name, true, 0, "", "")
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

func (s *Category) Id() CategoryId {
	return s.id
}

func (s *Category) IsPersisted() bool {
	return s.id != NoCategory
}

func (s *Category) Name() string {
	return s.name
}

func (s *Category) IsSystem() bool {
	return s.isSystem
}

// GameCount is never negative; unknown counts read as zero.
func (s *Category) GameCount() int {
	if s.gameCount < 0 {
		return 0
	}
	return s.gameCount
}

func (s *Category) CreatedAt() string {
	return s.createdAt
}

func (s *Category) UpdatedAt() string {
	return s.updatedAt
}

// Renamed returns a copy with the new name and update time. The receiver is left untouched.
func (s *Category) Renamed(name string, updatedAt string) *Category {
	renamed := *s
	renamed.name = name
	renamed.updatedAt = updatedAt
	return &renamed
}

func (s *Category) String() string {
	if s.isSystem {
		return fmt.Sprintf("%s (system)", s.name)
	}
	return s.name
}
