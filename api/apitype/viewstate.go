package apitype

import "strings"

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByGameCount SortKey = "game_count"
	SortByCreatedAt SortKey = "created_at"
	SortByUpdatedAt SortKey = "updated_at"
)

var sortKeys = []SortKey{SortByName, SortByGameCount, SortByCreatedAt, SortByUpdatedAt}

func SortKeys() []SortKey {
	keys := make([]SortKey, len(sortKeys))
	copy(keys, sortKeys)
	return keys
}

func SortKeyFromString(value string) (SortKey, bool) {
	for _, key := range sortKeys {
		if string(key) == strings.ToLower(strings.TrimSpace(value)) {
			return key, true
		}
	}
	return SortByName, false
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func SortDirectionFromString(value string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "asc":
		return Ascending, true
	case "desc":
		return Descending, true
	}
	return Ascending, false
}

func (s SortDirection) Toggle() SortDirection {
	if s == Descending {
		return Ascending
	}
	return Descending
}

// ViewState is the transient search and ordering selected by the user.
type ViewState struct {
	Query     string
	SortKey   SortKey
	Direction SortDirection
}

func NewViewState() ViewState {
	return ViewState{
		Query:     "",
		SortKey:   SortByName,
		Direction: Ascending,
	}
}
