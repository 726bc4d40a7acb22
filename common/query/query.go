// Package query derives the displayed category list from a snapshot.
// Everything here is free of state and I/O; the same input always gives the same output.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"vincit.fi/game-shelf/api/apitype"
)

type Engine struct {
	tag language.Tag
}

var defaultEngine = NewEngine(language.English)

func NewEngine(tag language.Tag) *Engine {
	return &Engine{tag: tag}
}

// NewEngineForLocale falls back to English when the locale cannot be parsed.
func NewEngineForLocale(locale string) *Engine {
	if tag, err := language.Parse(locale); err != nil {
		return NewEngine(language.English)
	} else {
		return NewEngine(tag)
	}
}

func (s *Engine) Language() language.Tag {
	return s.tag
}

// DeriveView filters and sorts with the default English collation.
func DeriveView(snapshot []*apitype.Category, query string, key apitype.SortKey, direction apitype.SortDirection) []*apitype.Category {
	return defaultEngine.DeriveView(snapshot, apitype.ViewState{
		Query:     query,
		SortKey:   key,
		Direction: direction,
	})
}

func (s *Engine) DeriveView(snapshot []*apitype.Category, view apitype.ViewState) []*apitype.Category {
	folder := cases.Fold()
	foldedQuery := folder.String(view.Query)

	result := make([]*apitype.Category, 0, len(snapshot))
	for _, category := range snapshot {
		if Matches(category, foldedQuery, folder) {
			result = append(result, category)
		}
	}

	// Collators keep internal buffers, so each derivation gets its own.
	collator := collate.New(s.tag)
	sign := 1
	if view.Direction == apitype.Descending {
		sign = -1
	}
	sort.SliceStable(result, func(i, j int) bool {
		return sign*Compare(result[i], result[j], view.SortKey, collator) < 0
	})
	return result
}

// Matches reports if the category name contains the query. The query must already be case folded.
func Matches(category *apitype.Category, foldedQuery string, folder cases.Caser) bool {
	if category == nil {
		return false
	}
	if foldedQuery == "" {
		return true
	}
	return strings.Contains(folder.String(category.Name()), foldedQuery)
}

// Compare orders two categories by key in ascending order. Unknown keys compare equal.
func Compare(a *apitype.Category, b *apitype.Category, key apitype.SortKey, collator *collate.Collator) int {
	switch key {
	case apitype.SortByName:
		return collator.CompareString(a.Name(), b.Name())
	case apitype.SortByGameCount:
		return compareInts(a.GameCount(), b.GameCount())
	case apitype.SortByCreatedAt:
		return strings.Compare(a.CreatedAt(), b.CreatedAt())
	case apitype.SortByUpdatedAt:
		return strings.Compare(a.UpdatedAt(), b.UpdatedAt())
	}
	return 0
}

func compareInts(a int, b int) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}
