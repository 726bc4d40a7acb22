package api

import "context"

type ErrorCommand struct {
	Message string
	Err     error
}

type Gui interface {
	UpdateCategories(*UpdateCategoriesCommand)
	CategoryChanged(*CategoryChangedCommand)
	ShowError(*ErrorCommand)
	Run(ctx context.Context) error
}
