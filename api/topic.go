package api

type Topic string

const (
	CategoriesUpdated Topic = "event-categories-updated"
	CategoryCreated   Topic = "event-category-created"
	CategoryDeleted   Topic = "event-category-deleted"
	CategoryRenamed   Topic = "event-category-renamed"
	ShowError         Topic = "event-show-error"
)
