package database

import "vincit.fi/game-shelf/api/apitype"

func toApiCategories(categories []CategoryWithCount) []*apitype.Category {
	apiTypeCategories := make([]*apitype.Category, len(categories))
	for i, category := range categories {
		apiTypeCategories[i] = toApiCategory(category)
	}
	return apiTypeCategories
}

func toApiCategory(category CategoryWithCount) *apitype.Category {
	return apitype.NewPersistedCategory(
		category.Id, category.Name, category.IsSystem, int(category.GameCount), category.CreatedAt, category.UpdatedAt)
}

func toDbCategory(category *apitype.Category) Category {
	return Category{
		Id:        category.Id(),
		Name:      category.Name(),
		IsSystem:  category.IsSystem(),
		CreatedAt: category.CreatedAt(),
		UpdatedAt: category.UpdatedAt(),
	}
}
