package entity

import "time"

// CategoryAll означает отсутствие фильтра по категории
const CategoryAll = "All"

// ArticleCategories категории статей в порядке показа
var ArticleCategories = []string{
	CategoryAll,
	"Plant Care",
	"Diseases",
	"Watering",
	"Fertilizing",
	"Pruning",
	"Tips",
}

// ArticleRecord справочная статья (только чтение)
type ArticleRecord struct {
	ID        string
	Title     string
	Summary   string
	Category  string
	CreatedAt time.Time
}

func (a *ArticleRecord) SearchFields() []string {
	return []string{a.Title, a.Summary, a.Category}
}

func (a *ArticleRecord) CategoryValue() string {
	return a.Category
}

func (a *ArticleRecord) Timestamp() time.Time {
	return a.CreatedAt
}
