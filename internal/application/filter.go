package app

import (
	"sort"
	"strings"
	"time"

	"leafdoctor-bot/internal/domain/entity"
)

// Filterable элемент коллекции, которую можно искать, фильтровать и сортировать
type Filterable interface {
	SearchFields() []string
	CategoryValue() string
	Timestamp() time.Time
}

// FilterOptions параметры представления коллекции
type FilterOptions struct {
	Query    string // подстрока без учёта регистра
	Category string // пусто или "All": без фильтра
}

var epoch = time.Unix(0, 0)

// Filter строит отфильтрованное представление: категория, затем поиск,
// затем сортировка по убыванию времени. Записи без времени считаются
// созданными в эпоху Unix. Исходный срез не меняется.
func Filter[T Filterable](items []T, opts FilterOptions) []T {
	category := strings.TrimSpace(opts.Category)
	if strings.EqualFold(category, entity.CategoryAll) {
		category = ""
	}
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if category != "" && !strings.EqualFold(item.CategoryValue(), category) {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i]).After(sortKey(out[j]))
	})
	return out
}

func matchesQuery(item Filterable, query string) bool {
	for _, field := range item.SearchFields() {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func sortKey(item Filterable) time.Time {
	ts := item.Timestamp()
	if ts.IsZero() {
		return epoch
	}
	return ts
}
