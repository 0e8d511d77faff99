package port

import (
	"context"

	"leafdoctor-bot/internal/domain/entity"
)

// HistoryRepository хранилище записей диагностики
type HistoryRepository interface {
	// Insert сохраняет запись; ID и CreatedAt назначает хранилище
	Insert(ctx context.Context, record *entity.HistoryRecord) error

	// ListByOwner возвращает все записи владельца без гарантии порядка
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error)
}

// ArticleRepository хранилище справочных статей
type ArticleRepository interface {
	// ListAll возвращает всю коллекцию статей
	ListAll(ctx context.Context) ([]*entity.ArticleRecord, error)

	// Insert добавляет статью (используется только при наполнении)
	Insert(ctx context.Context, article *entity.ArticleRecord) error
}
