package storage

import (
	"context"
	"sync"
	"time"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

// MemoryHistoryRepository in-memory хранилище записей диагностики
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	records map[string][]entity.HistoryRecord
	now     func() time.Time
}

// NewMemoryHistoryRepository создаёт новое in-memory хранилище
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		records: make(map[string][]entity.HistoryRecord),
		now:     time.Now,
	}
}

// WithClock подменяет часы хранилища
func (r *MemoryHistoryRepository) WithClock(now func() time.Time) *MemoryHistoryRepository {
	r.now = now
	return r
}

// Insert сохраняет копию записи, назначая ID и время
func (r *MemoryHistoryRepository) Insert(ctx context.Context, record *entity.HistoryRecord) error {
	if record == nil || record.OwnerID == "" {
		return apperrors.NewInvalidRequest("history record requires an owner")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = newID()
	record.CreatedAt = r.now().UTC()
	r.records[record.OwnerID] = append(r.records[record.OwnerID], *record)
	return nil
}

// ListByOwner возвращает копии записей владельца
func (r *MemoryHistoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthenticated()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[ownerID]
	out := make([]*entity.HistoryRecord, 0, len(stored))
	for i := range stored {
		rec := stored[i]
		out = append(out, &rec)
	}
	return out, nil
}

// MemoryArticleRepository in-memory хранилище статей
type MemoryArticleRepository struct {
	mu       sync.RWMutex
	articles []entity.ArticleRecord
}

func NewMemoryArticleRepository(seed ...entity.ArticleRecord) *MemoryArticleRepository {
	return &MemoryArticleRepository{articles: append([]entity.ArticleRecord(nil), seed...)}
}

func (r *MemoryArticleRepository) ListAll(ctx context.Context) ([]*entity.ArticleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.ArticleRecord, 0, len(r.articles))
	for i := range r.articles {
		a := r.articles[i]
		out = append(out, &a)
	}
	return out, nil
}

func (r *MemoryArticleRepository) Insert(ctx context.Context, article *entity.ArticleRecord) error {
	if article == nil || article.Title == "" {
		return apperrors.NewInvalidRequest("article title is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if article.ID == "" {
		article.ID = newID()
	}
	r.articles = append(r.articles, *article)
	return nil
}

// Проверка реализации интерфейса
var (
	_ port.HistoryRepository = (*MemoryHistoryRepository)(nil)
	_ port.ArticleRepository = (*MemoryArticleRepository)(nil)
)
