package app

import (
	"context"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
)

// ArticleService просмотр справочных статей
type ArticleService struct {
	repo port.ArticleRepository
}

func NewArticleService(repo port.ArticleRepository) *ArticleService {
	return &ArticleService{repo: repo}
}

// Browse загружает всю коллекцию и строит представление по opts
func (s *ArticleService) Browse(ctx context.Context, opts FilterOptions) ([]*entity.ArticleRecord, error) {
	articles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(articles, opts), nil
}

// Import добавляет статьи в хранилище и возвращает число добавленных
func (s *ArticleService) Import(ctx context.Context, articles []entity.ArticleRecord) (int, error) {
	for i := range articles {
		if err := s.repo.Insert(ctx, &articles[i]); err != nil {
			return i, err
		}
	}
	return len(articles), nil
}
