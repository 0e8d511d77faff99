package storage

import (
	"context"
	"database/sql"
	"strings"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

// SQLiteArticleRepository коллекция articles в SQLite
type SQLiteArticleRepository struct {
	db *sql.DB
}

func NewSQLiteArticleRepository(db *sql.DB) *SQLiteArticleRepository {
	return &SQLiteArticleRepository{db: db}
}

// ListAll возвращает всю коллекцию; сортировка и фильтры на стороне клиента
func (r *SQLiteArticleRepository) ListAll(ctx context.Context) ([]*entity.ArticleRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, summary, category, created_at FROM articles`)
	if err != nil {
		return nil, apperrors.NewReadFailure(err)
	}
	defer rows.Close()

	articles := []*entity.ArticleRecord{}
	for rows.Next() {
		var (
			a         entity.ArticleRecord
			category  sql.NullString
			createdAt sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &category, &createdAt); err != nil {
			return nil, apperrors.NewReadFailure(err)
		}
		a.Category = category.String
		a.CreatedAt = fromMillis(createdAt)
		articles = append(articles, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewReadFailure(err)
	}
	return articles, nil
}

// Insert добавляет статью. Пустой CreatedAt сохраняется как NULL.
func (r *SQLiteArticleRepository) Insert(ctx context.Context, article *entity.ArticleRecord) error {
	if article == nil || strings.TrimSpace(article.Title) == "" {
		return apperrors.NewInvalidRequest("article title is required")
	}
	if article.ID == "" {
		article.ID = newID()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO articles (id, title, summary, category, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, article.ID, article.Title, article.Summary, toNullString(article.Category), toMillis(article.CreatedAt))
	if err != nil {
		return apperrors.NewWriteFailure(err)
	}
	return nil
}

var _ port.ArticleRepository = (*SQLiteArticleRepository)(nil)
