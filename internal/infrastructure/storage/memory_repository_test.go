package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leafdoctor-bot/internal/domain/entity"
)

func TestMemoryHistoryRepository_InsertAndList(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := NewMemoryHistoryRepository().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	rec := &entity.HistoryRecord{OwnerID: "u1", Summary: "rust"}
	require.NoError(t, repo.Insert(ctx, rec))
	require.NotEmpty(t, rec.ID)
	require.Equal(t, fixed, rec.CreatedAt)

	require.NoError(t, repo.Insert(ctx, &entity.HistoryRecord{OwnerID: "u2", Summary: "blight"}))

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "rust", list[0].Summary)

	// изменения копии не попадают в хранилище
	list[0].Summary = "changed"
	again, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "rust", again[0].Summary)
}

func TestMemoryArticleRepository(t *testing.T) {
	repo := NewMemoryArticleRepository(entity.ArticleRecord{ID: "1", Title: "Pruning basics"})
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &entity.ArticleRecord{Title: "Watering Tips"}))
	require.Error(t, repo.Insert(ctx, &entity.ArticleRecord{}))

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
