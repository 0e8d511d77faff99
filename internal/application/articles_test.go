package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/infrastructure/storage"
)

func TestArticleService_ImportAndBrowse(t *testing.T) {
	svc := NewArticleService(storage.NewMemoryArticleRepository())
	ctx := context.Background()

	n, err := svc.Import(ctx, []entity.ArticleRecord{
		{Title: "Leaf Spot", Category: "Diseases", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Watering Tips", Category: "Watering", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Blight", Summary: "A fungal disease", Category: "Diseases"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)

	all, err := svc.Browse(ctx, FilterOptions{Category: entity.CategoryAll})
	require.NoError(t, err)
	require.Equal(t, []string{"Watering Tips", "Leaf Spot", "Blight"}, titles(all))

	diseases, err := svc.Browse(ctx, FilterOptions{Category: "Diseases"})
	require.NoError(t, err)
	require.Equal(t, []string{"Leaf Spot", "Blight"}, titles(diseases))
}

func TestArticleService_ImportStopsOnError(t *testing.T) {
	svc := NewArticleService(storage.NewMemoryArticleRepository())

	n, err := svc.Import(context.Background(), []entity.ArticleRecord{{Title: "ok"}, {Title: ""}, {Title: "never"}})
	require.Error(t, err)
	require.Equal(t, 1, n)
}
