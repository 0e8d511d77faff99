package container

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	app "leafdoctor-bot/internal/application"
	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/infrastructure/storage"
)

type staticIdentifier string

func (s staticIdentifier) Identify(ctx context.Context, req entity.DiagnosisRequest) (string, error) {
	return string(s), nil
}

type staticCamera struct{}

func (staticCamera) Capture(ctx context.Context) (*entity.CapturedImage, error) {
	return entity.NewCapturedImage([]byte{1}, entity.EncodingJPEG, "", nil), nil
}

func TestContainer_PipelinesSaveUnderTelegramIdentity(t *testing.T) {
	repo := storage.NewMemoryHistoryRepository()
	c := New(repo, storage.NewMemoryArticleRepository(), staticIdentifier("Black spot"), entity.LanguageTamil, log.New(io.Discard, "", 0))
	ctx := context.Background()

	p := c.Pipelines.Get(100, 42)
	require.NoError(t, p.Capture(ctx, staticCamera{}))
	result, err := p.Identify(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.LanguageTamil, result.Language)

	record, err := p.Save(ctx)
	require.NoError(t, err)
	require.Equal(t, "tg:42", record.OwnerID)

	list, err := c.HistoryService(nil).ListForOwner(ctx, "tg:42")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = c.HistoryService(nil).ListMine(ctx, app.FilterOptions{})
	require.Error(t, err)
}

func TestContainer_GroupChatSavesUnderActingUser(t *testing.T) {
	repo := storage.NewMemoryHistoryRepository()
	c := New(repo, storage.NewMemoryArticleRepository(), staticIdentifier("Leaf curl"), entity.LanguageEnglish, log.New(io.Discard, "", 0))
	ctx := context.Background()

	const groupChat = -100
	c.Pipelines.Get(groupChat, 1)

	for _, userID := range []int64{2, 1} {
		p := c.Pipelines.Get(groupChat, userID)
		require.NoError(t, p.Capture(ctx, staticCamera{}))
		_, err := p.Identify(ctx)
		require.NoError(t, err)

		record, err := p.Save(ctx)
		require.NoError(t, err)
		require.Equal(t, TelegramIdentity(userID).Subject, record.OwnerID)
	}

	for _, owner := range []string{"tg:1", "tg:2"} {
		list, err := c.HistoryService(nil).ListForOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, owner, list[0].OwnerID)
	}
}
