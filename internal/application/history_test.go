package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leafdoctor-bot/internal/domain/entity"
	apperrors "leafdoctor-bot/internal/errors"
	"leafdoctor-bot/internal/identity"
	"leafdoctor-bot/internal/infrastructure/storage"
)

func TestHistoryService_ListForOwnerDropsForeignRecords(t *testing.T) {
	repo := &fakeHistoryRepository{ListByOwnerFunc: func(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error) {
		return []*entity.HistoryRecord{
			{ID: "1", OwnerID: ownerID},
			{ID: "2", OwnerID: "intruder"},
			nil,
			{ID: "3", OwnerID: ownerID},
		}, nil
	}}
	svc := NewHistoryService(repo, identity.Fixed(entity.Identity{Subject: "me"}), discardLogger)

	list, err := svc.ListForOwner(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, rec := range list {
		require.Equal(t, "me", rec.OwnerID)
	}

	filtered, err := svc.ListMine(context.Background(), FilterOptions{Query: ""})
	require.NoError(t, err)
	for _, rec := range filtered {
		require.Equal(t, "me", rec.OwnerID)
	}
}

func TestHistoryService_ReadFailure(t *testing.T) {
	repo := &fakeHistoryRepository{ListByOwnerFunc: func(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error) {
		return nil, errors.New("offline")
	}}
	svc := NewHistoryService(repo, identity.Fixed(entity.Identity{Subject: "me"}), discardLogger)

	_, err := svc.ListForOwner(context.Background(), "me")
	require.True(t, apperrors.Is(err, apperrors.ErrReadFailure))

	_, err = svc.ListForOwner(context.Background(), "")
	require.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestHistoryService_SaveWrapsPlainErrors(t *testing.T) {
	repo := &fakeHistoryRepository{InsertFunc: func(ctx context.Context, record *entity.HistoryRecord) error {
		return errors.New("disk full")
	}}
	svc := NewHistoryService(repo, identity.Fixed(entity.Identity{Subject: "me"}), discardLogger)

	_, err := svc.Save(context.Background(), AssembleDiagnosis("x", entity.LanguageEnglish))
	require.True(t, apperrors.Is(err, apperrors.ErrWriteFailure))
}

func TestHistoryService_ListMineFiltersAndSorts(t *testing.T) {
	clock := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	repo := storage.NewMemoryHistoryRepository().WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})
	session := identity.NewSession()
	svc := NewHistoryService(repo, session, discardLogger)
	ctx := context.Background()

	_, err := svc.ListMine(ctx, FilterOptions{})
	require.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))

	require.NoError(t, session.SignIn(entity.Identity{Subject: "me"}))
	for _, summary := range []string{"Leaf rust", "Powdery mildew", "Rust spots"} {
		_, err := svc.Save(ctx, AssembleDiagnosis(summary, entity.LanguageEnglish))
		require.NoError(t, err)
	}
	require.NoError(t, repo.Insert(ctx, &entity.HistoryRecord{OwnerID: "other", Summary: "rust elsewhere"}))

	list, err := svc.ListMine(ctx, FilterOptions{Query: "RUST"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Rust spots", list[0].Summary)
	require.Equal(t, "Leaf rust", list[1].Summary)
}
