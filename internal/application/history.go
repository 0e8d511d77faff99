package app

import (
	"context"
	"log"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

// HistoryService сохраняет и читает записи текущего пользователя
type HistoryService struct {
	repo    port.HistoryRepository
	session port.SessionProvider
	logger  *log.Logger
}

// NewHistoryService создаёт сервис истории. Владелец всегда берётся из session.
func NewHistoryService(repo port.HistoryRepository, session port.SessionProvider, logger *log.Logger) *HistoryService {
	if logger == nil {
		logger = log.Default()
	}
	return &HistoryService{repo: repo, session: session, logger: logger}
}

// Save записывает результат от имени текущей личности и возвращает запись с ID.
// Повторов нет: при ошибке пользователь сам решает, сохранять ли снова.
func (s *HistoryService) Save(ctx context.Context, result entity.DiagnosisResult) (*entity.HistoryRecord, error) {
	id, ok := s.currentIdentity()
	if !ok {
		return nil, apperrors.NewUnauthenticated()
	}

	record := entity.NewHistoryRecord(id.Subject, result)
	if err := s.repo.Insert(ctx, record); err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.NewWriteFailure(err)
		}
		return nil, err
	}
	return record, nil
}

// ListForOwner возвращает записи ownerID. Чужие записи отбрасываются,
// даже если хранилище их вернуло.
func (s *HistoryService) ListForOwner(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthenticated()
	}

	records, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.NewReadFailure(err)
		}
		return nil, err
	}

	owned := make([]*entity.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if rec.OwnerID != ownerID {
			s.logger.Printf("history: dropped record %s of another owner", rec.ID)
			continue
		}
		owned = append(owned, rec)
	}
	return owned, nil
}

// ListMine читает историю текущей личности и строит представление по opts
func (s *HistoryService) ListMine(ctx context.Context, opts FilterOptions) ([]*entity.HistoryRecord, error) {
	id, ok := s.currentIdentity()
	if !ok {
		return nil, apperrors.NewUnauthenticated()
	}

	records, err := s.ListForOwner(ctx, id.Subject)
	if err != nil {
		return nil, err
	}
	return Filter(records, opts), nil
}

func (s *HistoryService) currentIdentity() (entity.Identity, bool) {
	if s.session == nil {
		return entity.Identity{}, false
	}
	return s.session.Current()
}
