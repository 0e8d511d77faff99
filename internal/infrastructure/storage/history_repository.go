package storage

import (
	"context"
	"database/sql"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

// SQLiteHistoryRepository коллекция history в SQLite
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository создаёт репозиторий поверх открытой базы
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// Insert сохраняет запись. Время создания берётся из часов хранилища.
func (r *SQLiteHistoryRepository) Insert(ctx context.Context, record *entity.HistoryRecord) error {
	if record == nil || record.OwnerID == "" {
		return apperrors.NewInvalidRequest("history record requires an owner")
	}

	id := newID()
	query := `
		INSERT INTO history (id, owner_id, disease_label, summary, treatment, language, severity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`

	var createdAt sql.NullInt64
	err := r.db.QueryRowContext(ctx, query,
		id, record.OwnerID, record.DiseaseLabel, record.Summary, record.Treatment,
		string(record.Language), toNullString(string(record.Severity)),
	).Scan(&createdAt)
	if err != nil {
		return apperrors.NewWriteFailure(err)
	}

	record.ID = id
	record.CreatedAt = fromMillis(createdAt)
	return nil
}

// ListByOwner возвращает записи владельца. Порядок не задаётся.
func (r *SQLiteHistoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthenticated()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, disease_label, summary, treatment, language, severity, created_at
		FROM history
		WHERE owner_id = ?
	`, ownerID)
	if err != nil {
		return nil, apperrors.NewReadFailure(err)
	}
	defer rows.Close()

	records := []*entity.HistoryRecord{}
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, apperrors.NewReadFailure(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewReadFailure(err)
	}
	return records, nil
}

// DeleteByOwner удаляет все записи владельца (удаление аккаунта)
func (r *SQLiteHistoryRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, apperrors.NewUnauthenticated()
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, apperrors.NewWriteFailure(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewWriteFailure(err)
	}
	return n, nil
}

func scanHistory(rows *sql.Rows) (*entity.HistoryRecord, error) {
	var (
		rec       entity.HistoryRecord
		language  string
		severity  sql.NullString
		createdAt sql.NullInt64
	)
	if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.DiseaseLabel, &rec.Summary, &rec.Treatment,
		&language, &severity, &createdAt); err != nil {
		return nil, err
	}
	rec.Language = entity.LanguageCode(language)
	rec.Severity = entity.ParseSeverity(severity.String)
	rec.CreatedAt = fromMillis(createdAt)
	return &rec, nil
}

// Проверка реализации интерфейса
var _ port.HistoryRepository = (*SQLiteHistoryRepository)(nil)
