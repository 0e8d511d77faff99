package app

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"time"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
)

var discardLogger = log.New(io.Discard, "", 0)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// --- fakeCamera ---
var _ port.Camera = (*fakeCamera)(nil)

type fakeCamera struct {
	CaptureFunc  func(ctx context.Context) (*entity.CapturedImage, error)
	CaptureCalls int32
}

func (m *fakeCamera) Capture(ctx context.Context) (*entity.CapturedImage, error) {
	atomic.AddInt32(&m.CaptureCalls, 1)
	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx)
	}
	return entity.NewCapturedImage([]byte{0xff, 0xd8, 0xff}, entity.EncodingJPEG, "mem://leaf", nil), nil
}

// --- fakeIdentifier ---
var _ port.DiseaseIdentifier = (*fakeIdentifier)(nil)

type fakeIdentifier struct {
	IdentifyFunc  func(ctx context.Context, req entity.DiagnosisRequest) (string, error)
	IdentifyCalls int32
	LastRequest   atomic.Value // entity.DiagnosisRequest
}

func (m *fakeIdentifier) Identify(ctx context.Context, req entity.DiagnosisRequest) (string, error) {
	atomic.AddInt32(&m.IdentifyCalls, 1)
	m.LastRequest.Store(req)
	if m.IdentifyFunc != nil {
		return m.IdentifyFunc(ctx, req)
	}
	return "Leaf spot. Remove affected leaves.", nil
}

// --- fakeHistoryRepository ---
var _ port.HistoryRepository = (*fakeHistoryRepository)(nil)

type fakeHistoryRepository struct {
	InsertFunc      func(ctx context.Context, record *entity.HistoryRecord) error
	ListByOwnerFunc func(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error)
	InsertCalls     int32
	Inserted        []*entity.HistoryRecord
}

func (m *fakeHistoryRepository) Insert(ctx context.Context, record *entity.HistoryRecord) error {
	atomic.AddInt32(&m.InsertCalls, 1)
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, record); err != nil {
			return err
		}
	}
	if record.ID == "" {
		record.ID = "rec-1"
	}
	m.Inserted = append(m.Inserted, record)
	return nil
}

func (m *fakeHistoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.HistoryRecord, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return nil, errors.New("ListByOwnerFunc not implemented in mock")
}
