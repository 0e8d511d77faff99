package app

import (
	"context"
	"log"
	"sync"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

// Pipeline конвейер диагностики одного экрана (одного чата):
// съёмка -> распознавание -> результат -> сохранение.
// Все переходы проверяют текущее состояние, поэтому повторный вызов
// во время выполнения предыдущего отклоняется без побочных эффектов.
type Pipeline struct {
	identifier port.DiseaseIdentifier
	history    *HistoryService
	logger     *log.Logger

	mu         sync.Mutex
	state      entity.PipelineState
	image      *entity.CapturedImage
	result     *entity.DiagnosisResult
	language   entity.LanguageCode
	closed     bool
	generation uint64 // меняется при сбросе; устаревшие ответы отбрасываются
}

// PipelineSnapshot состояние конвейера для показа
type PipelineSnapshot struct {
	State       entity.PipelineState
	Language    entity.LanguageCode
	ImageHandle string
	Result      *entity.DiagnosisResult
	Closed      bool
}

// NewPipeline создаёт конвейер в состоянии Idle
func NewPipeline(identifier port.DiseaseIdentifier, history *HistoryService, lang entity.LanguageCode, logger *log.Logger) *Pipeline {
	if !lang.Valid() {
		lang = entity.LanguageEnglish
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		identifier: identifier,
		history:    history,
		logger:     logger,
		state:      entity.StateIdle,
		language:   lang,
	}
}

// Snapshot возвращает копию текущего состояния
func (p *Pipeline) Snapshot() PipelineSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := PipelineSnapshot{
		State:    p.state,
		Language: p.language,
		Closed:   p.closed,
	}
	if p.image != nil {
		snap.ImageHandle = p.image.Handle
	}
	if p.result != nil {
		r := *p.result
		snap.Result = &r
	}
	return snap
}

// State возвращает текущее состояние
func (p *Pipeline) State() entity.PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Capture делает снимок камерой. Разрешён только в Idle.
func (p *Pipeline) Capture(ctx context.Context, camera port.Camera) error {
	gen, err := p.begin("capture", entity.StateIdle, entity.StateCapturing)
	if err != nil {
		return err
	}

	img, err := camera.Capture(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stale(gen) {
		if img != nil {
			p.release(img)
		}
		p.logger.Printf("pipeline: capture finished after reset, discarded")
		return nil
	}
	if err != nil {
		p.state = entity.StateIdle
		p.logger.Printf("pipeline: capture failed: %v", err)
		return err
	}

	p.image = img
	p.result = nil
	p.state = entity.StateCaptured
	return nil
}

// Identify отправляет снимок в сервис распознавания. Разрешён только в Captured.
// При ошибке конвейер возвращается в Captured, снимок остаётся.
// Если конвейер сбросили во время запроса, возвращает nil, nil.
func (p *Pipeline) Identify(ctx context.Context) (*entity.DiagnosisResult, error) {
	p.mu.Lock()
	if err := p.check("identify", entity.StateCaptured); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	req := entity.DiagnosisRequest{Image: p.image, Language: p.language}
	p.state = entity.StateIdentifying
	gen := p.generation
	p.mu.Unlock()

	raw, err := p.identifier.Identify(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stale(gen) {
		p.logger.Printf("pipeline: identification finished after reset, discarded")
		return nil, nil
	}
	if err != nil {
		p.state = entity.StateCaptured
		switch {
		case apperrors.Is(err, apperrors.ErrNetworkFailure):
			p.logger.Printf("pipeline: identify failed (network): %v", err)
		case apperrors.Is(err, apperrors.ErrServiceError):
			p.logger.Printf("pipeline: identify failed (service): %v", err)
		default:
			p.logger.Printf("pipeline: identify failed: %v", err)
		}
		return nil, apperrors.NewIdentificationFailed(err)
	}

	result := AssembleDiagnosis(raw, req.Language)
	p.result = &result
	p.state = entity.StateResulted

	out := result
	return &out, nil
}

// Save сохраняет результат в историю. Разрешён только в Resulted.
// После успеха конвейер возвращается в Idle, при ошибке остаётся в Resulted.
func (p *Pipeline) Save(ctx context.Context) (*entity.HistoryRecord, error) {
	p.mu.Lock()
	if err := p.check("save", entity.StateResulted); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	result := *p.result
	p.state = entity.StateSaving
	gen := p.generation
	p.mu.Unlock()

	record, err := p.history.Save(ctx, result)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stale(gen) {
		p.logger.Printf("pipeline: save finished after reset, discarded")
		return nil, nil
	}
	if err != nil {
		p.state = entity.StateResulted
		p.logger.Printf("pipeline: save failed: %v", err)
		return nil, err
	}

	p.reset()
	return record, nil
}

// Retry выбрасывает снимок и результат. Разрешён в Captured и Resulted.
func (p *Pipeline) Retry() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check("retry", entity.StateCaptured, entity.StateResulted); err != nil {
		return err
	}
	p.reset()
	return nil
}

// SetLanguage меняет язык ответа. Разрешён в Captured и Resulted.
func (p *Pipeline) SetLanguage(lang entity.LanguageCode) error {
	if !lang.Valid() {
		return apperrors.NewInvalidRequest("unsupported language: " + string(lang))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return apperrors.NewInvalidState("set_language", "closed")
	}
	if !p.state.AllowsLanguageChange() {
		return apperrors.NewInvalidState("set_language", string(p.state))
	}
	p.language = lang
	return nil
}

// Close освобождает снимок и закрывает конвейер (уход с экрана).
// Ответы запросов, завершившихся позже, отбрасываются.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.reset()
}

// begin атомарно проверяет состояние и переводит конвейер в next
func (p *Pipeline) begin(op string, from, next entity.PipelineState) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check(op, from); err != nil {
		return 0, err
	}
	p.state = next
	return p.generation, nil
}

// check вызывается под мьютексом
func (p *Pipeline) check(op string, allowed ...entity.PipelineState) error {
	if p.closed {
		return apperrors.NewInvalidState(op, "closed")
	}
	for _, s := range allowed {
		if p.state == s {
			return nil
		}
	}
	return apperrors.NewInvalidState(op, string(p.state))
}

func (p *Pipeline) stale(gen uint64) bool {
	return p.closed || gen != p.generation
}

// reset вызывается под мьютексом
func (p *Pipeline) reset() {
	if p.image != nil {
		p.release(p.image)
	}
	p.image = nil
	p.result = nil
	p.state = entity.StateIdle
	p.generation++
}

func (p *Pipeline) release(img *entity.CapturedImage) {
	if err := img.Release(); err != nil {
		p.logger.Printf("pipeline: release image: %v", err)
	}
}
