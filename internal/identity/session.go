package identity

import (
	"strings"
	"sync"

	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
)

// Session общее для процесса состояние входа.
// Заполняется и очищается провайдером идентификации; конвейер только читает его.
type Session struct {
	mu       sync.RWMutex
	identity *entity.Identity
	loading  bool
}

// NewSession создаёт пустую сессию в состоянии загрузки
func NewSession() *Session {
	return &Session{loading: true}
}

// SignIn запоминает личность и снимает флаг загрузки
func (s *Session) SignIn(id entity.Identity) error {
	id.Subject = strings.TrimSpace(id.Subject)
	if id.Subject == "" {
		return apperrors.NewInvalidRequest("identity subject is required")
	}

	s.mu.Lock()
	s.identity = &id
	s.loading = false
	s.mu.Unlock()
	return nil
}

// SignOut очищает сессию
func (s *Session) SignOut() {
	s.mu.Lock()
	s.identity = nil
	s.loading = false
	s.mu.Unlock()
}

// SetLoading выставляет флаг загрузки
func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// Loading сообщает, идёт ли ещё восстановление сессии
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Current возвращает текущую личность
func (s *Session) Current() (entity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return entity.Identity{}, false
	}
	return *s.identity, true
}

// fixedSession сессия с неизменной личностью (пользователь чата)
type fixedSession struct {
	identity entity.Identity
}

// Fixed возвращает сессию, которая всегда отдаёт id
func Fixed(id entity.Identity) port.SessionProvider {
	return fixedSession{identity: id}
}

func (f fixedSession) Current() (entity.Identity, bool) {
	if f.identity.Subject == "" {
		return entity.Identity{}, false
	}
	return f.identity, true
}

var _ port.SessionProvider = (*Session)(nil)
