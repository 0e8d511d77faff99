package port

import "leafdoctor-bot/internal/domain/entity"

// SessionProvider даёт доступ к текущей личности только на чтение
type SessionProvider interface {
	// Current возвращает текущую личность, если пользователь вошёл
	Current() (entity.Identity, bool)
}
