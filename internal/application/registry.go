package app

import "sync"

// PipelineFactory создаёт конвейер для чата и пользователя
type PipelineFactory func(chatID, userID int64) *Pipeline

// pipelineKey конвейер принадлежит пользователю внутри чата
type pipelineKey struct {
	chatID int64
	userID int64
}

// PipelineRegistry держит по одному конвейеру на пользователя в чате.
// В групповом чате у каждого участника свой снимок и своя история.
type PipelineRegistry struct {
	mu        sync.RWMutex
	pipelines map[pipelineKey]*Pipeline
	factory   PipelineFactory
}

// NewPipelineRegistry создаёт пустой реестр
func NewPipelineRegistry(factory PipelineFactory) *PipelineRegistry {
	return &PipelineRegistry{
		pipelines: make(map[pipelineKey]*Pipeline),
		factory:   factory,
	}
}

// Get возвращает конвейер пользователя в чате, создаёт новый если не найден
func (r *PipelineRegistry) Get(chatID, userID int64) *Pipeline {
	key := pipelineKey{chatID: chatID, userID: userID}

	r.mu.RLock()
	p, exists := r.pipelines[key]
	r.mu.RUnlock()

	if exists {
		return p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// другой обработчик мог успеть создать конвейер
	if p, exists := r.pipelines[key]; exists {
		return p
	}
	p = r.factory(chatID, userID)
	r.pipelines[key] = p
	return p
}

// Close закрывает конвейер пользователя в чате и удаляет его из реестра
func (r *PipelineRegistry) Close(chatID, userID int64) {
	key := pipelineKey{chatID: chatID, userID: userID}

	r.mu.Lock()
	p, exists := r.pipelines[key]
	delete(r.pipelines, key)
	r.mu.Unlock()

	if exists {
		p.Close()
	}
}

// CloseAll закрывает все конвейеры (остановка процесса)
func (r *PipelineRegistry) CloseAll() {
	r.mu.Lock()
	pipelines := r.pipelines
	r.pipelines = make(map[pipelineKey]*Pipeline)
	r.mu.Unlock()

	for _, p := range pipelines {
		p.Close()
	}
}

// Len возвращает число открытых конвейеров
func (r *PipelineRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pipelines)
}
