package container

import (
	"fmt"
	"log"

	app "leafdoctor-bot/internal/application"
	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	"leafdoctor-bot/internal/identity"
)

type Container struct {
	HistoryRepo    port.HistoryRepository
	Identifier     port.DiseaseIdentifier
	Inspector      port.FrameInspector // nil: кадры не проверяются
	ArticleService *app.ArticleService
	Pipelines      *app.PipelineRegistry

	language entity.LanguageCode
	logger   *log.Logger
}

func New(historyRepo port.HistoryRepository, articleRepo port.ArticleRepository, identifier port.DiseaseIdentifier, lang entity.LanguageCode, logger *log.Logger) *Container {
	if logger == nil {
		logger = log.Default()
	}

	c := &Container{
		HistoryRepo:    historyRepo,
		Identifier:     identifier,
		ArticleService: app.NewArticleService(articleRepo),
		language:       lang,
		logger:         logger,
	}

	// Каждый пользователь в чате получает свой конвейер; личность берётся из Telegram
	c.Pipelines = app.NewPipelineRegistry(func(chatID, userID int64) *app.Pipeline {
		return c.NewPipeline(identity.Fixed(TelegramIdentity(userID)))
	})

	return c
}

// HistoryService сервис истории для данной сессии
func (c *Container) HistoryService(session port.SessionProvider) *app.HistoryService {
	return app.NewHistoryService(c.HistoryRepo, session, c.logger)
}

// NewPipeline собирает конвейер для данной сессии
func (c *Container) NewPipeline(session port.SessionProvider) *app.Pipeline {
	return app.NewPipeline(c.Identifier, c.HistoryService(session), c.language, c.logger)
}

// TelegramIdentity личность пользователя Telegram
func TelegramIdentity(userID int64) entity.Identity {
	return entity.Identity{Subject: fmt.Sprintf("tg:%d", userID)}
}
