package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "leafdoctor-bot/internal/application"
	"leafdoctor-bot/internal/container"
	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/identity"
	"leafdoctor-bot/internal/infrastructure/capture"
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
	tempDir   string
	http      *http.Client
	wg        sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, tempDir string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
		tempDir:   tempDir,
		http:      &http.Client{},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer func() {
		b.api.StopReceivingUpdates()
		b.wg.Wait()
		b.container.Pipelines.CloseAll()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			// Обработчики идут параллельно; двойные нажатия отсекает конвейер
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID, userID := msg.Chat.ID, msg.From.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "identify":
		b.identify(ctx, chatID, userID)

	case "save":
		b.save(ctx, chatID, userID)

	case "retry":
		b.retry(chatID, userID)

	case "lang":
		b.setLanguage(chatID, userID, args)

	case "history":
		b.showHistory(ctx, chatID, userID, args)

	case "articles":
		b.showArticles(ctx, chatID, args)

	case "cancel":
		b.container.Pipelines.Close(chatID, userID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleCallback обрабатывает нажатия на кнопки под сообщениями
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
	if cb.Message == nil || cb.From == nil {
		return
	}

	chatID, userID := cb.Message.Chat.ID, cb.From.ID
	action, arg := parseCallback(cb.Data)

	switch action {
	case actionIdentify:
		b.identify(ctx, chatID, userID)
	case actionSave:
		b.save(ctx, chatID, userID)
	case actionRetry:
		b.retry(chatID, userID)
	case actionLanguage:
		b.setLanguage(chatID, userID, arg)
	default:
		log.Printf("Unknown callback data %q", cb.Data)
	}
}

// handlePhoto делает снимок из присланного фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	pipeline := b.container.Pipelines.Get(chatID, msg.From.ID)

	// Берём файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]
	source := capture.FuncSource(func(ctx context.Context) ([]byte, entity.ImageEncoding, error) {
		data, err := b.downloadFile(ctx, photo.FileID)
		if err != nil {
			return nil, "", err
		}
		encoding, err := capture.DetectEncoding(data)
		if err != nil {
			return nil, "", err
		}
		return data, encoding, nil
	})

	// Присланное фото означает, что пользователь сам дал доступ к снимку
	camera := capture.NewController(source, entity.PermissionGranted, b.tempDir).
		WithInspector(b.container.Inspector)

	if err := pipeline.Capture(ctx, camera); err != nil {
		b.sendMessage(chatID, messageFor(err))
		return
	}

	snap := pipeline.Snapshot()
	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf(msgPhotoReceived, snap.Language.Name()))
	reply.ReplyMarkup = capturedKeyboard()
	b.send(reply)
}

func (b *Bot) identify(ctx context.Context, chatID, userID int64) {
	pipeline := b.container.Pipelines.Get(chatID, userID)

	if pipeline.State() == entity.StateCaptured {
		b.sendMessage(chatID, msgProcessing)
	}

	result, err := pipeline.Identify(ctx)
	if err != nil {
		b.sendMessage(chatID, messageFor(err))
		return
	}
	if result == nil {
		// конвейер закрыли, пока шёл запрос
		return
	}

	reply := tgbotapi.NewMessage(chatID, formatResult(*result))
	reply.ReplyMarkup = resultKeyboard()
	b.send(reply)
}

func (b *Bot) save(ctx context.Context, chatID, userID int64) {
	record, err := b.container.Pipelines.Get(chatID, userID).Save(ctx)
	if err != nil {
		b.sendMessage(chatID, messageFor(err))
		return
	}
	if record == nil {
		return
	}
	b.sendMessage(chatID, msgSaved)
}

func (b *Bot) retry(chatID, userID int64) {
	if err := b.container.Pipelines.Get(chatID, userID).Retry(); err != nil {
		b.sendMessage(chatID, messageFor(err))
		return
	}
	b.sendMessage(chatID, msgAwaitingPhoto)
}

func (b *Bot) setLanguage(chatID, userID int64, arg string) {
	lang, ok := entity.ParseLanguage(arg)
	if !ok {
		reply := tgbotapi.NewMessage(chatID, msgChooseLanguage)
		reply.ReplyMarkup = languageKeyboard()
		b.send(reply)
		return
	}

	if err := b.container.Pipelines.Get(chatID, userID).SetLanguage(lang); err != nil {
		b.sendMessage(chatID, messageFor(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf(msgLanguageSet, lang.Name()))
}

func (b *Bot) showHistory(ctx context.Context, chatID, userID int64, query string) {
	session := identity.Fixed(container.TelegramIdentity(userID))
	records, err := b.container.HistoryService(session).ListMine(ctx, app.FilterOptions{Query: query})
	if err != nil {
		b.sendMessage(chatID, messageFor(err))
		return
	}
	b.sendMessage(chatID, formatHistory(records, historyPageSize))
}

func (b *Bot) showArticles(ctx context.Context, chatID int64, args string) {
	articles, err := b.container.ArticleService.Browse(ctx, parseArticleArgs(args))
	if err != nil {
		b.sendMessage(chatID, messageFor(err))
		return
	}
	b.sendMessage(chatID, formatArticles(articles, historyPageSize))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
