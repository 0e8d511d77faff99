package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"leafdoctor-bot/config"
	telegram "leafdoctor-bot/internal/api"
	app "leafdoctor-bot/internal/application"
	"leafdoctor-bot/internal/container"
	"leafdoctor-bot/internal/domain/entity"
	"leafdoctor-bot/internal/domain/port"
	apperrors "leafdoctor-bot/internal/errors"
	"leafdoctor-bot/internal/identity"
	"leafdoctor-bot/internal/infrastructure/capture"
	"leafdoctor-bot/internal/infrastructure/inference"
	"leafdoctor-bot/internal/infrastructure/storage"
	"leafdoctor-bot/internal/infrastructure/vision"
	"leafdoctor-bot/internal/report"
)

// env зависимости команд
type env struct {
	cfg      *config.Config
	db       *sql.DB
	history  *storage.SQLiteHistoryRepository
	articles *storage.SQLiteArticleRepository
	logger   *log.Logger

	// newIdentifier подменяется в тестах
	newIdentifier func(cfg *config.Config) (port.DiseaseIdentifier, error)
	// newCamera строит источник кадров для --camera
	newCamera func(device int) port.FrameSource
	inspector port.FrameInspector
}

func newEnv(db *sql.DB, cfg *config.Config) *env {
	e := &env{
		cfg:           cfg,
		db:            db,
		history:       storage.NewSQLiteHistoryRepository(db),
		articles:      storage.NewSQLiteArticleRepository(db),
		logger:        log.Default(),
		newIdentifier: geminiIdentifier,
		newCamera: func(device int) port.FrameSource {
			return capture.NewWebcamSource(device)
		},
	}
	// Проверка качества кадра включается только явно
	if cfg.QualityGate {
		e.inspector = vision.NewQualityGate()
	}
	return e
}

func geminiIdentifier(cfg *config.Config) (port.DiseaseIdentifier, error) {
	if err := cfg.ValidateDiagnose(); err != nil {
		return nil, err
	}
	client := inference.NewGeminiClient(cfg.GeminiAPIKey)
	client.Model = cfg.GeminiModel
	client.BaseURL = cfg.GeminiBaseURL
	return client, nil
}

// newCLIApp создаёт CLI-приложение со всеми командами
func newCLIApp(e *env) *cli.App {
	a := &cli.App{
		Name:    "leafdoctor",
		Usage:   "Plant leaf disease diagnosis",
		Version: Version,
		Commands: []*cli.Command{
			botCmd(e),
			diagnoseCmd(e),
			historyCmd(e),
			articlesCmd(e),
		},
	}
	// Ошибки возвращаются из Run, без os.Exit внутри cli
	a.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return a
}

func botCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "Run the Telegram bot",
		Action: func(c *cli.Context) error {
			if err := e.cfg.ValidateBot(); err != nil {
				return outputError(err)
			}
			identifier, err := e.newIdentifier(e.cfg)
			if err != nil {
				return outputError(err)
			}

			tempDir := filepath.Join(e.cfg.DataDir, "captures")
			if err := os.MkdirAll(tempDir, 0o700); err != nil {
				return outputError(apperrors.NewInternal(err))
			}

			// Собираем сервисы приложения
			appContainer := container.New(e.history, e.articles, identifier, e.cfg.DefaultLanguage, e.logger)
			appContainer.Inspector = e.inspector

			bot, err := telegram.NewBot(e.cfg.TelegramToken, appContainer, tempDir)
			if err != nil {
				return outputError(fmt.Errorf("failed to create bot: %w", err))
			}

			log.Println("Bot is running...")
			return bot.Run(c.Context)
		},
	}
}

func diagnoseCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "diagnose",
		Usage: "Identify the disease on a leaf photo",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "Path to a JPEG or PNG photo"},
			&cli.BoolFlag{Name: "camera", Usage: "Take the photo with the camera (CAMERA_DEVICE)"},
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "Answer language: en|si|ta|es|fr"},
			&cli.BoolFlag{Name: "save", Aliases: []string{"s"}, Usage: "Save the result to history"},
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Identity to save under (defaults to LEAFDOCTOR_USER)"},
		},
		Action: func(c *cli.Context) error {
			var source port.FrameSource
			switch {
			case c.Bool("camera") && c.String("image") != "":
				return outputError(apperrors.NewInvalidRequest("use either --image or --camera"))
			case c.Bool("camera"):
				source = e.newCamera(e.cfg.CameraDevice)
			case c.String("image") != "":
				source = capture.FileSource{Path: c.String("image")}
			default:
				return outputError(apperrors.NewInvalidRequest("--image or --camera is required"))
			}

			lang := e.cfg.DefaultLanguage
			if c.IsSet("lang") {
				parsed, ok := entity.ParseLanguage(c.String("lang"))
				if !ok {
					return outputError(apperrors.NewInvalidRequest("unsupported language: " + c.String("lang")))
				}
				lang = parsed
			}

			session, err := e.session(c)
			if err != nil {
				return outputError(err)
			}
			// Без пользователя сохранить нечего, распознавание не запускаем
			if c.Bool("save") {
				if _, ok := session.Current(); !ok {
					return outputError(apperrors.NewUnauthenticated())
				}
			}

			identifier, err := e.newIdentifier(e.cfg)
			if err != nil {
				return outputError(err)
			}

			pipeline := app.NewPipeline(identifier, app.NewHistoryService(e.history, session, e.logger), lang, e.logger)
			defer pipeline.Close()

			// Запуск из командной строки и есть разрешение на съёмку
			camera := capture.NewController(source, entity.PermissionGranted, "").WithInspector(e.inspector)
			if err := pipeline.Capture(c.Context, camera); err != nil {
				return outputError(err)
			}

			result, err := pipeline.Identify(c.Context)
			if err != nil {
				return outputError(err)
			}

			out := diagnoseOutput{
				DiseaseLabel: result.DiseaseLabel,
				Summary:      result.Summary,
				Treatment:    result.Treatment,
				Language:     string(result.Language),
			}

			if c.Bool("save") {
				record, err := pipeline.Save(c.Context)
				if err != nil {
					return outputError(err)
				}
				out.RecordID = record.ID
				out.CreatedAt = record.CreatedAt.UTC().Format(time.RFC3339)
			}

			return outputJSON(c, out)
		},
	}
}

func historyCmd(e *env) *cli.Command {
	userFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Identity whose history to use (defaults to LEAFDOCTOR_USER)"}
	}

	return &cli.Command{
		Name:  "history",
		Usage: "Show saved diagnoses",
		Flags: []cli.Flag{
			userFlag(),
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search in label, summary and treatment"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Severity filter: low|medium|high"},
			&cli.StringFlag{Name: "html", Usage: "Write a standalone HTML page to this path"},
		},
		Action: func(c *cli.Context) error {
			session, err := e.session(c)
			if err != nil {
				return outputError(err)
			}

			opts := app.FilterOptions{Query: c.String("query"), Category: c.String("category")}
			records, err := app.NewHistoryService(e.history, session, e.logger).ListMine(c.Context, opts)
			if err != nil {
				return outputError(err)
			}

			if path := c.String("html"); path != "" {
				if err := writeHistoryHTML(path, records, opts); err != nil {
					return outputError(apperrors.NewInternal(err))
				}
				return outputJSON(c, map[string]any{"path": path, "count": len(records)})
			}

			items := make([]historyItem, 0, len(records))
			for _, rec := range records {
				items = append(items, newHistoryItem(rec))
			}
			return outputJSON(c, historyOutput{Items: items, Count: len(items)})
		},
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Delete all saved diagnoses of the identity",
				Flags: []cli.Flag{userFlag()},
				Action: func(c *cli.Context) error {
					session, err := e.session(c)
					if err != nil {
						return outputError(err)
					}
					id, ok := session.Current()
					if !ok {
						return outputError(apperrors.NewUnauthenticated())
					}

					n, err := e.history.DeleteByOwner(c.Context, id.Subject)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, map[string]any{"deleted": n})
				},
			},
		},
	}
}

func articlesCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "articles",
		Usage: "Browse plant care articles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search in title, summary and category"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: entity.CategoryAll,
				Usage: "Category: " + strings.Join(entity.ArticleCategories, ", ")},
		},
		Action: func(c *cli.Context) error {
			opts := app.FilterOptions{Query: c.String("query"), Category: c.String("category")}
			articles, err := app.NewArticleService(e.articles).Browse(c.Context, opts)
			if err != nil {
				return outputError(err)
			}

			items := make([]articleItem, 0, len(articles))
			for _, a := range articles {
				items = append(items, newArticleItem(a))
			}
			return outputJSON(c, articlesOutput{Items: items, Count: len(items)})
		},
		Subcommands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import articles from a JSON array file",
				ArgsUsage: "<file.json>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return outputError(apperrors.NewInvalidRequest("exactly one file path is required"))
					}

					articles, err := readArticles(c.Args().First())
					if err != nil {
						return outputError(err)
					}

					n, err := app.NewArticleService(e.articles).Import(c.Context, articles)
					if err != nil {
						return outputError(fmt.Errorf("imported %d of %d: %w", n, len(articles), err))
					}
					return outputJSON(c, map[string]any{"imported": n})
				},
			},
		},
	}
}

// session собирает сессию CLI из --user или LEAFDOCTOR_USER
func (e *env) session(c *cli.Context) (*identity.Session, error) {
	session := identity.NewSession()

	user := c.String("user")
	if user == "" {
		user = e.cfg.User
	}
	if user == "" {
		session.SetLoading(false)
		return session, nil
	}

	if err := session.SignIn(entity.Identity{Subject: user, DisplayName: user}); err != nil {
		return nil, err
	}
	return session, nil
}

type diagnoseOutput struct {
	DiseaseLabel string `json:"disease_label"`
	Summary      string `json:"summary"`
	Treatment    string `json:"treatment"`
	Language     string `json:"language"`
	RecordID     string `json:"record_id,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type historyItem struct {
	ID           string `json:"id"`
	DiseaseLabel string `json:"disease_label"`
	Summary      string `json:"summary"`
	Treatment    string `json:"treatment"`
	Language     string `json:"language"`
	Severity     string `json:"severity,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func newHistoryItem(rec *entity.HistoryRecord) historyItem {
	return historyItem{
		ID:           rec.ID,
		DiseaseLabel: rec.DisplayLabel(),
		Summary:      rec.DisplaySummary(),
		Treatment:    rec.Treatment,
		Language:     string(rec.Language),
		Severity:     string(rec.Severity),
		CreatedAt:    report.FormatDate(rec.CreatedAt),
	}
}

type historyOutput struct {
	Items []historyItem `json:"items"`
	Count int           `json:"count"`
}

type articleItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"created_at"`
}

func newArticleItem(a *entity.ArticleRecord) articleItem {
	return articleItem{
		ID:        a.ID,
		Title:     a.Title,
		Summary:   a.Summary,
		Category:  a.Category,
		CreatedAt: report.FormatDate(a.CreatedAt),
	}
}

type articlesOutput struct {
	Items []articleItem `json:"items"`
	Count int           `json:"count"`
}

// articleFile формат файла импорта
type articleFile struct {
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Category  string     `json:"category"`
	CreatedAt *time.Time `json:"created_at"`
}

func readArticles(path string) ([]entity.ArticleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", path, err))
	}

	var raw []articleFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewInvalidRequest(fmt.Sprintf("%s is not a JSON array of articles: %v", path, err))
	}

	articles := make([]entity.ArticleRecord, 0, len(raw))
	for i, r := range raw {
		if strings.TrimSpace(r.Title) == "" {
			return nil, apperrors.NewInvalidRequest(fmt.Sprintf("article %d has no title", i))
		}
		a := entity.ArticleRecord{Title: r.Title, Summary: r.Summary, Category: r.Category}
		if r.CreatedAt != nil {
			a.CreatedAt = *r.CreatedAt
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func writeHistoryHTML(path string, records []*entity.HistoryRecord, opts app.FilterOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	page := report.BuildHistoryPage(records, opts.Query, opts.Category, time.Now())
	if err := report.WriteHistory(f, page); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outputJSON печатает результат в stdout приложения
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError форматирует ошибку для CLI
func outputError(err error) error {
	var e *apperrors.Error
	if errors.As(err, &e) {
		msg := e.Message
		if err != e {
			// обёрнутая ошибка: сохраняем контекст обёртки
			msg = err.Error()
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", e.Code, msg), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// runContext отменяется по Ctrl+C
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
