package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "leafdoctor-bot/internal/application"
	"leafdoctor-bot/internal/domain/entity"
	apperrors "leafdoctor-bot/internal/errors"
	"leafdoctor-bot/internal/infrastructure/vision"
	"leafdoctor-bot/internal/report"
)

const (
	msgStart = `👋 Hi! I identify plant diseases from leaf photos.

📸 Send me a photo of a leaf and I will tell you what is wrong with it.

📋 Commands:
/check — start a new diagnosis
/history [search] — your saved diagnoses
/articles [category:Name] [search] — plant care articles
/help — help
/cancel — cancel the current diagnosis`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Send a photo of the leaf
2️⃣ Pick the answer language (/lang en|si|ta|es|fr)
3️⃣ Press "Identify Disease"
4️⃣ Save the result or retry with another photo

📋 Commands:
/identify — identify the current photo
/save — save the result to history
/retry — discard the photo and result
/history [search] — saved diagnoses
/cancel — cancel the current diagnosis`

	msgAwaitingPhoto   = "📸 Send a photo of the leaf to check it for diseases."
	msgCancelled       = "❌ Diagnosis cancelled. Send a photo to start again."
	msgSendPhoto       = "📸 Please send a photo of the leaf."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgProcessing      = "⏳ Identifying disease..."
	msgPhotoReceived   = "🌿 Photo received. Answer language: %s."
	msgChooseLanguage  = "🌐 Choose the answer language:"
	msgLanguageSet     = "🌐 Answer language: %s."
	msgSaved           = "Saved to history 🌱"
	msgNoHistory       = "Your health diagnosis history will appear here"
	msgNoArticles      = "No articles found. Try adjusting your search or filters"
	msgPermission      = "📷 No camera access. Grant permission and try again."
	msgCaptureFailed   = "⚠️ Could not take the photo. Please try again."
	msgIdentifyFailed  = "⚠️ Failed to identify disease. Try again or retake the photo."
	msgSaveFailed      = "⚠️ Save failed. You can try saving again."
	msgSignInRequired  = "🔒 Please sign in first."
	msgBusy            = "⏳ Please wait, the previous action is still running."
	msgNothingToDo     = "🤷 Nothing to do yet. Send a photo of the leaf first."
	msgLoadFailed      = "⚠️ Unable to load data. Please check your connection and try again."
	msgProcessingError = "⚠️ Something went wrong. Please try again."
)

const (
	actionIdentify = "identify"
	actionSave     = "save"
	actionRetry    = "retry"
	actionLanguage = "lang"

	historyPageSize = 10
	maxSummaryRunes = 3000
	previewRunes    = 200
)

// messageFor переводит ошибку конвейера в сообщение для пользователя
func messageFor(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrPermissionDenied:
		return msgPermission
	case apperrors.ErrCaptureFailure:
		var qe *vision.QualityError
		if errors.As(err, &qe) {
			return "📷 " + qe.Hint()
		}
		return msgCaptureFailed
	case apperrors.ErrIdentificationFailed, apperrors.ErrNetworkFailure, apperrors.ErrServiceError:
		return msgIdentifyFailed
	case apperrors.ErrWriteFailure:
		return msgSaveFailed
	case apperrors.ErrReadFailure:
		return msgLoadFailed
	case apperrors.ErrUnauthenticated:
		return msgSignInRequired
	case apperrors.ErrInvalidState:
		return invalidStateMessage(err)
	case apperrors.ErrInvalidRequest:
		var e *apperrors.Error
		errors.As(err, &e)
		return "⚠️ " + e.Message
	default:
		return msgProcessingError
	}
}

func invalidStateMessage(err error) string {
	var e *apperrors.Error
	if !errors.As(err, &e) {
		return msgBusy
	}
	switch entity.PipelineState(fmt.Sprint(e.Details["state"])) {
	case entity.StateCapturing, entity.StateIdentifying, entity.StateSaving:
		return msgBusy
	case entity.StateCaptured, entity.StateResulted:
		return "🤷 Finish the current diagnosis first: identify, save or /retry."
	default:
		return msgNothingToDo
	}
}

// parseCallback разбирает данные кнопки вида "action" или "action:arg"
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

// parseArticleArgs разбирает "category:Plant Care leaf spot" или просто строку поиска
func parseArticleArgs(args string) app.FilterOptions {
	args = strings.TrimSpace(args)
	if !strings.HasPrefix(strings.ToLower(args), "category:") {
		return app.FilterOptions{Query: args}
	}

	rest := strings.TrimSpace(args[len("category:"):])
	for _, c := range entity.ArticleCategories {
		if len(rest) >= len(c) && strings.EqualFold(rest[:len(c)], c) {
			return app.FilterOptions{Category: c, Query: strings.TrimSpace(rest[len(c):])}
		}
	}
	category, query, _ := strings.Cut(rest, " ")
	return app.FilterOptions{Category: category, Query: strings.TrimSpace(query)}
}

func formatResult(r entity.DiagnosisResult) string {
	return fmt.Sprintf("🦠 Disease: %s\n📌 Summary: %s\n💊 Treatment: %s",
		r.DiseaseLabel, truncateRunes(r.Summary, maxSummaryRunes), r.Treatment)
}

func formatHistory(records []*entity.HistoryRecord, limit int) string {
	if len(records) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder
	suffix := "es"
	if len(records) == 1 {
		suffix = "is"
	}
	fmt.Fprintf(&sb, "📖 %d diagnos%s recorded\n", len(records), suffix)

	for i, rec := range records {
		if i == limit {
			fmt.Fprintf(&sb, "\n…and %d more", len(records)-limit)
			break
		}
		fmt.Fprintf(&sb, "\n🦠 %s · %s", rec.DisplayLabel(), report.FormatDate(rec.CreatedAt))
		if rec.Severity != entity.SeverityNone {
			fmt.Fprintf(&sb, " · Severity: %s", rec.Severity)
		}
		fmt.Fprintf(&sb, "\n%s\n", truncateRunes(rec.DisplaySummary(), previewRunes))
	}
	return sb.String()
}

func formatArticles(articles []*entity.ArticleRecord, limit int) string {
	if len(articles) == 0 {
		return msgNoArticles
	}

	var sb strings.Builder
	noun := "articles"
	if len(articles) == 1 {
		noun = "article"
	}
	fmt.Fprintf(&sb, "📚 %d %s\n", len(articles), noun)

	for i, a := range articles {
		if i == limit {
			fmt.Fprintf(&sb, "\n…and %d more", len(articles)-limit)
			break
		}
		category := a.Category
		if category == "" {
			category = "General"
		}
		fmt.Fprintf(&sb, "\n📰 %s [%s] · %s\n%s\n", a.Title, category,
			report.FormatDate(a.CreatedAt), truncateRunes(a.Summary, previewRunes))
	}
	return sb.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func capturedKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌱 Identify Disease", actionIdentify),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Retry", actionRetry),
		),
	}
	rows = append(rows, languageKeyboard().InlineKeyboard...)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func resultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Retry", actionRetry),
			tgbotapi.NewInlineKeyboardButtonData("💾 Save", actionSave),
		),
	)
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(entity.Languages))
	for _, lang := range entity.Languages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(lang.Name(), actionLanguage+":"+string(lang)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
