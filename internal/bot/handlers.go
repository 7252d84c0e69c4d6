package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/reviewbot/internal/excel"
)

var errFileTooLarge = errors.New("file exceeds import limit")

func userKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID
	userID := userKey(chatID)
	msgs := b.config.Messages

	if err := b.engine.EnsureUser(ctx, userID); err != nil {
		b.log.Error("failed to create user", "user_id", userID, "error", err)
		b.reply(chatID, msgs.Failure)
		return
	}

	command := message.Command()
	if command == "" {
		command = buttonCommands[message.Text]
	}

	switch command {
	case "start":
		msg := tgbotapi.NewMessage(chatID, msgs.Welcome)
		msg.ReplyMarkup = mainKeyboard()
		if _, err := b.api.Send(msg); err != nil {
			b.log.Warn("failed to send welcome", "chat_id", chatID, "error", err)
		}
	case "help":
		b.reply(chatID, msgs.Help)
	case "check":
		b.handleCheck(chatID, userID)
	case "stats":
		b.reply(chatID, formatStats(msgs, b.engine.GetStats(userID)))
	case "list":
		materials := b.engine.GetAllMaterials(userID)
		if len(materials) == 0 {
			b.reply(chatID, msgs.ListEmpty)
			return
		}
		b.reply(chatID, formatList(msgs, materials))
	case "random":
		m, ok := b.engine.GetRandomMaterial(userID)
		if !ok {
			b.reply(chatID, msgs.NoMaterials)
			return
		}
		b.reply(chatID, msgs.Random+m.Text)
	case "streak":
		stats := b.engine.GetStats(userID)
		b.reply(chatID, fmt.Sprintf(msgs.Streak, stats.Streak, b.motivation()))
	case "export":
		b.handleExport(chatID, userID)
	case "remind":
		b.handleRemind(ctx, chatID, userID)
	default:
		switch {
		case message.IsCommand():
			b.reply(chatID, msgs.Help)
		case message.Document != nil:
			b.handleDocument(ctx, chatID, userID, message.Document)
		case strings.TrimSpace(message.Text) != "":
			b.handleAddMaterial(ctx, chatID, userID, message.Text)
		}
	}
}

func (b *Bot) handleAddMaterial(ctx context.Context, chatID int64, userID, text string) {
	if _, err := b.engine.AddMaterial(ctx, userID, text); err != nil {
		b.log.Error("failed to add material", "user_id", userID, "error", err)
		b.reply(chatID, b.config.Messages.Failure)
		return
	}
	b.reply(chatID, b.config.Messages.MaterialAdded)
}

// handleCheck sends one message with review buttons per due material.
func (b *Bot) handleCheck(chatID int64, userID string) {
	due := b.engine.GetDueReviews(userID)
	if len(due) == 0 {
		b.reply(chatID, b.config.Messages.NoReviews)
		return
	}
	for _, m := range due {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(b.config.Messages.ReviewReady, m.Text))
		msg.ReplyMarkup = reviewKeyboard(m.ID)
		if _, err := b.api.Send(msg); err != nil {
			b.log.Warn("failed to send review", "chat_id", chatID, "material_id", m.ID, "error", err)
		}
	}
}

// handleRemind sends the scheduled reminder right away, outside
// notification hours too.
func (b *Bot) handleRemind(ctx context.Context, chatID int64, userID string) {
	if b.remind == nil {
		b.reply(chatID, b.config.Messages.Help)
		return
	}
	sent, err := b.remind.RunManualCheck(ctx, userID)
	if err != nil {
		b.log.Warn("manual reminder failed", "user_id", userID, "error", err)
		b.reply(chatID, b.config.Messages.Failure)
		return
	}
	if !sent {
		b.reply(chatID, b.config.Messages.NoReviews)
	}
}

func (b *Bot) handleExport(chatID int64, userID string) {
	materials := b.engine.GetAllMaterials(userID)
	if len(materials) == 0 {
		b.reply(chatID, b.config.Messages.ListEmpty)
		return
	}
	var buf bytes.Buffer
	if err := excel.WriteMaterials(&buf, materials); err != nil {
		b.log.Error("failed to export materials", "user_id", userID, "error", err)
		b.reply(chatID, b.config.Messages.Failure)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "materials.xlsx", Bytes: buf.Bytes()})
	if _, err := b.api.Send(doc); err != nil {
		b.log.Warn("failed to send export", "chat_id", chatID, "error", err)
	}
}

// handleDocument imports the first column of an uploaded spreadsheet.
func (b *Bot) handleDocument(ctx context.Context, chatID int64, userID string, doc *tgbotapi.Document) {
	msgs := b.config.Messages
	if !excel.IsSupported(doc.FileName) {
		b.reply(chatID, msgs.Unsupported)
		return
	}
	if doc.FileSize > b.config.MaxImportBytes {
		b.reply(chatID, msgs.FileTooLarge)
		return
	}

	texts, err := b.download(ctx, doc)
	if errors.Is(err, errFileTooLarge) {
		b.reply(chatID, msgs.FileTooLarge)
		return
	}
	if err != nil {
		b.log.Warn("failed to read uploaded file", "user_id", userID, "file", doc.FileName, "error", err)
		b.reply(chatID, msgs.ImportFailed)
		return
	}
	n, err := b.engine.ImportMaterials(ctx, userID, texts)
	if err != nil {
		b.log.Error("failed to import materials", "user_id", userID, "error", err)
		b.reply(chatID, msgs.Failure)
		return
	}
	b.reply(chatID, fmt.Sprintf(msgs.Imported, n))
}

func (b *Bot) download(ctx context.Context, doc *tgbotapi.Document) ([]string, error) {
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(b.config.MaxImportBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if len(body) > b.config.MaxImportBytes {
		return nil, errFileTooLarge
	}
	return excel.ReadMaterials(bytes.NewReader(body), doc.FileName, b.config.Import)
}

// handleCallback handles inline button taps under review messages.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	msgs := b.config.Messages
	if cb.Message == nil || cb.Message.Chat == nil {
		b.answer(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	userID := userKey(chatID)

	switch {
	case strings.HasPrefix(cb.Data, callbackReviewed):
		materialID := strings.TrimPrefix(cb.Data, callbackReviewed)
		res, err := b.engine.MarkReviewedByID(ctx, userID, materialID)
		if err != nil {
			b.log.Error("failed to mark reviewed", "user_id", userID, "material_id", materialID, "error", err)
			b.answer(cb.ID, msgs.Failure)
			return
		}
		if res.Streak > 1 {
			b.answer(cb.ID, fmt.Sprintf(msgs.Reviewed, res.Streak))
		} else {
			b.answer(cb.ID, fmt.Sprintf(msgs.ReviewedPlain, b.motivation()))
		}
		for _, badge := range res.NewAchievements {
			b.reply(chatID, fmt.Sprintf(msgs.Achievement, badge))
		}
	case strings.HasPrefix(cb.Data, callbackLater):
		b.answer(cb.ID, msgs.Later)
	default:
		b.answer(cb.ID, "")
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, emptyKeyboard())
	if _, err := b.api.Request(edit); err != nil {
		b.log.Warn("failed to remove review buttons", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Warn("failed to answer callback", "callback_id", callbackID, "error", err)
	}
}
