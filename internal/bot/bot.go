// Package bot is the Telegram front-end of the review engine.
package bot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/reviewbot/internal/logger"
	"github.com/example/reviewbot/internal/review"
	"github.com/example/reviewbot/pkg/models"
)

// reviewService is the part of review.Engine the bot calls.
type reviewService interface {
	EnsureUser(ctx context.Context, userID string) error
	AddMaterial(ctx context.Context, userID, text string) (models.Material, error)
	ImportMaterials(ctx context.Context, userID string, texts []string) (int, error)
	GetDueReviews(userID string) []models.Material
	MarkReviewedByID(ctx context.Context, userID, materialID string) (review.ReviewResult, error)
	GetStats(userID string) review.StatsReport
	GetAllMaterials(userID string) []models.Material
	GetRandomMaterial(userID string) (models.Material, bool)
}

// sender is the part of tgbotapi.BotAPI used to talk to Telegram.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot represents the Telegram bot application
type Bot struct {
	api     sender
	updates *tgbotapi.BotAPI
	engine  reviewService
	remind  manualReminder
	config  *BotConfig
	client  *http.Client
	intn    func(n int) int
	log     *logger.Logger

	handlers sync.WaitGroup
	stopOnce sync.Once
}

// manualReminder sends a user their reminder on demand.
type manualReminder interface {
	RunManualCheck(ctx context.Context, userID string) (bool, error)
}

// New authorizes with token and returns a bot serving engine.
func New(token string, engine reviewService, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Info("authorized on telegram", "account", api.Self.UserName)

	b := newBot(api, engine, log)
	b.updates = api
	return b, nil
}

func newBot(api sender, engine reviewService, log *logger.Logger) *Bot {
	return &Bot{
		api:    api,
		engine: engine,
		config: DefaultConfig(),
		client: &http.Client{Timeout: 30 * time.Second},
		intn:   rand.IntN,
		log:    log.With("component", "bot"),
	}
}

// SetReminder enables the /remind command.
func (b *Bot) SetReminder(r manualReminder) {
	b.remind = r
}

// Start receives updates until ctx is done. Each update is handled in its
// own goroutine; handlers keep running after ctx is done until Stop has
// waited for them.
func (b *Bot) Start(ctx context.Context) error {
	if b.updates == nil {
		return fmt.Errorf("bot has no telegram connection")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.updates.GetUpdatesChan(updateConfig)

	handlerCtx := context.WithoutCancel(ctx)
	b.log.Info("bot started")
	for {
		select {
		case <-ctx.Done():
			b.stopReceiving()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handlers.Add(1)
			go func() {
				defer b.handlers.Done()
				b.handleUpdate(handlerCtx, update)
			}()
		}
	}
}

// Stop stops receiving updates and waits for running handlers. It is safe to
// call more than once and after Start has returned.
func (b *Bot) Stop() {
	b.stopReceiving()
	b.handlers.Wait()
	b.log.Info("bot stopped")
}

func (b *Bot) stopReceiving() {
	b.stopOnce.Do(func() {
		if b.updates != nil {
			b.updates.StopReceivingUpdates()
		}
	})
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(ctx context.Context, userID string, count int) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("user id %q is not a chat id: %w", userID, err)
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(b.config.Messages.Reminder, count))
	msg.ReplyMarkup = mainKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	b.log.Debug("reminder sent", "user_id", userID, "due", count)
	return nil
}

func (b *Bot) motivation() string {
	if len(b.config.Motivation) == 0 {
		return ""
	}
	return b.config.Motivation[b.intn(len(b.config.Motivation))]
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("failed to send message", "chat_id", chatID, "error", err)
	}
}
