package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/reviewbot/internal/review"
	"github.com/example/reviewbot/pkg/models"
)

// Reply keyboard labels and the commands they stand for.
const (
	buttonCheck  = "📚 Check materials"
	buttonStats  = "📊 Statistics"
	buttonList   = "📖 Materials list"
	buttonRandom = "🎲 Random material"
	buttonStreak = "🔥 Review streak"
	buttonHelp   = "❓ Help"
)

var buttonCommands = map[string]string{
	buttonCheck:  "check",
	buttonStats:  "stats",
	buttonList:   "list",
	buttonRandom: "random",
	buttonStreak: "streak",
	buttonHelp:   "help",
}

// Callback data prefixes; the material id follows.
const (
	callbackReviewed = "reviewed:"
	callbackLater    = "later:"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonCheck), tgbotapi.NewKeyboardButton(buttonStats)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonList), tgbotapi.NewKeyboardButton(buttonRandom)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonStreak), tgbotapi.NewKeyboardButton(buttonHelp)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func reviewKeyboard(materialID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Reviewed", callbackReviewed+materialID),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Later", callbackLater+materialID),
		),
	)
}

// emptyKeyboard removes an inline keyboard when sent as an edit.
func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}

func formatStats(m Messages, s review.StatsReport) string {
	achievements := m.NoAchievements
	if len(s.Achievements) > 0 {
		achievements = strings.Join(s.Achievements, "\n")
	}
	return fmt.Sprintf(m.Stats, s.CompletedCount, s.InProgressCount, s.Streak, s.Level, achievements)
}

func formatList(m Messages, materials []models.Material) string {
	var sb strings.Builder
	sb.WriteString(m.ListHeader)
	for _, mat := range materials {
		status := "📚"
		if mat.Completed {
			status = "✅"
		}
		fmt.Fprintf(&sb, m.ListItem, status+" "+mat.Text)
	}
	return sb.String()
}
