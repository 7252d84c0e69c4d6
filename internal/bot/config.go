package bot

import "github.com/example/reviewbot/internal/excel"

// Messages holds every text the bot sends.
type Messages struct {
	Welcome        string
	Help           string
	NoReviews      string
	ReviewReady    string // %s: material text
	Stats          string // completed, in progress, streak, level, achievements
	NoAchievements string
	ListEmpty      string
	ListHeader     string
	ListItem       string // %s: status marker and text
	NoMaterials    string
	Random         string
	Streak         string // %d: streak, %s: motivation
	MaterialAdded  string
	Reminder       string // %d: due count
	Reviewed       string // %d: streak
	ReviewedPlain  string // %s: motivation
	Achievement    string // %s: badge
	Later          string
	Imported       string // %d: count
	ImportFailed   string
	Unsupported    string
	FileTooLarge   string
	Failure        string
}

// BotConfig represents the configuration for the bot
type BotConfig struct {
	Messages   Messages
	Motivation []string
	Import     excel.ImportConfig
	// Documents larger than this are not downloaded.
	MaxImportBytes int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		Messages: Messages{
			Welcome: "👋 Hi! I help you remember what you learn.\n\n" +
				"Send me any text and I will remind you to review it after 1, 3, 7, 14 and 30 days.",
			Help: "How it works:\n" +
				"• send any text to add it as a material\n" +
				"• /check shows materials due today\n" +
				"• /stats shows your progress\n" +
				"• /list lists all materials\n" +
				"• /random picks a random material\n" +
				"• /streak shows your review streak\n" +
				"• /export sends your materials as a spreadsheet\n" +
				"• /remind sends your review reminder now\n" +
				"• send an .xlsx or .csv file to import its first column",
			NoReviews:      "🎉 Nothing to review right now!",
			ReviewReady:    "📚 Time to review:\n\n%s",
			Stats:          "📊 Your statistics\n\nCompleted: %d\nIn progress: %d\nStreak: %d days\nLevel: %s\n\n🏆 Achievements:\n%s",
			NoAchievements: "No achievements yet",
			ListEmpty:      "You have no materials yet. Send me some text to add one.",
			ListHeader:     "📖 Your materials:\n\n",
			ListItem:       "%s\n",
			NoMaterials:    "You have no materials yet.",
			Random:         "🎲 Random material:\n\n",
			Streak:         "🔥 Your review streak: %d days\n\n%s",
			MaterialAdded:  "✅ Material added! The first review is tomorrow.",
			Reminder:       "⏰ You have %d materials to review! Tap \"📚 Check materials\" to start.",
			Reviewed:       "✅ Done! Review streak: %d days! 🔥",
			ReviewedPlain:  "✅ Done! %s",
			Achievement:    "🏆 New achievement unlocked: %s",
			Later:          "👌 OK, I will remind you later!",
			Imported:       "📥 Imported %d materials.",
			ImportFailed:   "❌ Could not read that file.",
			Unsupported:    "Send an .xlsx or .csv file to import materials.",
			FileTooLarge:   "That file is too large to import.",
			Failure:        "Something went wrong, please try again later.",
		},
		Motivation: []string{
			"Keep going, every review counts! 💪",
			"Repetition is the mother of learning! 📚",
			"Small steps every day add up! 🚀",
			"Your memory thanks you! 🧠",
			"Great job, see you tomorrow! ⭐",
		},
		Import:         excel.DefaultImportConfig(),
		MaxImportBytes: 5 << 20,
	}
}
