package config

// TelegramConfig holds the bot credentials order notifications are forwarded with
type TelegramConfig struct {
	BotToken string
	ChatID   string
	// APIBase is overridable so tests can point the client at a local server
	APIBase string
}

// LoadTelegramConfig loads Telegram configuration from environment variables.
// Missing credentials are not an error; Enabled reports whether forwarding is possible.
func LoadTelegramConfig(getenv func(string) string) TelegramConfig {
	config := TelegramConfig{
		BotToken: getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:   getenv("TELEGRAM_CHAT_ID"),
		APIBase:  getenv("TELEGRAM_API_BASE"),
	}
	if config.APIBase == "" {
		config.APIBase = "https://api.telegram.org"
	}
	return config
}

// Enabled reports whether both credentials are present
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}
