// Package bot routes inbound Telegram updates: commands, inline-keyboard
// selections, and free-text fetch queries. It owns the per-conversation
// mode/quality state and is the only writer of it.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cloudsongbot/cloudsong/internal/extractor"
)

// API is the outbound Telegram surface the controller needs. *tgbotapi.BotAPI
// satisfies it.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Fetcher runs one search-and-fetch operation.
type Fetcher interface {
	Fetch(ctx context.Context, req extractor.Request) (extractor.Result, error)
}

// Scheduler registers a delivered artifact for deferred deletion.
type Scheduler interface {
	Schedule(path string)
}

// Handler consumes one fully decoded update.
type Handler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}
