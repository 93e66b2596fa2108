package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cloudsongbot/cloudsong/internal/convstate"
	"github.com/cloudsongbot/cloudsong/internal/extractor"
)

// phase of a conversation, derived from stored state rather than tracked
// separately. Link mode needs no parameter, so choosing it is enough to
// accept queries.
type phase int

const (
	phaseAwaitingMode phase = iota
	phaseAwaitingParam
	phaseReady
)

func phaseOf(st convstate.State) phase {
	switch st.Mode {
	case convstate.ModeAudio:
		if st.Quality == "" {
			return phaseAwaitingParam
		}
		return phaseReady
	case convstate.ModeVideo:
		if st.Resolution == "" {
			return phaseAwaitingParam
		}
		return phaseReady
	case convstate.ModeLink:
		return phaseReady
	default:
		return phaseAwaitingMode
	}
}

// Controller turns decoded updates into state transitions, fetches, and
// replies. One update in, at most one outcome reply out.
type Controller struct {
	logger    *slog.Logger
	api       API
	states    *convstate.Store
	fetcher   Fetcher
	retention Scheduler
	owner     string

	now func() time.Time
}

// NewController wires the conversation controller.
func NewController(log *slog.Logger, api API, states *convstate.Store, fetcher Fetcher, retention Scheduler, owner string) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		logger:    log.With(slog.String("service", "bot")),
		api:       api,
		states:    states,
		fetcher:   fetcher,
		retention: retention,
		owner:     owner,
		now:       time.Now,
	}
}

// HandleUpdate routes one update. Errors are reported to the chat, never
// returned; nothing from here may take the process down.
func (c *Controller) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		c.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		c.handleCommand(update.Message)
	case update.Message != nil:
		c.handleText(ctx, update.Message)
	}
}

func (c *Controller) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		name := "there"
		if msg.From != nil && strings.TrimSpace(msg.From.FirstName) != "" {
			name = strings.TrimSpace(msg.From.FirstName)
		}
		c.reply(chatID, fmt.Sprintf("%s, %s! 👋\nSend me a song name and I will deliver it to you immediately.\nUse /mode to pick how you want it delivered.", greeting(c.now().Hour()), name))
	case "help":
		c.reply(chatID, "Here is how it works:\n/mode - choose audio, video, or link delivery\nThen send any song name and I will fetch it for you.\n/about - who runs this bot")
	case "about":
		c.reply(chatID, fmt.Sprintf("CloudSong fetches music on demand.\nOwner: %s", c.owner))
	case "mode":
		prompt := tgbotapi.NewMessage(chatID, "Pick a delivery mode:")
		prompt.ReplyMarkup = modeKeyboard()
		c.send(prompt)
	default:
		c.reply(chatID, "Unknown command. Try /help.")
	}
}

func (c *Controller) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == callbackModeAudio:
		c.states.SetMode(chatID, convstate.ModeAudio)
		c.answerCallback(cb.ID, "Audio mode")
		prompt := tgbotapi.NewMessage(chatID, "Audio it is. Pick a bitrate:")
		prompt.ReplyMarkup = qualityKeyboard()
		c.send(prompt)
	case data == callbackModeVideo:
		c.states.SetMode(chatID, convstate.ModeVideo)
		c.answerCallback(cb.ID, "Video mode")
		prompt := tgbotapi.NewMessage(chatID, "Video it is. Pick a resolution:")
		prompt.ReplyMarkup = resolutionKeyboard()
		c.send(prompt)
	case data == callbackModeLink:
		c.states.SetMode(chatID, convstate.ModeLink)
		c.answerCallback(cb.ID, "Link mode")
		c.reply(chatID, "Link mode selected. Send me a song name and I will reply with its link.")
	case strings.HasPrefix(data, callbackQualityPrefix):
		c.states.SetQuality(chatID, strings.TrimPrefix(data, callbackQualityPrefix))
		c.answerCallback(cb.ID, "Bitrate saved")
		c.reply(chatID, "All set. Send me a song name!")
	case strings.HasPrefix(data, callbackResolutionPrefix):
		c.states.SetResolution(chatID, strings.TrimPrefix(data, callbackResolutionPrefix))
		c.answerCallback(cb.ID, "Resolution saved")
		c.reply(chatID, "All set. Send me a song name!")
	default:
		c.logger.Warn("unknown callback", slog.String("data", data))
		c.answerCallback(cb.ID, "")
	}
}

func (c *Controller) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st := c.states.Get(chatID)

	switch phaseOf(st) {
	case phaseAwaitingMode:
		prompt := tgbotapi.NewMessage(chatID, "Pick a delivery mode first:")
		prompt.ReplyMarkup = modeKeyboard()
		c.send(prompt)
		return
	case phaseAwaitingParam:
		prompt := tgbotapi.NewMessage(chatID, "Almost there. Pick a quality first:")
		if st.Mode == convstate.ModeVideo {
			prompt.ReplyMarkup = resolutionKeyboard()
		} else {
			prompt.ReplyMarkup = qualityKeyboard()
		}
		c.send(prompt)
		return
	}

	query := strings.TrimSpace(msg.Text)
	if query == "" {
		c.reply(chatID, "❌ Please provide a song name!")
		return
	}

	if _, err := c.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		c.logger.Debug("typing action failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
	c.reply(chatID, fmt.Sprintf("🎵 Working on: %s ...", query))

	res, err := c.fetcher.Fetch(ctx, extractor.Request{Query: query, Mode: st.Mode, Param: st.Param()})
	if err != nil {
		if res.FilePath != "" {
			if rmErr := os.Remove(res.FilePath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				c.logger.Warn("cleanup after failed fetch", slog.String("path", res.FilePath), slog.Any("error", rmErr))
			}
		}
		c.reply(chatID, failureMessage(err))
		c.logger.Error("fetch failed",
			slog.Int64("chat_id", chatID),
			slog.String("mode", string(st.Mode)),
			slog.Any("error", err))
		return
	}

	c.deliver(chatID, st.Mode, res)
}

// deliver sends the fetch outcome. The artifact is removed unless it was
// actually handed to the chat, so delivery errors never strand files.
func (c *Controller) deliver(chatID int64, mode convstate.Mode, res extractor.Result) {
	delivered := false
	if res.FilePath != "" {
		defer func() {
			if !delivered {
				if err := os.Remove(res.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
					c.logger.Warn("cleanup after failed delivery", slog.String("path", res.FilePath), slog.Any("error", err))
				}
			}
		}()
	}

	switch mode {
	case convstate.ModeLink:
		if res.SourceURL == "" {
			c.reply(chatID, "❌ No link came back for that one. Try another name.")
			return
		}
		c.reply(chatID, fmt.Sprintf("🔗 %s\n%s", res.Title, res.SourceURL))
		return
	case convstate.ModeVideo:
		video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(res.FilePath))
		video.Caption = res.Title
		if _, err := c.api.Send(video); err != nil {
			c.logger.Error("send video failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
			c.reply(chatID, "❌ Fetched the video but could not deliver it. Try again.")
			return
		}
	default:
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(res.FilePath))
		audio.Title = res.Title
		if _, err := c.api.Send(audio); err != nil {
			c.logger.Error("send audio failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
			c.reply(chatID, "❌ Fetched the song but could not deliver it. Try again.")
			return
		}
	}

	delivered = true
	c.retention.Schedule(res.FilePath)
	c.logger.Info("delivered",
		slog.Int64("chat_id", chatID),
		slog.String("mode", string(mode)),
		slog.String("title", res.Title))
}

func (c *Controller) reply(chatID int64, text string) {
	c.send(tgbotapi.NewMessage(chatID, text))
}

func (c *Controller) send(msg tgbotapi.Chattable) {
	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("send failed", slog.Any("error", err))
	}
}

func (c *Controller) answerCallback(id, text string) {
	if _, err := c.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		c.logger.Debug("answer callback failed", slog.Any("error", err))
	}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, extractor.ErrNoResults):
		return "❌ No results found. Try another name."
	default:
		return fmt.Sprintf("❌ Could not fetch that one. Try another name.\nError: %s", shortReason(err))
	}
}

// shortReason keeps user-facing diagnostics to the innermost cause, trimmed
// so raw backend output never floods the chat.
func shortReason(err error) string {
	cause := err
	for {
		next := errors.Unwrap(cause)
		if next == nil {
			break
		}
		cause = next
	}
	reason := cause.Error()
	if len(reason) > 120 {
		reason = reason[:120] + "…"
	}
	return reason
}

func greeting(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good Morning"
	case hour >= 12 && hour < 17:
		return "Good Afternoon"
	case hour >= 17 && hour < 21:
		return "Good Evening"
	default:
		return "Hello"
	}
}
