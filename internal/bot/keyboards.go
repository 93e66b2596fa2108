package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackModeAudio = "mode:audio"
	callbackModeVideo = "mode:video"
	callbackModeLink  = "mode:link"

	callbackQualityPrefix    = "quality:"
	callbackResolutionPrefix = "res:"
)

func modeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 Audio", callbackModeAudio),
			tgbotapi.NewInlineKeyboardButtonData("🎬 Video", callbackModeVideo),
			tgbotapi.NewInlineKeyboardButtonData("🔗 Link only", callbackModeLink),
		),
	)
}

func qualityKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("128 kbps", callbackQualityPrefix+"128"),
			tgbotapi.NewInlineKeyboardButtonData("192 kbps", callbackQualityPrefix+"192"),
			tgbotapi.NewInlineKeyboardButtonData("320 kbps", callbackQualityPrefix+"320"),
		),
	)
}

func resolutionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("480p", callbackResolutionPrefix+"480"),
			tgbotapi.NewInlineKeyboardButtonData("720p", callbackResolutionPrefix+"720"),
			tgbotapi.NewInlineKeyboardButtonData("1080p", callbackResolutionPrefix+"1080"),
		),
	)
}
