// Package telegram exposes portfolio performance reports over a
// Telegram bot webhook.
package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"portdash/internal/charts"
	"portdash/internal/portfolio"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
	log zerolog.Logger
}

func NewBot(token, webhookURL string, svc *portfolio.Service, renderer *charts.Renderer, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log = log.With().Str("component", "telegram").Logger()
	log.Info().Str("url", webhookURL).Msg("webhook set")

	return &Bot{api: api, h: NewHandlers(api, svc, renderer, log), log: log}, nil
}

// WebhookHandler is the HTTP handler registered at /telegram/webhook.
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	if update.Message != nil {
		b.log.Debug().
			Int64("chat_id", update.Message.Chat.ID).
			Str("text", update.Message.Text).
			Msg("update received")
		go b.h.HandleMessage(update.Message)
	}
	w.WriteHeader(http.StatusOK)
}
