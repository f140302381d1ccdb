// Package api provides handlers for external APIs and interfaces
package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"

	"github.com/pheemnattavich-project/FloodSafe/internal/observability"
	"github.com/pheemnattavich-project/FloodSafe/internal/usecases"
)

const notFoundReply = "❌ ไม่พบสถานีที่ค้นหา ลองพิมพ์ชื่อตำบลหรือชื่อสถานีอีกครั้ง"

// LineBot handles interactions with the LINE Messaging API.
type LineBot struct {
	bot           *messaging_api.MessagingApiAPI
	channelSecret string
	useCase       *usecases.StationUseCase
	metrics       *observability.Metrics
	log           zerolog.Logger
}

// NewLineBot creates a new LINE bot handler.
func NewLineBot(channelAccessToken, channelSecret string, useCase *usecases.StationUseCase, metrics *observability.Metrics, log zerolog.Logger) (*LineBot, error) {
	bot, err := messaging_api.NewMessagingApiAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}

	return &LineBot{
		bot:           bot,
		channelSecret: channelSecret,
		useCase:       useCase,
		metrics:       metrics,
		log:           log.With().Str("component", "line-bot").Logger(),
	}, nil
}

// Register mounts the webhook and health endpoints on mux.
func (b *LineBot) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", b.handleHome)
	mux.HandleFunc("/callback", b.handleCallback)
}

func (b *LineBot) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, "Server is running")
}

func (b *LineBot) handleCallback(w http.ResponseWriter, r *http.Request) {
	// Browser test, mirroring the health check on the webhook path.
	if r.Method == http.MethodGet {
		fmt.Fprint(w, "Callback endpoint ready")
		return
	}

	cb, err := webhook.ParseRequest(b.channelSecret, r)
	if err != nil {
		b.log.Warn().Err(err).Msg("rejecting webhook request")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	for _, event := range cb.Events {
		b.handleEvent(event)
	}
	fmt.Fprint(w, "OK")
}

func (b *LineBot) handleEvent(event webhook.EventInterface) {
	if b.metrics != nil {
		b.metrics.WebhookEvents.Inc()
	}

	msgEvent, ok := event.(webhook.MessageEvent)
	if !ok {
		return
	}
	textMsg, ok := msgEvent.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}

	keyword := strings.TrimSpace(textMsg.Text)
	b.log.Info().Str("keyword", keyword).Msg("received station query")

	b.reply(msgEvent.ReplyToken, keyword)
}

func (b *LineBot) reply(replyToken, keyword string) {
	var message messaging_api.MessageInterface

	if rec, ok := b.useCase.FindStation(keyword); ok {
		message = buildStationFlex(rec, time.Now())
	} else {
		message = &messaging_api.TextMessage{Text: notFoundReply}
	}

	_, err := b.bot.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   []messaging_api.MessageInterface{message},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("failed to send reply")
	}
}
