// Package telegram forwards complaint activity to an administrators' Telegram chat.
package telegram

import (
	"fmt"
	"grievanceportal/backend/internal/feed"
	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/models"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier implements feed.Client. It registers with admin visibility and
// posts new complaints and status changes to ChatID.
type Notifier struct {
	ChatID    int64
	Lang      string
	Bot       Sender
	Localizer *localization.Localizer
	Send      chan models.Event

	closeOnce sync.Once
	stopped   chan struct{}
}

var (
	_ feed.Client  = (*Notifier)(nil)
	_ feed.Durable = (*Notifier)(nil)
)

// NewBot authorizes against the Bot API with the given token.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Telegram notifier authorized as %s", bot.Self.UserName)
	return bot, nil
}

func NewNotifier(bot Sender, chatID int64, localizer *localization.Localizer) *Notifier {
	return &Notifier{
		ChatID:    chatID,
		Lang:      "en",
		Bot:       bot,
		Localizer: localizer,
		Send:      make(chan models.Event, 32),
		stopped:   make(chan struct{}),
	}
}

func (n *Notifier) GetUserID() string                   { return "telegram:" + strconv.FormatInt(n.ChatID, 10) }
func (n *Notifier) GetRole() models.Role                { return models.RoleAdmin }
func (n *Notifier) GetSendChannel() chan<- models.Event { return n.Send }

// Durable keeps the notifier registered while the Bot API is slow; the hub
// skips events for it instead.
func (n *Notifier) Durable() bool { return true }

func (n *Notifier) Run() {
	go n.writePump()
}

func (n *Notifier) Close() {
	n.closeOnce.Do(func() { close(n.Send) })
}

// Done is closed once every queued event has been handled after Close.
func (n *Notifier) Done() <-chan struct{} { return n.stopped }

func (n *Notifier) writePump() {
	defer close(n.stopped)
	for event := range n.Send {
		text, ok := n.format(event)
		if !ok {
			continue
		}
		if _, err := n.Bot.Send(tgbotapi.NewMessage(n.ChatID, text)); err != nil {
			log.Printf("ERROR: Failed to notify Telegram chat %d about complaint %s: %v", n.ChatID, event.ComplaintID, err)
		}
	}
}

func (n *Notifier) format(e models.Event) (string, bool) {
	switch e.Type {
	case models.EventComplaintCreated:
		return fmt.Sprintf(n.Localizer.GetString(n.Lang, "telegram_complaint_created"), e.Title, e.ComplaintID), true
	case models.EventStatusChanged:
		status := n.Localizer.GetString(n.Lang, "status_"+strings.ReplaceAll(string(e.Status), " ", "_"))
		return fmt.Sprintf(n.Localizer.GetString(n.Lang, "telegram_status_changed"), e.Title, status, e.ComplaintID), true
	default:
		return "", false
	}
}
