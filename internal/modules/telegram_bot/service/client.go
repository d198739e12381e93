package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"futures_panel/internal/models"
	closeall "futures_panel/internal/modules/close_all/service"
	"futures_panel/internal/modules/config"
)

// Closer: то, чем панель управляет позициями.
type Closer interface {
	Fetch(ctx context.Context) ([]models.Position, error)
	ClosePositions(ctx context.Context, snapshot []models.Position, paperTrade bool) closeall.Report
	CloseOne(ctx context.Context, p models.Position, paperTrade bool) (models.CloseResult, bool)
}

type pending struct {
	ch     chan bool
	msgID  int
	prompt string
}

// Telegram: панель управления позициями в чате.
type Telegram struct {
	bot    *tgbot.BotAPI
	cfg    *config.Config
	closer Closer
	log    *zap.Logger
	loc    *time.Location

	mu       sync.Mutex
	pendings map[string]*pending
	chats    *chatStore
}

// NewTelegram: без токена панель выключена, возвращается nil.
func NewTelegram(cfg *config.Config, closer Closer, log *zap.Logger) (*Telegram, error) {
	if cfg.Telegram.Token == "" {
		log.Warn("telegram token is empty, control panel disabled")
		return nil, nil
	}

	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newTelegram(b, cfg, closer, log), nil
}

func newTelegram(b *tgbot.BotAPI, cfg *config.Config, closer Closer, log *zap.Logger) *Telegram {
	return &Telegram{
		bot:      b,
		cfg:      cfg,
		closer:   closer,
		log:      log.Named("telegram"),
		loc:      cfg.Location(),
		pendings: make(map[string]*pending),
		chats:    newChatStore(cfg.PaperTrade),
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	return t.bot.Send(message)
}

func (t *Telegram) editReplyMarkupRemove(chatID int64, msgID int) error {
	rm := tgbot.InlineKeyboardMarkup{InlineKeyboard: [][]tgbot.InlineKeyboardButton{}}
	edit := tgbot.NewEditMessageReplyMarkup(chatID, msgID, rm)
	_, err := t.bot.Request(edit)
	return err
}

func (t *Telegram) editText(chatID int64, msgID int, text string) error {
	edit := tgbot.NewEditMessageText(chatID, msgID, text)
	_, err := t.bot.Request(edit)
	return err
}

// Confirm: сообщение с кнопками и ожиданием callback.
func (t *Telegram) Confirm(ctx context.Context, chatID int64, prompt string, timeout time.Duration) bool {
	token := fmt.Sprintf("%d", time.Now().UnixNano())
	p := &pending{
		ch:     make(chan bool, 1),
		prompt: prompt,
	}

	t.mu.Lock()
	t.pendings[token] = p
	t.mu.Unlock()

	btnYes := tgbot.NewInlineKeyboardButtonData("✅ Закрыть", callbackConfirm+token)
	btnNo := tgbot.NewInlineKeyboardButtonData("❌ Отмена", callbackReject+token)
	kb := tgbot.NewInlineKeyboardMarkup(tgbot.NewInlineKeyboardRow(btnYes, btnNo))

	msg := tgbot.NewMessage(chatID, prompt)
	msg.ReplyMarkup = kb

	sent, err := t.bot.Send(msg)
	if err != nil {
		t.dropPending(token)
		t.log.Error("send confirm", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	p.msgID = sent.MessageID

	tmr := time.NewTimer(timeout)
	defer tmr.Stop()

	select {
	case ok := <-p.ch:
		status := "❌ Отменено"
		if ok {
			status = "✅ Подтверждено"
		}
		_ = t.editReplyMarkupRemove(chatID, p.msgID)
		_ = t.editText(chatID, p.msgID, fmt.Sprintf("%s\n\n%s", prompt, status))
		return ok
	case <-tmr.C:
		t.dropPending(token)
		_ = t.editReplyMarkupRemove(chatID, p.msgID)
		_ = t.editText(chatID, p.msgID, fmt.Sprintf("%s\n\n⏳ Таймаут", prompt))
		return false
	case <-ctx.Done():
		t.dropPending(token)
		_ = t.editReplyMarkupRemove(chatID, p.msgID)
		_ = t.editText(chatID, p.msgID, fmt.Sprintf("%s\n\n⛔️ Отменено", prompt))
		return false
	}
}

// resolvePending отдаёт ответ ожидающему Confirm. Повторные нажатия игнорируются.
func (t *Telegram) resolvePending(token string, accepted bool) bool {
	t.mu.Lock()
	p, ok := t.pendings[token]
	delete(t.pendings, token)
	t.mu.Unlock()
	if !ok {
		return false
	}
	p.ch <- accepted
	return true
}

func (t *Telegram) dropPending(token string) {
	t.mu.Lock()
	delete(t.pendings, token)
	t.mu.Unlock()
}

// Start: long-polling; блокирует до закрытия канала апдейтов.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	t.log.Info("telegram panel started", zap.String("bot", t.bot.Self.UserName))
	for update := range updates {
		t.handleUpdate(ctx, update)
	}
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
