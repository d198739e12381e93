package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"futures_panel/internal/models"
	coindcx "futures_panel/internal/modules/coindcx/service"
)

const helpText = "Панель фьючерсов CoinDCX\n\n" +
	"/positions - открытые позиции\n" +
	"/closeall - закрыть все позиции (с подтверждением)\n" +
	"/paper - вкл/выкл paper trade для этого чата"

func (t *Telegram) handleUpdate(ctx context.Context, update tgbot.Update) {
	// 1) Команды
	if msg := update.Message; msg != nil {
		chatID := msg.Chat.ID
		if !t.cfg.ChatAllowed(chatID) {
			t.log.Warn("chat not allowed", zap.Int64("chat_id", chatID))
			return
		}
		if !msg.IsCommand() {
			return
		}

		switch msg.Command() {
		case "start", "help":
			t.reply(ctx, chatID, helpText)
		case "positions":
			go t.handlePositions(ctx, chatID)
		case "closeall":
			// Confirm блокирует, поэтому в отдельной горутине
			go t.handleCloseAll(ctx, chatID)
		case "paper":
			on := t.chats.togglePaper(chatID)
			t.reply(ctx, chatID, "Paper trade: "+onOff(on))
		default:
			t.reply(ctx, chatID, helpText)
		}
		return
	}

	// 2) Inline-кнопки
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		chatID := cb.Message.Chat.ID
		if !t.cfg.ChatAllowed(chatID) {
			return
		}
		t.handleCallback(ctx, chatID, cb)
	}
}

func (t *Telegram) handleCallback(ctx context.Context, chatID int64, cb *tgbot.CallbackQuery) {
	// ответ Telegram для остановки спиннера
	_, _ = t.bot.Request(tgbot.NewCallback(cb.ID, ""))

	verb, arg, ok := parseCallback(cb.Data)
	if !ok {
		return
	}

	switch verb + "::" {
	case callbackConfirm:
		t.resolvePending(arg, true)
	case callbackReject:
		t.resolvePending(arg, false)
	case callbackClose:
		go t.handleCloseOne(ctx, chatID, arg)
	}
}

func (t *Telegram) handlePositions(ctx context.Context, chatID int64) {
	positions, err := t.closer.Fetch(ctx)
	if err != nil {
		t.reply(ctx, chatID, "❗️ Ошибка получения позиций: "+err.Error())
		return
	}
	t.chats.setSnapshot(chatID, positions)

	if len(positions) == 0 {
		t.reply(ctx, chatID, "📭 Открытых позиций нет")
		return
	}

	msg := tgbot.NewMessage(chatID, formatPositions(positions, t.loc, t.chats.paper(chatID)))
	if kb, ok := closeKeyboard(positions); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := t.SendMessage(ctx, msg); err != nil {
		t.log.Error("send positions", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// snapshotOrFetch: последний показанный снимок, либо свежий листинг.
func (t *Telegram) snapshotOrFetch(ctx context.Context, chatID int64) ([]models.Position, error) {
	if snap, ok := t.chats.snapshot(chatID); ok {
		return snap, nil
	}
	positions, err := t.closer.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	t.chats.setSnapshot(chatID, positions)
	return positions, nil
}

func (t *Telegram) handleCloseAll(ctx context.Context, chatID int64) {
	snapshot, err := t.snapshotOrFetch(ctx, chatID)
	if err != nil {
		t.reply(ctx, chatID, "❗️ Не удалось получить позиции, ничего не закрыто: "+err.Error())
		return
	}

	n := 0
	for _, p := range snapshot {
		if _, ok := models.CloseRequestFor(p); ok {
			n++
		}
	}
	if n == 0 {
		t.reply(ctx, chatID, "📭 Открытых позиций нет, закрывать нечего.")
		return
	}

	paper := t.chats.paper(chatID)
	prompt := fmt.Sprintf("Закрыть %d позиций рыночными reduce-only ордерами?", n)
	if paper {
		prompt += "\n📝 Paper trade: на биржу ничего не уйдёт."
	}
	if !t.Confirm(ctx, chatID, prompt, t.cfg.Telegram.ConfirmTimeout) {
		return
	}

	t.reply(ctx, chatID, "⏳ Закрываю позиции...")
	rep := t.closer.ClosePositions(ctx, snapshot, paper)
	if !paper {
		// после реального закрытия снимок устарел
		t.chats.clearSnapshot(chatID)
	}
	t.reply(ctx, chatID, formatReport(rep, t.cfg.Exchange.SuccessField))
}

func (t *Telegram) handleCloseOne(ctx context.Context, chatID int64, positionID string) {
	p, ok := t.chats.findPosition(chatID, positionID)
	if !ok {
		t.reply(ctx, chatID, "Позиция не найдена в последнем списке, обнови /positions")
		return
	}
	req, ok := models.CloseRequestFor(p)
	if !ok {
		t.reply(ctx, chatID, "Позиция уже нулевая, закрывать нечего.")
		return
	}

	paper := t.chats.paper(chatID)
	prompt := fmt.Sprintf("Закрыть %s: %s %s?", req.Symbol, req.Side, coindcx.FormatQuantity(req.Quantity))
	if paper {
		prompt += "\n📝 Paper trade"
	}
	if !t.Confirm(ctx, chatID, prompt, t.cfg.Telegram.ConfirmTimeout) {
		return
	}

	res, _ := t.closer.CloseOne(ctx, p, paper)
	if !paper && res.Outcome == models.OutcomeSuccess {
		t.chats.clearSnapshot(chatID)
	}
	t.reply(ctx, chatID, formatResult(req, res, t.cfg.Exchange.SuccessField))
}

func (t *Telegram) reply(ctx context.Context, chatID int64, text string) {
	if _, err := t.Send(ctx, chatID, text); err != nil {
		t.log.Error("telegram send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
