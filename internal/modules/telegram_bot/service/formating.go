package service

import (
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"futures_panel/internal/models"
	closeall "futures_panel/internal/modules/close_all/service"
	coindcx "futures_panel/internal/modules/coindcx/service"
)

const timeLayout = "2006-01-02 15:04:05 MST"

func sideLabel(activePos float64) string {
	switch {
	case activePos > 0:
		return "LONG"
	case activePos < 0:
		return "SHORT"
	default:
		return "FLAT"
	}
}

func formatUpdated(p models.Position, loc *time.Location) string {
	ts := p.Updated()
	if ts.IsZero() {
		return "n/a"
	}
	return ts.In(loc).Format(timeLayout)
}

func formatPositions(positions []models.Position, loc *time.Location, paper bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Позиции (%d), paper: %s\n\n", len(positions), onOff(paper))
	for _, p := range positions {
		fmt.Fprintf(&b, "• %s [%s] qty=%s avg=%s\n  id=%s\n  обновлено: %s\n",
			p.Symbol(), sideLabel(p.ActivePos), fnum(p.ActivePos), optF(p.AvgPrice),
			p.ID, formatUpdated(p, loc))
		if p.MarkPrice != nil || p.LiquidationPrice != nil {
			fmt.Fprintf(&b, "  mark=%s liq=%s\n", optF(p.MarkPrice), optF(p.LiquidationPrice))
		}
	}
	return b.String()
}

// closeKeyboard: кнопка «закрыть» для каждой ненулевой позиции.
func closeKeyboard(positions []models.Position) (tgbot.InlineKeyboardMarkup, bool) {
	var rows [][]tgbot.InlineKeyboardButton
	for _, p := range positions {
		req, ok := models.CloseRequestFor(p)
		if !ok {
			continue
		}
		label := fmt.Sprintf("Закрыть %s (%s %s)", req.Symbol, req.Side, coindcx.FormatQuantity(req.Quantity))
		rows = append(rows, tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(label, callbackClose+p.ID),
		))
	}
	if len(rows) == 0 {
		return tgbot.InlineKeyboardMarkup{}, false
	}
	return tgbot.NewInlineKeyboardMarkup(rows...), true
}

func outcomeEmoji(o models.Outcome) string {
	switch o {
	case models.OutcomeSuccess:
		return "✅"
	case models.OutcomePaperTrade:
		return "📝"
	case models.OutcomeFail:
		return "⚠️"
	default:
		return "❌"
	}
}

// formatResult печатает поле successField ответа биржи, если оно есть.
func formatResult(req models.CloseRequest, res models.CloseResult, successField string) string {
	line := fmt.Sprintf("%s %s %s %s %s -> %s",
		outcomeEmoji(res.Outcome), res.PositionID, req.Symbol, req.Side,
		coindcx.FormatQuantity(req.Quantity), res.Outcome)
	switch {
	case res.Error != "":
		line += ": " + res.Error
	case res.Response != nil:
		if m, ok := res.Response[successField]; ok {
			line += fmt.Sprintf(": %v", m)
		}
	}
	return line
}

func formatReport(rep closeall.Report, successField string) string {
	switch rep.Listing {
	case closeall.ListingFailed:
		return "❗️ Не удалось получить позиции, ничего не закрыто: " + errText(rep.ListErr)
	case closeall.ListingEmpty:
		return "📭 Открытых позиций нет, закрывать нечего."
	}

	var b strings.Builder
	if rep.PaperTrade {
		b.WriteString("📝 PAPER TRADE: на биржу ничего не отправлено\n")
	}
	if len(rep.Results) == 0 {
		fmt.Fprintf(&b, "Все позиции нулевые (пропущено: %d).", rep.Skipped)
		return b.String()
	}
	fmt.Fprintf(&b, "Закрытие позиций: попыток %d, неудачных %d, пропущено %d\n\n",
		len(rep.Results), rep.Failed(), rep.Skipped)
	for _, r := range rep.Results {
		b.WriteString(formatResult(r.Request, r.Result, successField))
		b.WriteString("\n")
	}
	if ids := rep.FailedIDs(); len(ids) > 0 {
		fmt.Fprintf(&b, "\nНе закрыты: %s\nПовтори /positions и закрой их по одной.", strings.Join(ids, ", "))
	}
	return b.String()
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
