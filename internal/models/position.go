package models

import (
	"math"
	"strings"
	"time"
)

// PairPrefix: префикс фьючерсных пар CoinDCX ("B-BTC_USDT").
const PairPrefix = "B-"

// Position: позиция в том виде, в котором её отдаёт биржа.
type Position struct {
	ID        string  `json:"id"`
	Pair      string  `json:"pair"`
	ActivePos float64 `json:"active_pos"` // >0 long, <0 short, 0: позиции нет
	UpdatedAt int64   `json:"updated_at"` // epoch ms

	AvgPrice         *float64 `json:"avg_price,omitempty"`
	MarkPrice        *float64 `json:"mark_price,omitempty"`
	LiquidationPrice *float64 `json:"liquidation_price,omitempty"`
	Leverage         *float64 `json:"leverage,omitempty"`
	LockedMargin     *float64 `json:"locked_margin,omitempty"`
	MarginCurrency   string   `json:"margin_currency_short_name,omitempty"`
}

// Updated возвращает updated_at как time.Time (UTC).
func (p Position) Updated() time.Time {
	if p.UpdatedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(p.UpdatedAt).UTC()
}

// Symbol: пара без префикса "B-".
func (p Position) Symbol() string {
	return SymbolFromPair(p.Pair)
}

func SymbolFromPair(pair string) string {
	return strings.TrimPrefix(pair, PairPrefix)
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderTypeMarket: закрытие всегда рыночным ордером.
const OrderTypeMarket = "MARKET"

// CloseRequest: параметры закрытия одной позиции.
type CloseRequest struct {
	PositionID string
	Symbol     string
	Side       Side
	Quantity   float64
}

// CloseRequestFor выводит сторону, объём и символ из позиции.
// ok=false, если позиция пустая (active_pos == 0) или без id.
func CloseRequestFor(p Position) (CloseRequest, bool) {
	if p.ID == "" {
		return CloseRequest{}, false
	}

	var side Side
	switch {
	case p.ActivePos > 0:
		side = SideSell // long закрываем продажей
	case p.ActivePos < 0:
		side = SideBuy // short закрываем покупкой
	default:
		return CloseRequest{}, false
	}

	return CloseRequest{
		PositionID: p.ID,
		Symbol:     p.Symbol(),
		Side:       side,
		Quantity:   math.Abs(p.ActivePos),
	}, true
}
