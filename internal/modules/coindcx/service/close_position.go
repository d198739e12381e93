package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"futures_panel/internal/models"
)

// ClosePosition: POST /derivatives/futures/positions/exit рыночным reduce-only ордером.
// Ошибки наружу не пробрасываются: всё сворачивается в CloseResult.
// В paper-режиме запрос не отправляется вообще.
func (c *Client) ClosePosition(ctx context.Context, r models.CloseRequest, paperTrade bool) models.CloseResult {
	res := models.CloseResult{PositionID: r.PositionID}

	if paperTrade {
		res.Outcome = models.OutcomePaperTrade
		res.Details = fmt.Sprintf("paper trade: position %s would have been closed (%s %s %s)",
			r.PositionID, r.Side, FormatQuantity(r.Quantity), r.Symbol)
		c.log.Info("paper trade close",
			zap.String("position_id", r.PositionID),
			zap.String("symbol", r.Symbol),
			zap.String("side", string(r.Side)),
		)
		return res
	}

	if err := validateClose(r); err != nil {
		res.Outcome = models.OutcomeError
		res.Error = err.Error()
		return res
	}

	data, err := c.post(ctx, "exit_position", pathExitPosition, exitBody(c.timestamp(), r))
	if err != nil {
		c.log.Error("close position failed", zap.String("position_id", r.PositionID), zap.Error(err))
		res.Outcome = models.OutcomeError
		res.Error = err.Error()
		return res
	}

	var payload map[string]any
	err = sonic.Unmarshal(data, &payload)
	if err == nil && payload == nil {
		// null декодируется без ошибки, но объекта нет
		err = errors.New("null body")
	}
	if err != nil {
		err = fmt.Errorf("%w: exit position: %w; body=%s", ErrResponseShape, err, string(data))
		c.log.Error("close position failed", zap.String("position_id", r.PositionID), zap.Error(err))
		res.Outcome = models.OutcomeError
		res.Error = err.Error()
		return res
	}

	res.Response = payload
	if truthy(payload[c.successField]) {
		res.Outcome = models.OutcomeSuccess
	} else {
		res.Outcome = models.OutcomeFail
	}

	c.log.Info("close position",
		zap.String("position_id", r.PositionID),
		zap.String("outcome", string(res.Outcome)),
	)
	return res
}

// exitBody: reduceOnly выставляется всегда: этот вызов только уменьшает позицию.
func exitBody(ts int64, r models.CloseRequest) exitPositionBody {
	return exitPositionBody{
		Timestamp:  ts,
		ID:         r.PositionID,
		Symbol:     r.Symbol,
		Side:       r.Side,
		Type:       models.OrderTypeMarket,
		Quantity:   FormatQuantity(r.Quantity),
		ReduceOnly: true,
	}
}

// FormatQuantity: объём строкой без хвостов float (0.002, а не 0.0020000000000000000416).
func FormatQuantity(q float64) string {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return strconv.FormatFloat(q, 'f', -1, 64)
	}
	return decimal.NewFromFloat(q).String()
}

func validateClose(r models.CloseRequest) error {
	if r.PositionID == "" {
		return fmt.Errorf("%w: empty position id", ErrInvalidRequest)
	}
	if r.Side != models.SideBuy && r.Side != models.SideSell {
		return fmt.Errorf("%w: side %q", ErrInvalidRequest, r.Side)
	}
	if r.Quantity < 0 || math.IsNaN(r.Quantity) || math.IsInf(r.Quantity, 0) {
		return fmt.Errorf("%w: quantity %v", ErrInvalidRequest, r.Quantity)
	}
	return nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
