package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"futures_panel/internal/models"
)

// ListPositions: POST /derivatives/futures/positions/.
// Позиции возвращаются как есть, без фильтрации по active_pos.
// При любой ошибке: nil и ошибка, без ретраев.
func (c *Client) ListPositions(ctx context.Context) ([]models.Position, error) {
	body := listPositionsBody{
		Timestamp: c.timestamp(),
		Page:      "1",
		Size:      strconv.Itoa(c.pageSize),
	}

	data, err := c.post(ctx, "list_positions", pathListPositions, body)
	if err != nil {
		c.log.Error("list positions failed", zap.Error(err))
		return nil, err
	}

	var positions []models.Position
	if err := sonic.Unmarshal(data, &positions); err != nil {
		err = fmt.Errorf("%w: list positions: %w; body=%s", ErrResponseShape, err, string(data))
		c.log.Error("list positions failed", zap.Error(err))
		return nil, err
	}

	c.log.Info("positions listed", zap.Int("count", len(positions)))
	return positions, nil
}
