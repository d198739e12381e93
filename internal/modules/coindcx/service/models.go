package service

import "futures_panel/internal/models"

const (
	pathListPositions = "/derivatives/futures/positions/"
	pathExitPosition  = "/derivatives/futures/positions/exit"
)

// Порядок полей = порядок ключей в JSON, подпись считается по этим байтам.
type listPositionsBody struct {
	Timestamp int64  `json:"timestamp"`
	Page      string `json:"page"`
	Size      string `json:"size"`
}

type exitPositionBody struct {
	Timestamp  int64       `json:"timestamp"`
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	Side       models.Side `json:"side"`
	Type       string      `json:"type"`
	Quantity   string      `json:"quantity"`
	ReduceOnly bool        `json:"reduceOnly"`
}
