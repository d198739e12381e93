package service

import (
	"time"

	"futures_panel/internal/models"
)

// Listing различает «закрывать нечего» и «не смогли узнать, что закрывать».
type Listing string

const (
	ListingOK     Listing = "ok"
	ListingEmpty  Listing = "empty"
	ListingFailed Listing = "failed"
)

type Report struct {
	RunID      string
	PaperTrade bool
	Listing    Listing
	ListErr    error

	Results []models.PositionClose
	Skipped int // без id или active_pos == 0

	StartedAt  time.Time
	FinishedAt time.Time
}

// Failed: сколько попыток закончились fail/error.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Result.OK() {
			n++
		}
	}
	return n
}

// FailedIDs: id позиций, которые можно попробовать закрыть ещё раз.
func (r Report) FailedIDs() []string {
	var ids []string
	for _, res := range r.Results {
		if !res.Result.OK() {
			ids = append(ids, res.PositionID)
		}
	}
	return ids
}
