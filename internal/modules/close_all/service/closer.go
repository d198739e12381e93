package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"futures_panel/internal/models"
	"futures_panel/pkg/tracing"
)

// PositionsAPI: то, что нужно от клиента биржи.
type PositionsAPI interface {
	ListPositions(ctx context.Context) ([]models.Position, error)
	ClosePosition(ctx context.Context, r models.CloseRequest, paperTrade bool) models.CloseResult
}

// RunObserver получает итоги листинга и прогонов (health-состояние).
type RunObserver interface {
	ObserveListing(ok bool, count int)
	ObserveCloseAll(listing string, attempts, failed int)
}

// CloseAll закрывает все ненулевые позиции по одной, последовательно.
type CloseAll struct {
	api PositionsAPI
	obs RunObserver
	log *zap.Logger
}

func NewCloseAll(api PositionsAPI, obs RunObserver, log *zap.Logger) *CloseAll {
	return &CloseAll{api: api, obs: obs, log: log.Named("close_all")}
}

// Fetch: листинг позиций с отметкой в health. Снимок потом
// передаётся в ClosePositions явно.
func (c *CloseAll) Fetch(ctx context.Context) ([]models.Position, error) {
	positions, err := c.api.ListPositions(ctx)
	if c.obs != nil {
		c.obs.ObserveListing(err == nil, len(positions))
	}
	return positions, err
}

// Run: листинг + ClosePositions. Ошибка листинга не пробрасывается,
// а попадает в Report (Listing=failed), закрытий при этом нет.
func (c *CloseAll) Run(ctx context.Context, paperTrade bool) Report {
	positions, err := c.Fetch(ctx)
	if err != nil {
		rep := newReport(paperTrade)
		rep.Listing = ListingFailed
		rep.ListErr = err
		rep.FinishedAt = time.Now()
		c.log.Warn("close all: listing failed", zap.String("run_id", rep.RunID), zap.Error(err))
		c.observe(rep)
		return rep
	}
	return c.ClosePositions(ctx, positions, paperTrade)
}

// ClosePositions закрывает позиции из переданного снимка в его порядке.
// Пропускает позиции без id и с active_pos == 0. Ошибка по одной
// позиции не останавливает остальные.
func (c *CloseAll) ClosePositions(ctx context.Context, snapshot []models.Position, paperTrade bool) Report {
	rep := newReport(paperTrade)
	if len(snapshot) == 0 {
		rep.Listing = ListingEmpty
		rep.FinishedAt = time.Now()
		c.observe(rep)
		return rep
	}
	rep.Listing = ListingOK

	span, ctx := tracing.StartSpan(ctx, "close_all.run")
	span.SetTag("run_id", rep.RunID)
	span.SetTag("paper_trade", paperTrade)
	defer span.Finish()

	log := c.log.With(zap.String("run_id", rep.RunID), zap.Bool("paper_trade", paperTrade))

	for _, p := range snapshot {
		req, ok := models.CloseRequestFor(p)
		if !ok {
			rep.Skipped++
			continue
		}

		res := c.api.ClosePosition(ctx, req, paperTrade)
		closeOutcomes.WithLabelValues(string(res.Outcome)).Inc()
		rep.Results = append(rep.Results, models.PositionClose{
			PositionID: req.PositionID,
			Request:    req,
			Result:     res,
		})

		log.Info("closed position",
			zap.String("position_id", req.PositionID),
			zap.String("symbol", req.Symbol),
			zap.String("side", string(req.Side)),
			zap.Float64("quantity", req.Quantity),
			zap.String("outcome", string(res.Outcome)),
		)
	}

	rep.FinishedAt = time.Now()
	span.SetTag("attempts", len(rep.Results))
	span.SetTag("failed", rep.Failed())
	log.Info("close all finished",
		zap.Int("attempts", len(rep.Results)),
		zap.Int("skipped", rep.Skipped),
		zap.Int("failed", rep.Failed()),
		zap.Duration("took", rep.FinishedAt.Sub(rep.StartedAt)),
	)
	c.observe(rep)
	return rep
}

// CloseOne закрывает одну позицию из снимка. ok=false: закрывать нечего.
func (c *CloseAll) CloseOne(ctx context.Context, p models.Position, paperTrade bool) (models.CloseResult, bool) {
	req, ok := models.CloseRequestFor(p)
	if !ok {
		return models.CloseResult{}, false
	}

	res := c.api.ClosePosition(ctx, req, paperTrade)
	closeOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	c.log.Info("closed position",
		zap.String("position_id", req.PositionID),
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.Bool("paper_trade", paperTrade),
		zap.String("outcome", string(res.Outcome)),
	)
	return res, true
}

func (c *CloseAll) observe(rep Report) {
	closeRuns.WithLabelValues(string(rep.Listing)).Inc()
	if c.obs != nil {
		c.obs.ObserveCloseAll(string(rep.Listing), len(rep.Results), rep.Failed())
	}
}

func newReport(paperTrade bool) Report {
	return Report{
		RunID:      uuid.NewString(),
		PaperTrade: paperTrade,
		StartedAt:  time.Now(),
	}
}
