package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"futures_panel/internal/models"
)

type stubAPI struct {
	positions []models.Position
	listErr   error

	// outcome по id, по умолчанию success
	outcomes map[string]models.Outcome

	listCalls int
	closed    []models.CloseRequest
	paper     []bool
}

func (s *stubAPI) ListPositions(context.Context) ([]models.Position, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.positions, nil
}

func (s *stubAPI) ClosePosition(_ context.Context, r models.CloseRequest, paperTrade bool) models.CloseResult {
	s.closed = append(s.closed, r)
	s.paper = append(s.paper, paperTrade)
	if paperTrade {
		return models.CloseResult{PositionID: r.PositionID, Outcome: models.OutcomePaperTrade}
	}
	out, ok := s.outcomes[r.PositionID]
	if !ok {
		out = models.OutcomeSuccess
	}
	res := models.CloseResult{PositionID: r.PositionID, Outcome: out}
	if out == models.OutcomeError {
		res.Error = "coindcx: network failure"
	}
	return res
}

type stubObserver struct {
	listings []bool
	listing  string
	attempts int
	failed   int
	runs     int
}

func (o *stubObserver) ObserveListing(ok bool, _ int) { o.listings = append(o.listings, ok) }
func (o *stubObserver) ObserveCloseAll(listing string, attempts, failed int) {
	o.runs++
	o.listing, o.attempts, o.failed = listing, attempts, failed
}

func examplePositions() []models.Position {
	return []models.Position{
		{ID: "p1", Pair: "B-BTC_USDT", ActivePos: 0.002},
		{ID: "p2", Pair: "ETH_USDT", ActivePos: -1.5},
		{ID: "p3", Pair: "B-SOL_USDT", ActivePos: 0},
	}
}

func TestRun_ClosesNonZeroPositions(t *testing.T) {
	api := &stubAPI{positions: examplePositions()}
	obs := &stubObserver{}
	c := NewCloseAll(api, obs, zap.NewNop())

	rep := c.Run(context.Background(), false)

	assert.Equal(t, ListingOK, rep.Listing)
	assert.NoError(t, rep.ListErr)
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, api.closed, 2)
	assert.Equal(t, models.CloseRequest{PositionID: "p1", Symbol: "BTC_USDT", Side: models.SideSell, Quantity: 0.002}, api.closed[0])
	assert.Equal(t, models.CloseRequest{PositionID: "p2", Symbol: "ETH_USDT", Side: models.SideBuy, Quantity: 1.5}, api.closed[1])

	require.Len(t, rep.Results, 2)
	assert.Equal(t, "p1", rep.Results[0].PositionID)
	assert.Equal(t, "p2", rep.Results[1].PositionID)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 0, rep.Failed())

	assert.Equal(t, []bool{true}, obs.listings)
	assert.Equal(t, 1, obs.runs)
	assert.Equal(t, "ok", obs.listing)
	assert.Equal(t, 2, obs.attempts)
}

func TestRun_EmptyListing(t *testing.T) {
	api := &stubAPI{}
	rep := NewCloseAll(api, nil, zap.NewNop()).Run(context.Background(), false)

	assert.Equal(t, ListingEmpty, rep.Listing)
	assert.NoError(t, rep.ListErr)
	assert.Empty(t, rep.Results)
	assert.Empty(t, api.closed)
}

func TestRun_ListingFailed(t *testing.T) {
	api := &stubAPI{listErr: errors.New("coindcx: http 500")}
	obs := &stubObserver{}
	rep := NewCloseAll(api, obs, zap.NewNop()).Run(context.Background(), false)

	assert.Equal(t, ListingFailed, rep.Listing)
	assert.EqualError(t, rep.ListErr, "coindcx: http 500")
	assert.Empty(t, rep.Results)
	assert.Empty(t, api.closed)
	assert.Equal(t, []bool{false}, obs.listings)
	assert.Equal(t, "failed", obs.listing)
}

func TestRun_FailureDoesNotAbort(t *testing.T) {
	api := &stubAPI{
		positions: []models.Position{
			{ID: "a", Pair: "B-BTC_USDT", ActivePos: 1},
			{ID: "b", Pair: "B-ETH_USDT", ActivePos: -2},
			{ID: "c", Pair: "B-XRP_USDT", ActivePos: 3},
		},
		outcomes: map[string]models.Outcome{"a": models.OutcomeError, "b": models.OutcomeFail},
	}
	rep := NewCloseAll(api, nil, zap.NewNop()).Run(context.Background(), false)

	require.Len(t, rep.Results, 3)
	assert.Equal(t, models.OutcomeError, rep.Results[0].Result.Outcome)
	assert.Equal(t, models.OutcomeFail, rep.Results[1].Result.Outcome)
	assert.Equal(t, models.OutcomeSuccess, rep.Results[2].Result.Outcome)
	assert.Equal(t, 2, rep.Failed())
	assert.Equal(t, []string{"a", "b"}, rep.FailedIDs())
}

func TestRun_PaperTradePassedThrough(t *testing.T) {
	api := &stubAPI{positions: examplePositions()}
	rep := NewCloseAll(api, nil, zap.NewNop()).Run(context.Background(), true)

	assert.True(t, rep.PaperTrade)
	assert.Equal(t, []bool{true, true}, api.paper)
	for _, r := range rep.Results {
		assert.Equal(t, models.OutcomePaperTrade, r.Result.Outcome)
	}
	assert.Equal(t, 0, rep.Failed())
}

func TestClosePositions_UsesSnapshot(t *testing.T) {
	api := &stubAPI{positions: []models.Position{{ID: "fresh", Pair: "B-BTC_USDT", ActivePos: 5}}}
	snapshot := []models.Position{
		{ID: "", Pair: "B-BTC_USDT", ActivePos: 1},
		{ID: "old", Pair: "B-ETH_USDT", ActivePos: -0.5},
	}

	rep := NewCloseAll(api, nil, zap.NewNop()).ClosePositions(context.Background(), snapshot, false)

	assert.Equal(t, 0, api.listCalls, "snapshot close must not re-fetch")
	require.Len(t, rep.Results, 1)
	assert.Equal(t, "old", rep.Results[0].PositionID)
	assert.Equal(t, models.SideBuy, rep.Results[0].Request.Side)
	assert.Equal(t, 1, rep.Skipped)
}

func TestClosePositions_AllFlat(t *testing.T) {
	api := &stubAPI{}
	snapshot := []models.Position{{ID: "p1", ActivePos: 0}, {ID: "p2", ActivePos: 0}}

	rep := NewCloseAll(api, nil, zap.NewNop()).ClosePositions(context.Background(), snapshot, false)

	assert.Equal(t, ListingOK, rep.Listing)
	assert.Empty(t, rep.Results)
	assert.Equal(t, 2, rep.Skipped)
	assert.Empty(t, api.closed)
}

func TestCloseOne(t *testing.T) {
	api := &stubAPI{}
	c := NewCloseAll(api, nil, zap.NewNop())

	res, ok := c.CloseOne(context.Background(), models.Position{ID: "p9", Pair: "B-DOGE_USDT", ActivePos: -100}, false)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeSuccess, res.Outcome)
	require.Len(t, api.closed, 1)
	assert.Equal(t, models.CloseRequest{PositionID: "p9", Symbol: "DOGE_USDT", Side: models.SideBuy, Quantity: 100}, api.closed[0])

	_, ok = c.CloseOne(context.Background(), models.Position{ID: "flat"}, false)
	assert.False(t, ok)
	assert.Len(t, api.closed, 1)
}
