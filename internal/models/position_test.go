package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloseRequestFor(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want CloseRequest
		ok   bool
	}{
		{
			name: "long closes with sell",
			pos:  Position{ID: "p1", Pair: "B-BTC_USDT", ActivePos: 0.002},
			want: CloseRequest{PositionID: "p1", Symbol: "BTC_USDT", Side: SideSell, Quantity: 0.002},
			ok:   true,
		},
		{
			name: "short closes with buy",
			pos:  Position{ID: "p2", Pair: "ETH_USDT", ActivePos: -1.5},
			want: CloseRequest{PositionID: "p2", Symbol: "ETH_USDT", Side: SideBuy, Quantity: 1.5},
			ok:   true,
		},
		{
			name: "flat is skipped",
			pos:  Position{ID: "p3", Pair: "B-SOL_USDT", ActivePos: 0},
		},
		{
			name: "missing id is skipped",
			pos:  Position{Pair: "B-BTC_USDT", ActivePos: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CloseRequestFor(tt.pos)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSymbolFromPair(t *testing.T) {
	assert.Equal(t, "BTC_USDT", SymbolFromPair("B-BTC_USDT"))
	assert.Equal(t, "ETH_USDT", SymbolFromPair("ETH_USDT"))
	assert.Equal(t, "XB-BTC", SymbolFromPair("XB-BTC"))
	assert.Equal(t, "B-BTC_USDT", SymbolFromPair("B-B-BTC_USDT"), "only one literal prefix is stripped")
}

func TestPosition_Updated(t *testing.T) {
	p := Position{UpdatedAt: 1700000000123}
	assert.Equal(t, time.UnixMilli(1700000000123).UTC(), p.Updated())
	assert.True(t, Position{}.Updated().IsZero())
}

func TestCredentials_String(t *testing.T) {
	c := Credentials{APIKey: "abcdef123", APISecret: "very-secret"}
	for _, s := range []string{c.String(), fmt.Sprintf("%v", c), fmt.Sprintf("%#v", c), fmt.Sprintf("%+v", c)} {
		assert.NotContains(t, s, "very-secret")
		assert.NotContains(t, s, "abcdef123")
	}
	assert.True(t, Credentials{APIKey: "k"}.Empty())
	assert.False(t, c.Empty())
}

func TestCloseResult_OK(t *testing.T) {
	assert.True(t, CloseResult{Outcome: OutcomeSuccess}.OK())
	assert.True(t, CloseResult{Outcome: OutcomePaperTrade}.OK())
	assert.False(t, CloseResult{Outcome: OutcomeFail}.OK())
	assert.False(t, CloseResult{Outcome: OutcomeError}.OK())
}
