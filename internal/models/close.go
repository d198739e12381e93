package models

type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeFail       Outcome = "fail"
	OutcomeError      Outcome = "error"
	OutcomePaperTrade Outcome = "paper_trade"
)

// CloseResult: итог одной попытки закрытия.
// Response заполнен для success/fail, Error: для error, Details: для paper_trade.
type CloseResult struct {
	PositionID string         `json:"position_id"`
	Outcome    Outcome        `json:"outcome"`
	Response   map[string]any `json:"response,omitempty"`
	Error      string         `json:"error,omitempty"`
	Details    string         `json:"details,omitempty"`
}

func (r CloseResult) OK() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomePaperTrade
}

// PositionClose: строка отчёта close-all.
type PositionClose struct {
	PositionID string       `json:"position_id"`
	Request    CloseRequest `json:"-"`
	Result     CloseResult  `json:"close_result"`
}
