package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"futures_panel/internal/models"
	"futures_panel/internal/modules/config"
	"futures_panel/pkg/tracing"
)

// Client: REST-клиент фьючерсов CoinDCX. Состояния между вызовами не держит.
type Client struct {
	log *zap.Logger

	http         *http.Client
	baseURL      string
	creds        models.Credentials
	pageSize     int
	successField string

	now func() time.Time
}

func NewClient(cfg *config.Config, creds models.Credentials, log *zap.Logger) *Client {
	return &Client{
		log:          log.Named("coindcx"),
		http:         &http.Client{Timeout: cfg.Exchange.Timeout},
		baseURL:      cfg.Exchange.BaseURL,
		creds:        creds,
		pageSize:     cfg.Exchange.PageSize,
		successField: cfg.Exchange.SuccessField,
		now:          time.Now,
	}
}

func (c *Client) timestamp() int64 { return c.now().UnixMilli() }

// post сериализует body, подписывает ровно эти байты и отправляет POST.
// Возвращает тело ответа только для 2xx.
func (c *Client) post(ctx context.Context, endpoint, path string, body any) (_ []byte, err error) {
	span, ctx := tracing.StartSpan(ctx, "coindcx."+endpoint)
	started := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
		requestsTotal.WithLabelValues(endpoint, result).Inc()
		tracing.Finish(span, err)
	}()

	if c.creds.Empty() {
		return nil, ErrNoCredentials
	}

	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal %s body: %w", ErrInvalidRequest, endpoint, err)
	}
	sign := Sign(payload, c.creds.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %s new request: %w", ErrInvalidRequest, endpoint, err)
	}
	req.Header = BuildHeaders(c.creds.APIKey, sign)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s read body: %w", ErrNetwork, endpoint, err)
	}
	span.SetTag("http.status_code", resp.StatusCode)

	if resp.StatusCode/100 != 2 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	c.log.Debug("coindcx response",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(started)),
	)
	return data, nil
}
