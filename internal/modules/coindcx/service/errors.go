package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork: не достучались до биржи: соединение, DNS, таймаут.
	ErrNetwork = errors.New("coindcx: network failure")
	// ErrResponseShape: ответ пришёл, но разобрать его не получилось.
	ErrResponseShape = errors.New("coindcx: unexpected response shape")
	// ErrInvalidRequest: запрос не прошёл локальную проверку и не отправлялся.
	ErrInvalidRequest = errors.New("coindcx: invalid request")
	// ErrNoCredentials: ключи не заданы.
	ErrNoCredentials = errors.New("coindcx: api credentials empty")
)

// HTTPError: ответ биржи со статусом вне 2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("coindcx: http %d: %s", e.StatusCode, e.Body)
}
