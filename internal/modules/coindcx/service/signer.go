package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

const (
	HeaderAPIKey    = "X-AUTH-APIKEY"
	HeaderSignature = "X-AUTH-SIGNATURE"
)

// Sign: HMAC-SHA256 от тела запроса ровно в том виде, в каком оно уйдёт
// на биржу, в нижнем hex. Биржа считает то же самое по полученным байтам.
func Sign(body []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// BuildHeaders: заголовки аутентификации CoinDCX.
func BuildHeaders(apiKey, signature string) http.Header {
	h := make(http.Header, 3)
	h.Set("Content-Type", "application/json")
	h.Set(HeaderAPIKey, apiKey)
	h.Set(HeaderSignature, signature)
	return h
}
