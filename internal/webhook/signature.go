package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	SignaturePrefix = "sha256="

	HeaderSignature        = "X-Portal-Signature"
	HeaderEvent            = "X-Portal-Event"
	HeaderInboundSignature = "X-Signature"
	HeaderInboundTimestamp = "X-Timestamp"

	// ReplayWindow bounds how old an inbound timestamp may be.
	ReplayWindow = 5 * time.Minute
)

var (
	ErrSecretNotConfigured = errors.New("webhook secret not configured")
	ErrMissingSignature    = errors.New("missing webhook signature")
	ErrInvalidTimestamp    = errors.New("invalid webhook timestamp")
	ErrReplay              = errors.New("webhook timestamp outside replay window")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
)

// Sign returns "sha256=<hex hmac-sha256(secret, body)>".
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// SignInbound signs payload followed by the raw timestamp header value, which
// may be empty.
func SignInbound(secret string, payload []byte, timestamp string) string {
	msg := make([]byte, 0, len(payload)+len(timestamp))
	msg = append(msg, payload...)
	msg = append(msg, timestamp...)
	return Sign(secret, msg)
}

// Verify checks an inbound webhook signature. Header names match case-insensitively.
func Verify(secret string, payload []byte, headers map[string]string, now time.Time) error {
	if secret == "" {
		return ErrSecretNotConfigured
	}

	signature := lookup(headers, HeaderInboundSignature)
	if signature == "" {
		return ErrMissingSignature
	}

	timestamp := lookup(headers, HeaderInboundTimestamp)
	if timestamp != "" {
		ms, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return ErrInvalidTimestamp
		}
		if now.Sub(time.UnixMilli(ms)) > ReplayWindow {
			return ErrReplay
		}
	}

	expected := SignInbound(secret, payload, timestamp)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func lookup(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
