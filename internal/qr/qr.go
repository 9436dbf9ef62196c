// Package qr builds and validates the delegate-login QR payload and renders
// it as a PNG for badges.
package qr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const PayloadType = "delegate_login"

// DefaultTTL is how long a printed code stays scannable.
const DefaultTTL = 24 * time.Hour

// Payload is the JSON object encoded into a delegate's badge QR.
type Payload struct {
	Type         string `json:"type"`
	DelegateID   string `json:"delegate_id"`
	DelegateName string `json:"delegate_name"`
	Organization string `json:"organization"`
	Timestamp    string `json:"timestamp"`
	Conference   string `json:"conference"`
}

var (
	ErrEmptyPayload     = errors.New("empty qr payload")
	ErrWrongType        = errors.New("qr payload is not a delegate login code")
	ErrExpired          = errors.New("qr code has expired")
	ErrInvalidTimestamp = errors.New("qr payload has an invalid timestamp")
)

// NewPayload stamps a fresh login payload for a delegate.
func NewPayload(delegateID, name, organization, conference string, now time.Time) Payload {
	return Payload{
		Type:         PayloadType,
		DelegateID:   delegateID,
		DelegateName: name,
		Organization: organization,
		Timestamp:    now.Format(time.RFC3339),
		Conference:   conference,
	}
}

func (p Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	return string(raw), err
}

// Parse decodes a scanned payload. Door scanners sometimes hand us a bare
// delegate number instead of the JSON object; that is accepted as an
// id-only payload stamped now.
func Parse(raw string, now time.Time) (Payload, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(raw, "\ufeff", ""))
	if clean == "" {
		return Payload{}, ErrEmptyPayload
	}
	var payload Payload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		if isDigits(clean) {
			return Payload{
				Type:       PayloadType,
				DelegateID: clean,
				Timestamp:  now.Format(time.RFC3339),
			}, nil
		}
		return Payload{}, fmt.Errorf("invalid qr payload: %w", err)
	}
	return payload, nil
}

// Validate checks the required fields, the payload type and the freshness
// window.
func Validate(p Payload, ttl time.Duration, now time.Time) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if p.Type != PayloadType {
		return ErrWrongType
	}
	if p.DelegateID == "" {
		return errors.New("qr payload is missing delegate_id")
	}
	if p.Timestamp == "" {
		return errors.New("qr payload is missing timestamp")
	}
	stamped, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return ErrInvalidTimestamp
	}
	if now.Sub(stamped) > ttl {
		return ErrExpired
	}
	return nil
}

// PNG renders the payload as a size x size PNG.
func PNG(p Payload, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	encoded, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(encoded, qrcode.Medium, size)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
