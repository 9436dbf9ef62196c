package qr

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)

func TestParseValidate(t *testing.T) {
	payload := NewPayload("42", "Jane Banda", "ZESCO", "Insaka Conference 2025", now)
	encoded, err := payload.Encode()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Parse(encoded, now)
	if err != nil {
		t.Fatal(err)
	}
	if parsed != payload {
		t.Errorf("payload changed across encode/parse: %+v", parsed)
	}
	if err := Validate(parsed, DefaultTTL, now.Add(time.Hour)); err != nil {
		t.Errorf("fresh payload rejected: %v", err)
	}
}

func TestValidateExpiry(t *testing.T) {
	payload := NewPayload("42", "Jane Banda", "ZESCO", "Insaka Conference 2025", now)
	if err := Validate(payload, DefaultTTL, now.Add(24*time.Hour+time.Minute)); !errors.Is(err, ErrExpired) {
		t.Errorf("payload older than 24h must expire, got %v", err)
	}
	if err := Validate(payload, DefaultTTL, now.Add(23*time.Hour)); err != nil {
		t.Errorf("payload within 24h must pass, got %v", err)
	}
}

func TestValidateRejectsWrongType(t *testing.T) {
	payload := NewPayload("42", "Jane Banda", "ZESCO", "Insaka Conference 2025", now)
	payload.Type = "exhibitor_pass"
	if err := Validate(payload, DefaultTTL, now); !errors.Is(err, ErrWrongType) {
		t.Errorf("want ErrWrongType, got %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	payload := NewPayload("", "Jane Banda", "ZESCO", "Insaka Conference 2025", now)
	if err := Validate(payload, DefaultTTL, now); err == nil {
		t.Error("missing delegate_id must fail validation")
	}
	payload = NewPayload("42", "Jane Banda", "ZESCO", "Insaka Conference 2025", now)
	payload.Timestamp = "yesterday"
	if err := Validate(payload, DefaultTTL, now); !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("want ErrInvalidTimestamp, got %v", err)
	}
}

func TestParseBareDigits(t *testing.T) {
	parsed, err := Parse(" 42 ", now)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.DelegateID != "42" || parsed.Type != PayloadType {
		t.Errorf("bare number must become an id-only payload: %+v", parsed)
	}
	if err := Validate(parsed, DefaultTTL, now); err != nil {
		t.Errorf("id-only payload must validate: %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse("{not json", now); err == nil {
		t.Error("malformed payload must fail")
	}
	if _, err := Parse("   ", now); !errors.Is(err, ErrEmptyPayload) {
		t.Error("blank payload must fail with ErrEmptyPayload")
	}
}

func TestPNG(t *testing.T) {
	payload := NewPayload("42", "Jane Banda", "ZESCO", "Insaka Conference 2025", now)
	png, err := PNG(payload, 256)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) == 0 {
		t.Error("empty png")
	}
}
