package services

import (
	"testing"
	"time"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "insaka",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testTokenService()
	token, expiresAt, err := svc.CreateAccessToken("42", "Chipo Mwansa", []string{"DELEGATE"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if expiresAt <= time.Now().Unix() {
		t.Errorf("expiresAt = %d, already in the past", expiresAt)
	}
	parsed, claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token not valid")
	}
	if sub, _ := claims.GetSubject(); sub != "42" {
		t.Errorf("subject = %q", sub)
	}
	if claims["name"] != "Chipo Mwansa" {
		t.Errorf("name = %v", claims["name"])
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != "DELEGATE" {
		t.Errorf("roles = %v", claims["roles"])
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := testTokenService()
	token, _, err := svc.CreateAccessToken("42", "Chipo", []string{"DELEGATE"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other := testTokenService()
	other.Secret = []byte("different")
	if _, _, err := other.ParseToken(token); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestVerifyPIN(t *testing.T) {
	if !VerifyPIN("1234", "1234") {
		t.Error("plain PIN should match itself")
	}
	if VerifyPIN("4321", "1234") {
		t.Error("wrong plain PIN accepted")
	}
	hashed, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPIN("1234", hashed) {
		t.Error("correct PIN rejected against its hash")
	}
	if VerifyPIN("4321", hashed) {
		t.Error("wrong PIN accepted against the hash")
	}
}
