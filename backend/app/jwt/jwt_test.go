package jwtutil

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func newSigner() *Signer {
	return &Signer{Secret: []byte("test-secret"), Issuer: "storyhub", ExpMin: 30}
}

func TestSignParseRoundTrip(t *testing.T) {
	s := newSigner()
	tok, err := s.Sign("u-1", "alice", true)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	c, err := s.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != "u-1" || c.Username != "alice" || !c.IsAdmin {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if c.ID == "" {
		t.Fatalf("expected token id")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _ := newSigner().Sign("u-1", "alice", false)
	other := &Signer{Secret: []byte("other"), Issuer: "storyhub", ExpMin: 30}
	if _, err := other.Parse(tok); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	s := newSigner()
	s.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _ := s.Sign("u-1", "alice", false)
	s.Now = nil
	if _, err := s.Parse(tok); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := newSigner().Parse("not-a-token"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseRejectsOtherIssuer(t *testing.T) {
	tok, _ := (&Signer{Secret: []byte("test-secret"), Issuer: "elsewhere", ExpMin: 30}).Sign("u-1", "a", false)
	if _, err := newSigner().Parse(tok); err == nil {
		t.Fatalf("expected issuer error")
	}
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{UserID: "u-1", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "storyhub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := newSigner().Parse(tok); err == nil {
		t.Fatalf("expected alg none to be rejected")
	}
}
