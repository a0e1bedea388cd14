package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
)

var cashier = model.Actor{Login: "caixa", Role: model.RoleCashier}

func signed(s *HMACStrategy, payload string) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", payload, s.sign(payload))))
}

func encodedLogin(login string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(login))
}

func TestNewHMACStrategy_DefaultTTL(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if strategy == nil {
		t.Fatal("expected strategy instance")
	}
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != defaultTTL {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestNewHMACStrategy_CustomTTL(t *testing.T) {
	ttl := 2 * time.Hour
	strategy := NewHMACStrategy("secret", Options{TTL: ttl})
	if strategy.ttl != ttl {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	for _, actor := range []model.Actor{cashier, {Login: "a:b", Role: model.RoleAdmin}} {
		token, err := strategy.IssueToken(actor)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		if token == "" {
			t.Fatal("expected non-empty token")
		}
		parsed, err := strategy.ParseToken(token)
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		if parsed != actor {
			t.Fatalf("unexpected actor: %+v", parsed)
		}
	}
}

func TestHMACStrategy_IssueRejectsIncompleteActor(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if _, err := strategy.IssueToken(model.Actor{Role: model.RoleAdmin}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty login, got %v", err)
	}
	if _, err := strategy.IssueToken(model.Actor{Login: "x", Role: "guest"}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}

func TestHMACStrategy_ParseRejects(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	future := time.Now().Add(time.Minute).Unix()

	cases := map[string]string{
		"not base64":   "not-base64",
		"parts":        base64.StdEncoding.EncodeToString([]byte("only:two")),
		"login":        signed(strategy, fmt.Sprintf("%s:%s:%d", "!!", model.RoleAdmin, future)),
		"role":         signed(strategy, fmt.Sprintf("%s:%s:%d", encodedLogin("x"), "guest", future)),
		"expiry":       signed(strategy, fmt.Sprintf("%s:%s:%s", encodedLogin("x"), model.RoleAdmin, "soon")),
		"expired":      signed(strategy, fmt.Sprintf("%s:%s:%d", encodedLogin("x"), model.RoleAdmin, time.Now().Add(-time.Minute).Unix())),
		"wrong secret": signed(NewHMACStrategy("other", Options{}), fmt.Sprintf("%s:%s:%d", encodedLogin("x"), model.RoleAdmin, future)),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_ParseInvalidSignature(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(cashier)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		t.Fatalf("unexpected parts count: %d", len(parts))
	}
	parts[1] = string(model.RoleAdmin)
	tampered := base64.StdEncoding.EncodeToString([]byte(strings.Join(parts, ":")))
	if _, err := strategy.ParseToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_ExpiresAfterTTL(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour})
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	strategy.now = func() time.Time { return start }
	token, err := strategy.IssueToken(cashier)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	strategy.now = func() time.Time { return start.Add(2 * time.Hour) }
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if strategy.Name() != "hmac" {
		t.Fatalf("unexpected name: %s", strategy.Name())
	}
}
