package auth

import (
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// Strategy issues and verifies session tokens carrying the staff identity.
type Strategy interface {
	IssueToken(actor model.Actor) (string, error)
	ParseToken(token string) (model.Actor, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
