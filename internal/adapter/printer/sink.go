package printer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// ErrNoBroker indicates a queue printer is configured without AMQP settings.
var ErrNoBroker = errors.New("amqp broker not configured")

// Sink delivers one rendered document to a printer.
type Sink interface {
	Send(ctx context.Context, title, body string) (model.PrintAck, error)
}

// TooManyRequestsError reports a print server asking the caller to back off.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}
