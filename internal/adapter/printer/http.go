package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// HTTPSink posts jobs as JSON to a print server.
type HTTPSink struct {
	name       string
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type httpJob struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type httpAck struct {
	ID string `json:"id"`
}

// NewHTTPSink creates a sink posting to an absolute endpoint URL.
func NewHTTPSink(name, endpoint string, timeout time.Duration, logger *slog.Logger) (*HTTPSink, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse print server url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("print server url must be absolute")
	}
	return &HTTPSink{
		name:     name,
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (s *HTTPSink) Send(ctx context.Context, title, body string) (model.PrintAck, error) {
	payload, err := json.Marshal(httpJob{Title: title, Body: body})
	if err != nil {
		return model.PrintAck{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return model.PrintAck{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return model.PrintAck{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		ack := model.PrintAck{Printer: s.name, SentAt: time.Now()}
		data, err := io.ReadAll(resp.Body)
		if err == nil && len(data) > 0 {
			var decoded httpAck
			if json.Unmarshal(data, &decoded) == nil {
				ack.Reference = decoded.ID
			}
		}
		return ack, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return model.PrintAck{}, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		data, _ := io.ReadAll(resp.Body)
		s.logger.Error("print server request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return model.PrintAck{}, fmt.Errorf("print server error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
