package printer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// SpoolSink drops jobs as text files into a directory watched by the local
// print spooler.
type SpoolSink struct {
	name string
	dir  string
	now  func() time.Time
}

// NewSpoolSink writes into dir/<queue>. An empty queue writes into dir.
func NewSpoolSink(name, dir, queue string) *SpoolSink {
	if q := slug(queue); q != "" {
		dir = filepath.Join(dir, q)
	}
	return &SpoolSink{name: name, dir: dir, now: time.Now}
}

func (s *SpoolSink) Send(ctx context.Context, title, body string) (model.PrintAck, error) {
	if err := ctx.Err(); err != nil {
		return model.PrintAck{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return model.PrintAck{}, fmt.Errorf("prepare spool dir: %w", err)
	}

	now := s.now()
	base := fmt.Sprintf("%s-%s", now.Format("20060102-150405.000000000"), slug(title))
	tmp, err := os.CreateTemp(s.dir, "."+base+"-*")
	if err != nil {
		return model.PrintAck{}, fmt.Errorf("create spool file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return model.PrintAck{}, fmt.Errorf("write spool file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.PrintAck{}, fmt.Errorf("close spool file: %w", err)
	}

	target := filepath.Join(s.dir, base+".txt")
	if err := os.Rename(tmpName, target); err != nil {
		return model.PrintAck{}, fmt.Errorf("publish spool file: %w", err)
	}
	return model.PrintAck{Printer: s.name, Reference: target, SentAt: now}, nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
