package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// PrintJob is one document handed to PrintDispatcherStub.
type PrintJob struct {
	Printer model.Printer
	Title   string
	Body    string
}

// PrintDispatcherStub records print jobs and optionally fails them.
type PrintDispatcherStub struct {
	mu   sync.Mutex
	Jobs []PrintJob
	Err  error
	// FailTitles fails only jobs whose title is listed.
	FailTitles map[string]error
}

// Print records a job for the default printer.
func (s *PrintDispatcherStub) Print(ctx context.Context, title, body string) (model.PrintAck, error) {
	return s.PrintTo(ctx, model.Printer{Name: "default"}, title, body)
}

// PrintTo records a job for p.
func (s *PrintDispatcherStub) PrintTo(ctx context.Context, p model.Printer, title, body string) (model.PrintAck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailTitles[title]; err != nil {
		return model.PrintAck{}, err
	}
	if s.Err != nil {
		return model.PrintAck{}, s.Err
	}
	s.Jobs = append(s.Jobs, PrintJob{Printer: p, Title: title, Body: body})
	return model.PrintAck{Printer: p.Name, Reference: title, SentAt: time.Now()}, nil
}

// Titles returns the titles printed so far.
func (s *PrintDispatcherStub) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, 0, len(s.Jobs))
	for _, j := range s.Jobs {
		titles = append(titles, j.Title)
	}
	return titles
}

// WorkerStub records start/stop calls of a background worker.
type WorkerStub struct {
	StartErr error
	StopErr  error
	Started  int
	Stopped  int
}

// Start records the call.
func (w *WorkerStub) Start(context.Context) error {
	w.Started++
	return w.StartErr
}

// Stop records the call.
func (w *WorkerStub) Stop(context.Context) error {
	w.Stopped++
	return w.StopErr
}

// PrintFacadeStub serves the print watcher from an OrderRepositoryStub.
type PrintFacadeStub struct {
	Repo *OrderRepositoryStub

	mu sync.Mutex
	// PrintErr fails PrintTicket while set.
	PrintErr error
	Printed  map[string]int
	Attempts int
}

// NewPrintFacadeStub constructs a facade over repo.
func NewPrintFacadeStub(repo *OrderRepositoryStub) *PrintFacadeStub {
	return &PrintFacadeStub{Repo: repo, Printed: make(map[string]int)}
}

func (s *PrintFacadeStub) OrdersToPrint(ctx context.Context, limit int) ([]model.Order, error) {
	return s.Repo.ListUndispatched(ctx, limit)
}

func (s *PrintFacadeStub) PrintTicket(ctx context.Context, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attempts++
	if s.PrintErr != nil {
		return s.PrintErr
	}
	s.Printed[order.ID]++
	return nil
}

func (s *PrintFacadeStub) MarkPrinted(ctx context.Context, orderID string) error {
	return s.Repo.MarkDispatched(ctx, orderID, time.Now())
}

// SetPrintErr replaces PrintErr under the lock.
func (s *PrintFacadeStub) SetPrintErr(err error) {
	s.mu.Lock()
	s.PrintErr = err
	s.mu.Unlock()
}

// Snapshot returns a copy of Printed and the attempt count.
func (s *PrintFacadeStub) Snapshot() (map[string]int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	printed := make(map[string]int, len(s.Printed))
	for id, n := range s.Printed {
		printed[id] = n
	}
	return printed, s.Attempts
}
