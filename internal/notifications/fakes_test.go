package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/power2u/traineasy-web/internal/cache"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memStore is an in-memory Store for job tests.
type memStore struct {
	mu         sync.Mutex
	recipients []Recipient
	tokens     map[string][]string
	logs       []LogEntry
	templates  map[Kind]Template

	listErr   error
	dedupErr  map[string]error
	tokensErr map[string]error
	deleted   []string
}

func newMemStore(recipients ...Recipient) *memStore {
	return &memStore{
		recipients: recipients,
		tokens:     map[string][]string{},
		templates:  map[Kind]Template{},
		dedupErr:   map[string]error{},
		tokensErr:  map[string]error{},
	}
}

func (s *memStore) ListRecipients(context.Context) ([]Recipient, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.recipients, nil
}

func (s *memStore) AlreadySent(_ context.Context, userID string, kind Kind, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dedupErr[userID]; err != nil {
		return false, err
	}
	for _, l := range s.logs {
		if l.UserID == userID && l.Kind == kind && !l.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DeviceTokens(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokensErr[userID]; err != nil {
		return nil, err
	}
	return slices.Clone(s.tokens[userID]), nil
}

func (s *memStore) DeleteTokens(_ context.Context, tokens []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for user, ts := range s.tokens {
		kept := ts[:0]
		for _, t := range ts {
			if slices.Contains(tokens, t) {
				n++
				continue
			}
			kept = append(kept, t)
		}
		s.tokens[user] = kept
	}
	s.deleted = append(s.deleted, tokens...)
	return n, nil
}

func (s *memStore) InsertLog(_ context.Context, e LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, e)
	return nil
}

func (s *memStore) ActiveTemplate(_ context.Context, kind Kind) (Template, bool, error) {
	t, ok := s.templates[kind]
	return t, ok, nil
}

func (s *memStore) logsFor(kind Kind) []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []LogEntry
	for _, l := range s.logs {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

// fakeSender records sends and reports tokens in invalid as rejected.
type fakeSender struct {
	calls   []sentCall
	invalid map[string]bool
	err     error
}

type sentCall struct {
	Tokens []string
	Msg    Message
}

func (f *fakeSender) Send(_ context.Context, tokens []string, msg Message) (SendResult, error) {
	if f.err != nil {
		return SendResult{}, f.err
	}
	unique := UniqueTokens(tokens)
	f.calls = append(f.calls, sentCall{Tokens: unique, Msg: msg})
	var res SendResult
	for _, t := range unique {
		if f.invalid[t] {
			res.FailureCount++
			res.InvalidTokens = append(res.InvalidTokens, t)
			continue
		}
		res.SuccessCount++
	}
	return res, nil
}

var errBoom = errors.New("boom")

func newTestRunner(store *memStore, sender Sender, now time.Time) *Runner {
	c := cache.New(false)
	return NewRunner(store, sender, NewTemplates(store, c, discardLogger), discardLogger,
		WithClock(func() time.Time { return now }))
}
