package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/football_store/internal/models"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type sentMail struct {
	To, Subject, Body string
}

type fakeNotifier struct {
	sent []sentMail
}

func (f *fakeNotifier) Notify(_ context.Context, to, subject, body string) {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
}

type fakeIndex struct {
	ids      []uuid.UUID
	limits   []int
	err      error
	indexed  []uuid.UUID
	deleted  []uuid.UUID
	searched []string
}

func (f *fakeIndex) Index(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return f.err
}

func (f *fakeIndex) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, q string, limit int) ([]uuid.UUID, error) {
	f.searched = append(f.searched, q)
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

var errBrokerDown = errors.New("broker down")

type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
