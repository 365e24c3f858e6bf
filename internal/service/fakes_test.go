package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/cbt-saw/internal/cache"
	"github.com/lshigami/cbt-saw/internal/event"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/scoring"
	"gorm.io/gorm"
)

type memoryCache struct {
	mu          sync.Mutex
	gens        map[uint]int64
	items       map[string][]byte
	invalidated []uint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{gens: make(map[uint]int64), items: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, examID uint, dst any) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[examID]
	raw, ok := c.items[cache.RankingKey(examID, gen)]
	if !ok {
		return gen, false, nil
	}
	return gen, true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(_ context.Context, examID uint, gen int64, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[cache.RankingKey(examID, gen)] = raw
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, examID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[examID]++
	c.invalidated = append(c.invalidated, examID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.AttemptFinalized
}

func (p *recordingPublisher) PublishAttemptFinalized(_ context.Context, ev event.AttemptFinalized) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestScorer(t *testing.T) *scoring.SAWScorer {
	t.Helper()
	s, err := scoring.NewSAWScorer(scoring.DefaultConfig())
	if err != nil {
		t.Fatalf("NewSAWScorer: %v", err)
	}
	return s
}

type finalizerFixture struct {
	db        *gorm.DB
	svc       *attemptFinalizerService
	cache     *memoryCache
	publisher *recordingPublisher
	results   repository.ResultRepository
	attempts  repository.AttemptRepository
}

func newFinalizerFixture(t *testing.T, db *gorm.DB, now time.Time) *finalizerFixture {
	t.Helper()
	f := &finalizerFixture{
		db:        db,
		cache:     newMemoryCache(),
		publisher: &recordingPublisher{},
		results:   repository.NewResultRepository(db),
		attempts:  repository.NewAttemptRepository(db),
	}
	f.svc = NewAttemptFinalizerService(
		db,
		f.attempts,
		repository.NewAnswerRepository(db),
		repository.NewThresholdRepository(db),
		f.results,
		newTestScorer(t),
		f.cache,
		f.publisher,
	).(*attemptFinalizerService)
	f.svc.now = func() time.Time { return now }
	return f
}
