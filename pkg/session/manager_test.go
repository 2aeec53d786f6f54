package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chainsight-io/chainsight/pkg/model"
	"github.com/chainsight-io/chainsight/pkg/pipeline"
)

func testInputs() pipeline.Inputs {
	return pipeline.Inputs{
		Suppliers: []model.Supplier{{
			ID: "a", Name: "Supplier a", Tier: 1, Component: "c",
			Country: "Germany", CountryCode: "DE", Region: "Europe",
			FinancialHealth: 80,
		}},
		Countries: map[string]model.CountryRisk{
			"DE": {CountryCode: "DE", PoliticalStability: 18, NaturalDisasterFreq: 22, LogisticsPerformance: 92, TradeRestrictionRisk: 15},
		},
		Products: []model.Product{{ID: "p", Name: "P", AnnualRevenue: 10, SupplierIDs: []string{"a"}}},
	}
}

func newTestManager(cfg Config) *Manager {
	return NewManager(cfg)
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager(Config{})
	defer m.Close()

	s := m.Create()
	if s.ID == "" {
		t.Fatal("session id is empty")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("Get returned %s, want %s", got.ID, s.ID)
	}

	if _, err := m.Get("unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) = %v, want ErrNotFound", err)
	}
}

func TestGetExpiresIdleSessions(t *testing.T) {
	m := newTestManager(Config{TTL: 50 * time.Millisecond})
	defer m.Close()

	s := m.Create()
	time.Sleep(80 * time.Millisecond)

	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session still returned: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expired session still stored, Len = %d", m.Len())
	}
}

func TestAccessExtendsTTL(t *testing.T) {
	m := newTestManager(Config{TTL: 120 * time.Millisecond})
	defer m.Close()

	s := m.Create()
	for i := 0; i < 3; i++ {
		time.Sleep(60 * time.Millisecond)
		if _, err := m.Get(s.ID); err != nil {
			t.Fatalf("session expired despite regular access (round %d): %v", i, err)
		}
	}
}

func TestCapacityEvictsLRU(t *testing.T) {
	m := newTestManager(Config{Capacity: 2})
	defer m.Close()

	first := m.Create()
	time.Sleep(2 * time.Millisecond)
	second := m.Create()
	time.Sleep(2 * time.Millisecond)

	// Touch first so second becomes the least recently used.
	if _, err := m.Get(first.ID); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	third := m.Create()

	if _, err := m.Get(second.ID); !errors.Is(err, ErrNotFound) {
		t.Error("least recently used session survived eviction")
	}
	if _, err := m.Get(first.ID); err != nil {
		t.Errorf("recently used session evicted: %v", err)
	}
	if _, err := m.Get(third.ID); err != nil {
		t.Errorf("new session missing: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestBuildAttachesRun(t *testing.T) {
	m := newTestManager(Config{})
	defer m.Close()

	s := m.Create()
	if _, err := m.Run(s.ID); !errors.Is(err, ErrNoRun) {
		t.Errorf("Run before build = %v, want ErrNoRun", err)
	}

	run, err := m.Build(context.Background(), s.ID, testInputs(), pipeline.Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if run.Graph().NodeCount() != 1 {
		t.Errorf("built graph has %d nodes, want 1", run.Graph().NodeCount())
	}

	got, err := m.Run(s.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != run {
		t.Error("Run returned a different run than Build attached")
	}
}

func TestBuildUnknownSession(t *testing.T) {
	m := newTestManager(Config{})
	defer m.Close()

	if _, err := m.Build(context.Background(), "ghost", testInputs(), pipeline.Options{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Build on unknown session = %v, want ErrNotFound", err)
	}
}

func TestBuildGateHonorsContext(t *testing.T) {
	m := newTestManager(Config{BuildSlots: 1})
	defer m.Close()

	s := m.Create()

	// Occupy the single slot.
	m.builds <- struct{}{}
	defer func() { <-m.builds }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := m.Build(ctx, s.ID, testInputs(), pipeline.Options{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("blocked build = %v, want DeadlineExceeded", err)
	}
}

func TestDelete(t *testing.T) {
	m := newTestManager(Config{})
	defer m.Close()

	s := m.Create()
	m.Delete(s.ID)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Error("deleted session still accessible")
	}
	m.Delete("missing") // no-op
}
