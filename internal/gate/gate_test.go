package gate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crypto-sentinelv1/internal/model"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	statuses map[string]map[string]string
	details  map[string]string
	failGet  bool
}

func newMemStore() *memStore {
	return &memStore{
		statuses: map[string]map[string]string{},
		details:  map[string]string{},
	}
}

func (m *memStore) GetStatuses(_ context.Context, symbol string) (map[string]string, error) {
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	return m.statuses[symbol], nil
}

func (m *memStore) SetStatuses(_ context.Context, symbol string, statuses map[string]string) error {
	m.statuses[symbol] = statuses
	return nil
}

func (m *memStore) SaveDetail(_ context.Context, id, detail string) error {
	m.details[id] = detail
	return nil
}

func (m *memStore) Detail(_ context.Context, id string) (string, error) {
	return m.details[id], nil
}

func allHold() map[string]string {
	actions := make(map[string]string, len(model.DetectorNames))
	for _, name := range model.DetectorNames {
		actions[name] = string(model.ActionHold)
	}
	return actions
}

func TestShouldNotify_FirstEvaluation(t *testing.T) {
	g := New(newMemStore())
	ok, reason := g.ShouldNotify(context.Background(), "BTCUSDT", allHold(), false)
	if !ok {
		t.Fatal("first evaluation must notify")
	}
	if reason != "first evaluation" {
		t.Errorf("reason = %q", reason)
	}
}

func TestShouldNotify_UnchangedVectorSuppressed(t *testing.T) {
	store := newMemStore()
	g := New(store)
	ctx := context.Background()
	actions := allHold()

	if _, err := g.Record(ctx, "BTCUSDT", actions, "detail", time.Now()); err != nil {
		t.Fatal(err)
	}
	ok, _ := g.ShouldNotify(ctx, "BTCUSDT", actions, false)
	if ok {
		t.Fatal("identical consecutive vectors must not notify twice")
	}
}

func TestShouldNotify_SingleDetectorChange(t *testing.T) {
	store := newMemStore()
	g := New(store)
	ctx := context.Background()

	if _, err := g.Record(ctx, "BTCUSDT", allHold(), "detail", time.Now()); err != nil {
		t.Fatal(err)
	}

	changed := allHold()
	changed[model.DetectorMACD] = string(model.ActionBuy)
	ok, reason := g.ShouldNotify(ctx, "BTCUSDT", changed, false)
	if !ok {
		t.Fatal("changed detector action must notify")
	}
	if !strings.Contains(reason, model.DetectorMACD) {
		t.Errorf("reason %q should name the changed detector", reason)
	}
}

func TestShouldNotify_RefreshOverridesSuppression(t *testing.T) {
	g := New(newMemStore())
	ctx := context.Background()
	actions := allHold()

	if _, err := g.Record(ctx, "BTCUSDT", actions, "detail", time.Now()); err != nil {
		t.Fatal(err)
	}
	ok, reason := g.ShouldNotify(ctx, "BTCUSDT", actions, true)
	if !ok || reason != "periodic refresh" {
		t.Fatalf("refresh cycle must notify, got (%v, %q)", ok, reason)
	}
}

func TestShouldNotify_StoreFailureFailsOpen(t *testing.T) {
	store := newMemStore()
	store.failGet = true
	g := New(store)

	ok, reason := g.ShouldNotify(context.Background(), "BTCUSDT", allHold(), false)
	if !ok {
		t.Fatal("unreachable store must fail open")
	}
	if reason != "state unavailable" {
		t.Errorf("reason = %q", reason)
	}
}

func TestShouldNotify_SymbolsIndependent(t *testing.T) {
	g := New(newMemStore())
	ctx := context.Background()
	actions := allHold()

	if _, err := g.Record(ctx, "BTCUSDT", actions, "detail", time.Now()); err != nil {
		t.Fatal(err)
	}
	ok, _ := g.ShouldNotify(ctx, "ETHUSDT", actions, false)
	if !ok {
		t.Fatal("recording one symbol must not suppress another")
	}
}

func TestRecord_StoresDetailUnderID(t *testing.T) {
	g := New(newMemStore())
	ctx := context.Background()

	id, err := g.Record(ctx, "BTCUSDT", allHold(), "full detail message", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 8 {
		t.Fatalf("id %q, want 8 hex characters", id)
	}
	got, err := g.Detail(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got != "full detail message" {
		t.Errorf("detail = %q", got)
	}
}

func TestMessageID_DistinguishesInputs(t *testing.T) {
	now := time.Now()
	a := MessageID("msg", "BTCUSDT", now)
	b := MessageID("msg", "ETHUSDT", now)
	c := MessageID("msg", "BTCUSDT", now.Add(time.Nanosecond))
	if a == b || a == c {
		t.Errorf("ids must differ across symbol and time: %q %q %q", a, b, c)
	}
	if a != MessageID("msg", "BTCUSDT", now) {
		t.Error("id must be deterministic for identical inputs")
	}
}
