package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"crypto-sentinelv1/internal/model"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_AppendAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := j.Append(ctx, Entry{
			TS:        base.Add(time.Duration(i) * time.Hour),
			Symbol:    "BTCUSDT",
			Action:    model.ActionBuy,
			Strength:  model.StrengthMedium,
			Price:     50000 + float64(i),
			Trend:     "Weak Uptrend",
			Score:     40,
			Message:   "BUY - Uptrend confirmed with high volume",
			Vector:    map[string]string{"ema": "BUY", "macd": "BUY"},
			MessageID: "abcd1234",
			Notified:  i == 0,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := j.Recent(ctx, "BTCUSDT", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if !entries[0].TS.After(entries[1].TS) {
		t.Errorf("entries not ordered newest first: %v, %v", entries[0].TS, entries[1].TS)
	}
	got := entries[0]
	if got.Symbol != "BTCUSDT" || got.Action != model.ActionBuy || got.Strength != model.StrengthMedium {
		t.Errorf("entry round-trip mismatch: %+v", got)
	}
	if got.Vector["ema"] != "BUY" {
		t.Errorf("vector round-trip mismatch: %v", got.Vector)
	}
	if got.Price != 50002 {
		t.Errorf("price = %.0f, want newest row's price", got.Price)
	}
}

func TestJournal_SymbolsIsolated(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	err := j.Append(ctx, Entry{
		TS: time.Now(), Symbol: "ETHUSDT", Action: model.ActionHold,
		Strength: model.StrengthWeak, Trend: "Neutral / Ranging",
		Message: "HOLD", Vector: map[string]string{},
	})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := j.Recent(ctx, "BTCUSDT", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries for unjournaled symbol, want 0", len(entries))
	}
}
