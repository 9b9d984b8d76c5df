package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crypto-sentinelv1/internal/model"
)

func TestAlert_ShortText(t *testing.T) {
	a := Alert{
		Symbol:   "BTCUSDT",
		Action:   model.ActionBuy,
		Strength: model.StrengthStrong,
		Price:    50123.45,
		Message:  "BUY - Uptrend confirmed with high volume",
		DetailID: "abcd1234",
	}
	text := a.ShortText()
	for _, want := range []string{"BUY BTCUSDT @ 50123.45", "Strong", "abcd1234"} {
		if !strings.Contains(text, want) {
			t.Errorf("short text %q missing %q", text, want)
		}
	}

	// No detail id, no detail line.
	a.DetailID = ""
	if strings.Contains(a.ShortText(), "Detail:") {
		t.Error("short text should omit the detail line without an id")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	got := escapeMarkdown("BUY - 2.5% (strong!)")
	want := `BUY \- 2\.5% \(strong\!\)`
	if got != want {
		t.Errorf("escaped = %q, want %q", got, want)
	}
}

func TestWebhookNotifier_PostsJSON(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.Send(context.Background(), Alert{
		Symbol: "ETHUSDT", Action: model.ActionSell, Strength: model.StrengthMedium,
		Price: 2500, Message: "SELL - Downtrend confirmed",
	})
	if err != nil {
		t.Fatal(err)
	}
	if received["symbol"] != "ETHUSDT" || received["action"] != "SELL" {
		t.Errorf("payload = %v", received)
	}
	if received["ts"] == nil {
		t.Error("payload missing timestamp")
	}
}

func TestWebhookNotifier_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewWebhookNotifier(srv.URL).Send(context.Background(), Alert{}); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

// failingNotifier always errors, for fanout tests.
type failingNotifier struct{ err error }

func (f *failingNotifier) Send(context.Context, Alert) error { return f.err }

// countingNotifier records deliveries.
type countingNotifier struct{ sent int }

func (c *countingNotifier) Send(context.Context, Alert) error {
	c.sent++
	return nil
}

func TestMulti_AttemptsAllBackends(t *testing.T) {
	boom := errors.New("boom")
	counter := &countingNotifier{}
	m := NewMulti(&failingNotifier{err: boom}, counter)

	err := m.Send(context.Background(), Alert{Symbol: "BTCUSDT"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want first backend failure", err)
	}
	if counter.sent != 1 {
		t.Errorf("second backend sent %d times, want 1", counter.sent)
	}
}
