package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKlines_ParsesMixedTypeBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %q", got)
		}
		w.Write([]byte(`[
			[1717200000000,"50000.1","50100.2","49900.3","50050.4","123.45",1717203599999,"0",10,"0","0","0"],
			[1717203600000,"50050.4","50200.0","50000.0","50150.0","67.89",1717207199999,"0",10,"0","0","0"]
		]`))
	}))
	defer srv.Close()

	c := NewClient(Config{SpotURL: srv.URL})
	series, err := c.Klines(context.Background(), "BTCUSDT", "1h", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 2 {
		t.Fatalf("got %d candles, want 2", len(series))
	}
	first := series[0]
	if first.Open != 50000.1 || first.High != 50100.2 || first.Low != 49900.3 ||
		first.Close != 50050.4 || first.Volume != 123.45 {
		t.Errorf("first candle = %+v", first)
	}
	if first.TS.UnixMilli() != 1717200000000 {
		t.Errorf("timestamp = %v", first.TS)
	}
}

func TestKlines_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer srv.Close()

	c := NewClient(Config{SpotURL: srv.URL})
	_, err := c.Klines(context.Background(), "BTCUSDT", "1h", 2)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestFundingRates_ParsesStringRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v1/fundingRate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","fundingTime":1717200000000,"fundingRate":"0.00010000"},
			{"symbol":"BTCUSDT","fundingTime":1717228800000,"fundingRate":"-0.00005000"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(Config{FuturesURL: srv.URL})
	rates, err := c.FundingRates(context.Background(), "BTCUSDT", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 2 {
		t.Fatalf("got %d rates, want 2", len(rates))
	}
	if rates[0].Rate != 0.0001 || rates[1].Rate != -0.00005 {
		t.Errorf("rates = %+v", rates)
	}
}

func TestWhaleTransactions_ParsesSatoshis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bitcoin/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[
			{"output_total":150000000000,"time":"2025-06-01 12:00:00"},
			{"output_total":100000000000,"time":"2025-06-01 11:00:00"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BlockchairURL: srv.URL})
	txns, err := c.WhaleTransactions(context.Background(), 1000, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	if txns[0].AmountBTC != 1500 || txns[1].AmountBTC != 1000 {
		t.Errorf("amounts = %+v", txns)
	}
}

func TestClient_UnreachableHost(t *testing.T) {
	c := NewClient(Config{SpotURL: "http://127.0.0.1:1"})
	_, err := c.Klines(context.Background(), "BTCUSDT", "1h", 2)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
