package market

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const defaultStreamURL = "wss://stream.binance.com:9443/stream"

// Trade is one live trade from the Binance stream.
type Trade struct {
	Symbol string
	Price  float64
	Time   time.Time
}

// Stream maintains a combined Binance trade websocket for a set of
// symbols, reconnecting with a fixed delay on any failure. The last
// trade price per symbol feeds the short-form alerts between candle
// polls.
type Stream struct {
	url            string
	symbols        []string
	reconnectDelay time.Duration
	dialer         *websocket.Dialer

	// OnTrade, if set, is called for every received trade.
	OnTrade func(Trade)
}

// NewStream builds a trade stream for the given symbols. url may be
// empty for the production endpoint.
func NewStream(url string, symbols []string) *Stream {
	if url == "" {
		url = defaultStreamURL
	}
	return &Stream{
		url:            url,
		symbols:        symbols,
		reconnectDelay: 5 * time.Second,
		dialer:         websocket.DefaultDialer,
	}
}

// streamPath joins the per-symbol trade stream names for the combined
// endpoint: btcusdt@trade/ethusdt@trade.
func (s *Stream) streamPath() string {
	names := make([]string, len(s.symbols))
	for i, sym := range s.symbols {
		names[i] = strings.ToLower(sym) + "@trade"
	}
	return s.url + "?streams=" + strings.Join(names, "/")
}

// Run connects and reads trades until ctx is cancelled, reconnecting on
// any error. Blocks; run it in its own goroutine.
func (s *Stream) Run(ctx context.Context) {
	for {
		if err := s.readOnce(ctx); err != nil {
			log.Printf("[stream] connection lost: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Stream) readOnce(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.streamPath(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[stream] connected, %d symbols", len(s.symbols))

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		trade, ok := parseTrade(raw)
		if ok && s.OnTrade != nil {
			s.OnTrade(trade)
		}
	}
}

// parseTrade decodes one combined-stream frame. Non-trade frames are
// ignored.
func parseTrade(raw []byte) (Trade, bool) {
	var frame struct {
		Data struct {
			Event  string `json:"e"`
			Symbol string `json:"s"`
			Price  string `json:"p"`
			TimeMS int64  `json:"T"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Data.Event != "trade" {
		return Trade{}, false
	}
	price, err := strconv.ParseFloat(frame.Data.Price, 64)
	if err != nil {
		return Trade{}, false
	}
	return Trade{
		Symbol: frame.Data.Symbol,
		Price:  price,
		Time:   time.UnixMilli(frame.Data.TimeMS).UTC(),
	}, true
}
