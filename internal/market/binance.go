// Package market fetches candle, funding-rate and on-chain data from the
// public Binance and Blockchair APIs. All endpoints are unauthenticated.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crypto-sentinelv1/internal/model"
)

// ErrUnavailable wraps any transport or decode failure so callers can
// treat "collaborator down" uniformly and degrade instead of aborting.
var ErrUnavailable = errors.New("market data unavailable")

const (
	defaultSpotURL       = "https://api.binance.com"
	defaultFuturesURL    = "https://fapi.binance.com"
	defaultBlockchairURL = "https://api.blockchair.com"
)

// Config overrides the API hosts, mainly for tests.
type Config struct {
	SpotURL       string
	FuturesURL    string
	BlockchairURL string
	HTTPClient    *http.Client
}

// Client is the read-only market data client.
type Client struct {
	spotURL       string
	futuresURL    string
	blockchairURL string
	http          *http.Client
}

func NewClient(cfg Config) *Client {
	c := &Client{
		spotURL:       cfg.SpotURL,
		futuresURL:    cfg.FuturesURL,
		blockchairURL: cfg.BlockchairURL,
		http:          cfg.HTTPClient,
	}
	if c.spotURL == "" {
		c.spotURL = defaultSpotURL
	}
	if c.futuresURL == "" {
		c.futuresURL = defaultFuturesURL
	}
	if c.blockchairURL == "" {
		c.blockchairURL = defaultBlockchairURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	return c
}

// Klines fetches OHLCV history for a symbol. Binance returns each bar as
// a mixed-type JSON array: the timestamp is a number, prices and volume
// are strings.
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) (model.Series, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	var raw [][]json.RawMessage
	if err := c.getJSON(ctx, c.spotURL+"/api/v3/klines?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	series := make(model.Series, 0, len(raw))
	for _, bar := range raw {
		if len(bar) < 6 {
			return nil, fmt.Errorf("%w: kline with %d fields", ErrUnavailable, len(bar))
		}
		var ms int64
		if err := json.Unmarshal(bar[0], &ms); err != nil {
			return nil, fmt.Errorf("%w: kline timestamp: %v", ErrUnavailable, err)
		}
		candle := model.Candle{TS: time.UnixMilli(ms).UTC()}
		for i, dst := range []*float64{&candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume} {
			v, err := stringFloat(bar[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: kline field %d: %v", ErrUnavailable, i+1, err)
			}
			*dst = v
		}
		series = append(series, candle)
	}
	return series, nil
}

// FundingRate is one futures funding rate record.
type FundingRate struct {
	Time time.Time
	Rate float64
}

// FundingRates fetches the most recent funding rates for a symbol from
// the Binance futures API.
func (c *Client) FundingRates(ctx context.Context, symbol string, limit int) ([]FundingRate, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("limit", strconv.Itoa(limit))

	var raw []struct {
		FundingTime int64           `json:"fundingTime"`
		FundingRate json.RawMessage `json:"fundingRate"`
	}
	if err := c.getJSON(ctx, c.futuresURL+"/fapi/v1/fundingRate?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	rates := make([]FundingRate, 0, len(raw))
	for _, r := range raw {
		rate, err := stringFloat(r.FundingRate)
		if err != nil {
			return nil, fmt.Errorf("%w: funding rate: %v", ErrUnavailable, err)
		}
		rates = append(rates, FundingRate{Time: time.UnixMilli(r.FundingTime).UTC(), Rate: rate})
	}
	return rates, nil
}

// DailyVolumes fetches the last n daily volumes for a symbol, oldest
// first. Used to spot day-over-day volume jumps.
func (c *Client) DailyVolumes(ctx context.Context, symbol string, n int) ([]float64, error) {
	series, err := c.Klines(ctx, symbol, "1d", n)
	if err != nil {
		return nil, err
	}
	return series.Volumes(), nil
}

// WhaleTransaction is one large on-chain BTC transfer.
type WhaleTransaction struct {
	AmountBTC float64
	Time      time.Time
}

// WhaleTransactions fetches recent BTC transactions moving at least
// minBTC from Blockchair.
func (c *Client) WhaleTransactions(ctx context.Context, minBTC float64, limit int) ([]WhaleTransaction, error) {
	minSats := int64(minBTC * 1e8)
	q := url.Values{}
	q.Set("q", fmt.Sprintf("output_total(%d..)", minSats))
	q.Set("s", "time(desc)")
	q.Set("limit", strconv.Itoa(limit))

	var raw struct {
		Data []struct {
			OutputTotal int64  `json:"output_total"`
			Time        string `json:"time"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.blockchairURL+"/bitcoin/transactions?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	txns := make([]WhaleTransaction, 0, len(raw.Data))
	for _, tx := range raw.Data {
		ts, _ := time.Parse("2006-01-02 15:04:05", tx.Time)
		txns = append(txns, WhaleTransaction{
			AmountBTC: float64(tx.OutputTotal) / 1e8,
			Time:      ts,
		})
	}
	return txns, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d from %s", ErrUnavailable, resp.StatusCode, rawURL)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}

// stringFloat parses a JSON value that may be either a quoted number
// ("123.45") or a bare number.
func stringFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}
