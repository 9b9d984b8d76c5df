// Package monitor is the top-level orchestrator: it polls candle history
// for every configured symbol, runs the evaluation engine, journals the
// outcome and pushes alerts through the change gate to the notification
// backends.
package monitor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"crypto-sentinelv1/internal/decision"
	"crypto-sentinelv1/internal/engine"
	"crypto-sentinelv1/internal/gate"
	"crypto-sentinelv1/internal/market"
	"crypto-sentinelv1/internal/metrics"
	"crypto-sentinelv1/internal/model"
	"crypto-sentinelv1/internal/notification"
	"crypto-sentinelv1/internal/sentiment"
	redisstore "crypto-sentinelv1/internal/store/redis"
	sqlitestore "crypto-sentinelv1/internal/store/sqlite"
)

// MarketData is the subset of the market client the monitor needs.
type MarketData interface {
	Klines(ctx context.Context, symbol, interval string, limit int) (model.Series, error)
	sentiment.DataSource
}

// DecisionJournal records evaluation outcomes for offline audit.
type DecisionJournal interface {
	Append(ctx context.Context, e sqlitestore.Entry) error
}

// Config holds the monitor's runtime settings.
type Config struct {
	Symbols     []string
	Interval    string
	CandleLimit int
	PollSleep   time.Duration
	FullRefresh time.Duration
	Profile     model.Profile
	Policy      decision.Policy
}

// Deps are the collaborators wired in by main.
type Deps struct {
	Market   MarketData
	Gate     *gate.Gate
	Journal  DecisionJournal
	Notifier notification.Notifier
	Metrics  *metrics.Metrics
	Health   *metrics.HealthStatus
	Cache    *redisstore.Store // optional, for storage size reporting
	Stream   *market.Stream    // optional live trade stream
}

// Service runs the evaluation loop.
type Service struct {
	cfg  Config
	deps Deps

	lastRefresh time.Time
	cycles      int64

	mu         sync.RWMutex
	livePrices map[string]float64
}

// New creates a monitor service. Market, Gate, Journal and Notifier are
// required; the rest are optional.
func New(cfg Config, deps Deps) *Service {
	return &Service{
		cfg:        cfg,
		deps:       deps,
		livePrices: make(map[string]float64),
	}
}

// Run blocks until ctx is cancelled, evaluating every symbol each pass
// and sleeping cfg.PollSleep between passes.
func (s *Service) Run(ctx context.Context) error {
	log.Printf("[monitor] starting: %d symbols, interval %s, poll every %s",
		len(s.cfg.Symbols), s.cfg.Interval, s.cfg.PollSleep)

	if s.deps.Stream != nil {
		s.deps.Stream.OnTrade = s.recordTrade
		go s.deps.Stream.Run(ctx)
	}

	s.lastRefresh = time.Now()
	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			log.Println("[monitor] shutting down")
			return ctx.Err()
		case <-time.After(s.cfg.PollSleep):
		}
	}
}

// runCycle evaluates every configured symbol once.
func (s *Service) runCycle(ctx context.Context) {
	now := time.Now()
	refresh := s.cfg.FullRefresh > 0 && now.Sub(s.lastRefresh) >= s.cfg.FullRefresh
	if refresh {
		log.Printf("[monitor] periodic refresh: re-sending all alerts")
		s.lastRefresh = now
	}

	for _, symbol := range s.cfg.Symbols {
		if ctx.Err() != nil {
			return
		}
		if err := s.evaluateSymbol(ctx, symbol, refresh); err != nil {
			log.Printf("[monitor] %s: %v", symbol, err)
		}
	}

	s.cycles++
	if s.deps.Metrics != nil {
		s.deps.Metrics.CyclesTotal.Inc()
	}
	if s.deps.Health != nil {
		s.deps.Health.SetLastCycleTime(time.Now())
	}
	s.reportStorage(ctx)
}

// evaluateSymbol fetches candles, runs the engine, journals the decision
// and notifies when the gate allows it.
func (s *Service) evaluateSymbol(ctx context.Context, symbol string, refresh bool) error {
	candles, err := s.deps.Market.Klines(ctx, symbol, s.cfg.Interval, s.cfg.CandleLimit)
	if err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.FetchErrorsTotal.WithLabelValues("klines").Inc()
		}
		return fmt.Errorf("fetch klines: %w", err)
	}

	start := time.Now()
	ev := engine.Evaluate(symbol, candles, s.cfg.Profile, s.cfg.Policy)
	if s.deps.Metrics != nil {
		s.deps.Metrics.EvaluateDur.Observe(time.Since(start).Seconds())
		s.deps.Metrics.DecisionsTotal.WithLabelValues(symbol, string(ev.Decision.Action)).Inc()
		s.deps.Metrics.TrendScore.WithLabelValues(symbol).Set(float64(ev.TrendScore))
	}

	actions := ev.Vector.Actions()
	notify, reason := s.deps.Gate.ShouldNotify(ctx, symbol, actions, refresh)

	var messageID string
	if notify {
		detail := s.enrichDetail(ctx, symbol, candles, ev)
		messageID, err = s.deps.Gate.Record(ctx, symbol, actions, detail, time.Now())
		if err != nil {
			// Alert still goes out; only the stored detail is lost.
			log.Printf("[monitor] %s: record state: %v", symbol, err)
		}

		alert := notification.Alert{
			Symbol:   symbol,
			Action:   ev.Decision.Action,
			Strength: ev.Decision.Strength,
			Price:    ev.Price,
			Message:  ev.Decision.Message,
			DetailID: messageID,
			Reason:   reason,
		}
		if err := s.deps.Notifier.Send(ctx, alert); err != nil {
			log.Printf("[monitor] %s: notify: %v", symbol, err)
		} else if s.deps.Metrics != nil {
			s.deps.Metrics.NotificationsTotal.WithLabelValues(symbol).Inc()
		}
	} else {
		log.Printf("[monitor] %s: %s %s (suppressed, no detector change)",
			symbol, ev.Decision.Action, ev.Decision.Strength)
	}

	entry := sqlitestore.Entry{
		TS:        time.Now(),
		Symbol:    symbol,
		Action:    ev.Decision.Action,
		Strength:  ev.Decision.Strength,
		Price:     ev.Price,
		Trend:     ev.Trend.String(),
		Score:     ev.TrendScore,
		Message:   ev.Decision.Message,
		Vector:    actions,
		MessageID: messageID,
		Notified:  notify,
	}
	if err := s.deps.Journal.Append(ctx, entry); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return nil
}

// enrichDetail appends market sentiment and whale activity to the
// engine's detail message. Enrichment is best effort and runs only for
// alerts that will actually be sent.
func (s *Service) enrichDetail(ctx context.Context, symbol string, candles model.Series, ev engine.Evaluation) string {
	var b strings.Builder
	b.WriteString(ev.Detail)

	b.WriteString("\n\n")
	b.WriteString(sentiment.MarketSentiment(ctx, s.deps.Market, symbol))

	b.WriteString("\n\n")
	b.WriteString(sentiment.WhaleActivity(ctx, s.deps.Market, symbol, candles, ev.VolumeMA, s.cfg.Profile.VolumeMultiplier))

	if live, ok := s.livePrice(symbol); ok && ev.Price > 0 {
		drift := (live - ev.Price) / ev.Price * 100
		b.WriteString(fmt.Sprintf("\n\n⚡ Live price: %.2f (%+.2f%% vs last close)", live, drift))
	}
	return b.String()
}

// reportStorage logs the state cache footprint every tenth cycle.
func (s *Service) reportStorage(ctx context.Context) {
	if s.deps.Cache == nil || s.cycles%10 != 0 {
		return
	}
	size, err := s.deps.Cache.Size(ctx)
	if err != nil {
		log.Printf("[monitor] storage size unavailable: %v", err)
		return
	}
	log.Printf("[monitor] state cache: %s", size)
}

func (s *Service) recordTrade(t market.Trade) {
	s.mu.Lock()
	s.livePrices[t.Symbol] = t.Price
	s.mu.Unlock()
}

func (s *Service) livePrice(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.livePrices[symbol]
	return p, ok
}
