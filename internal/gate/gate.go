// Package gate decides whether an evaluation cycle's outcome is worth
// re-notifying the downstream consumer about. It compares the current
// per-detector action map against the one persisted for the symbol and
// fails open when the state store is unreachable.
package gate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"crypto-sentinelv1/internal/model"
)

// Store is the persistence the gate needs: the per-symbol detector action
// map and the TTL-bound detail messages. GetStatuses returns a nil map
// (not an error) when no state exists for the symbol, and Detail returns
// an empty string for absent or expired identifiers.
type Store interface {
	GetStatuses(ctx context.Context, symbol string) (map[string]string, error)
	SetStatuses(ctx context.Context, symbol string, statuses map[string]string) error
	SaveDetail(ctx context.Context, id, detail string) error
	Detail(ctx context.Context, id string) (string, error)
}

// Gate gates notifications on detector action changes.
type Gate struct {
	store Store
}

func New(store Store) *Gate {
	return &Gate{store: store}
}

// ShouldNotify reports whether to notify for this cycle and why. It always
// notifies on the first evaluation of a symbol and on a periodic refresh;
// otherwise only when at least one detector's action differs from the
// persisted map. A store failure notifies too; losing dedup is preferable
// to losing alerts.
func (g *Gate) ShouldNotify(ctx context.Context, symbol string, actions map[string]string, refresh bool) (bool, string) {
	if refresh {
		return true, "periodic refresh"
	}

	prev, err := g.store.GetStatuses(ctx, symbol)
	if err != nil {
		log.Printf("[gate] %s: state fetch failed, notifying anyway: %v", symbol, err)
		return true, "state unavailable"
	}
	if prev == nil {
		return true, "first evaluation"
	}

	for _, name := range model.DetectorNames {
		if prev[name] != actions[name] {
			return true, fmt.Sprintf("%s changed %s → %s", name, printable(prev[name]), printable(actions[name]))
		}
	}
	return false, ""
}

// Record persists the current action map and the detail message, returning
// the content-derived identifier under which the detail was stored.
func (g *Gate) Record(ctx context.Context, symbol string, actions map[string]string, detail string, now time.Time) (string, error) {
	id := MessageID(detail, symbol, now)
	if err := g.store.SetStatuses(ctx, symbol, actions); err != nil {
		return "", fmt.Errorf("persist statuses for %s: %w", symbol, err)
	}
	if err := g.store.SaveDetail(ctx, id, detail); err != nil {
		return "", fmt.Errorf("persist detail %s: %w", id, err)
	}
	return id, nil
}

// Detail looks up a previously recorded detail message. Absent or expired
// identifiers yield ("", nil); the detail is simply no longer available.
func (g *Gate) Detail(ctx context.Context, id string) (string, error) {
	return g.store.Detail(ctx, id)
}

// MessageID derives an 8-hex-character identifier from the message
// content, symbol and timestamp, so identical messages for different
// symbols or times get distinct ids.
func MessageID(message, symbol string, ts time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%s|%d", message, symbol, ts.UnixNano())))
	return hex.EncodeToString(sum[:])[:8]
}

func printable(action string) string {
	if action == "" {
		return "∅"
	}
	return action
}
