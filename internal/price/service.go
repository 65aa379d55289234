package price

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheTTL       = 60 * time.Second
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

type feedEnvelope struct {
	Parsed []feedUpdate `json:"parsed"`
}

type feedUpdate struct {
	ID    string       `json:"id"`
	Price feedSnapshot `json:"price"`
}

type feedSnapshot struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int32  `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

type cachedPrice struct {
	value     decimal.Decimal
	fetchedAt time.Time
}

type inflight struct {
	done  chan struct{}
	value decimal.Decimal
	ok    bool
}

// Service fetches oracle prices over REST and caches them for a short TTL.
// Concurrent callers asking for the same feed while a fetch is in flight
// share the one request instead of stampeding the endpoint.
type Service struct {
	endpoint string
	client   *http.Client

	mu       sync.Mutex
	cache    map[string]cachedPrice
	inflight map[string]*inflight
}

func NewService(endpoint string) *Service {
	return &Service{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		client:   &http.Client{Timeout: requestTimeout},
		cache:    make(map[string]cachedPrice),
		inflight: make(map[string]*inflight),
	}
}

// Price returns the latest price for a feed ID. The second return is false
// when the feed is unknown or the fetch failed; a stale cache entry is never
// served past its TTL.
func (s *Service) Price(ctx context.Context, feedID string) (decimal.Decimal, bool) {
	feedID = strings.ToLower(strings.TrimSpace(feedID))
	if feedID == "" {
		return decimal.Zero, false
	}

	s.mu.Lock()
	if entry, found := s.cache[feedID]; found && time.Since(entry.fetchedAt) < cacheTTL {
		s.mu.Unlock()
		return entry.value, true
	}
	if fl, running := s.inflight[feedID]; running {
		s.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.ok
		case <-ctx.Done():
			return decimal.Zero, false
		}
	}
	fl := &inflight{done: make(chan struct{})}
	s.inflight[feedID] = fl
	s.mu.Unlock()

	value, err := s.fetch(ctx, feedID)

	s.mu.Lock()
	delete(s.inflight, feedID)
	if err == nil {
		s.cache[feedID] = cachedPrice{value: value, fetchedAt: time.Now()}
		fl.value, fl.ok = value, true
	} else {
		log.Warn().Err(err).Str("feed_id", feedID).Msg("price fetch failed")
	}
	s.mu.Unlock()
	close(fl.done)

	return fl.value, fl.ok
}

func (s *Service) fetch(ctx context.Context, feedID string) (decimal.Decimal, error) {
	u, err := url.Parse(s.endpoint + "/v2/updates/price/latest")
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price endpoint: %w", err)
	}
	q := u.Query()
	q.Set("ids[]", feedID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("fetch price: status=%d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return decimal.Zero, fmt.Errorf("read price response: %w", err)
	}

	var envelope feedEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return decimal.Zero, fmt.Errorf("decode price response: %w", err)
	}

	for _, update := range envelope.Parsed {
		if strings.EqualFold(strings.TrimPrefix(update.ID, "0x"), strings.TrimPrefix(feedID, "0x")) {
			return snapshotToDecimal(update.Price)
		}
	}
	return decimal.Zero, fmt.Errorf("feed %s not in response", feedID)
}

func snapshotToDecimal(snap feedSnapshot) (decimal.Decimal, error) {
	raw, err := strconv.ParseInt(snap.Price, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", snap.Price, err)
	}
	return decimal.New(raw, snap.Expo), nil
}
