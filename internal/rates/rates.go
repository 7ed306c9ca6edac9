// Package rates looks up currency exchange rates from public providers and
// degrades to a static table when none of them answers.
package rates

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultCurrency = "USD"
	SourceFallback  = "fallback"

	DefaultTimeout  = 5 * time.Second
	DefaultCacheTTL = time.Hour
)

// Approximate rates against USD, keyed by target currency.
var _fallbackRates = map[string]float64{
	"NGN": 1500,
	"GBP": 0.8,
	"CAD": 1.35,
	"KES": 150,
	"INR": 83,
	"EUR": 0.92,
	"JPY": 150,
	"AUD": 1.52,
	"CHF": 0.88,
	"CNY": 7.2,
}

func FallbackRate(to string) float64 {
	if rate, ok := _fallbackRates[to]; ok {
		return rate
	}
	return 1
}

type Quote struct {
	Rate   float64 `json:"rate"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Source string  `json:"source"`
}

type Service struct {
	logger    *slog.Logger
	providers []Provider
	timeout   time.Duration

	cache    Cache
	cacheTTL time.Duration
}

func NewService(logger *slog.Logger, providers []Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		logger:    logger.With("service", "rates"),
		providers: providers,
		timeout:   timeout,
		cache:     NopCache{},
		cacheTTL:  DefaultCacheTTL,
	}
}

func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	if cache != nil {
		s.cache = cache
	}
	if ttl > 0 {
		s.cacheTTL = ttl
	}
	return s
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// Lookup never fails. Providers are tried in order, each bounded by the
// service timeout; the fallback table answers when none of them does.
func (s *Service) Lookup(ctx context.Context, from, to string) Quote {
	from, to = normalizeCode(from), normalizeCode(to)
	logger := s.logger.With("from", from, "to", to)

	key := cacheKey(from, to)
	if q, ok, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("failed to read rate cache", "error", err)
	} else if ok {
		logger.Debug("rate served from cache", "source", q.Source)
		return q
	}

	for _, p := range s.providers {
		rate, err := s.ask(ctx, p, from, to)
		if err != nil {
			logger.Debug("rate provider gave no answer", "provider", p.Name(), "error", err)
			continue
		}

		q := Quote{Rate: rate, From: from, To: to, Source: p.Name()}
		if err := s.cache.Set(ctx, key, q, s.cacheTTL); err != nil {
			logger.Warn("failed to write rate cache", "error", err)
		}
		return q
	}

	logger.Info("all rate providers failed, using fallback")

	return Quote{Rate: FallbackRate(to), From: from, To: to, Source: SourceFallback}
}

func (s *Service) ask(ctx context.Context, p Provider, from, to string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return p.Rate(ctx, from, to)
}
