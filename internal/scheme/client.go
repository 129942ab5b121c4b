// Package scheme provides the client for the external scheme registry, the
// source of per-scheme accrual rates.
package scheme

import (
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"pension-engine/internal/metrics"
	"pension-engine/internal/model"
)

// DefaultAccrualRate is used for every scheme when no registry is configured,
// and for an individual scheme when its fetch fails or times out.
const DefaultAccrualRate = 0.02

const fetchTimeout = 2 * time.Second

// Client resolves scheme accrual rates against the registry with a
// process-lifetime cache. One Client is shared by all concurrent calculation
// runs; the cache is the only state shared between them.
type Client struct {
	baseURL string
	http    *http.Client
	cache   sync.Map // scheme id → float64
}

// NewClient returns a client for the registry at baseURL. An empty baseURL
// puts the client in default-rate-only mode: no network calls ever happen.
func NewClient(baseURL string) *Client {
	c := &Client{baseURL: baseURL}
	if baseURL != "" {
		c.http = &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return c
}

type schemeResponse struct {
	SchemeID    string   `json:"scheme_id"`
	AccrualRate *float64 `json:"accrual_rate"`
}

// AccrualRates returns the accrual rate for every distinct scheme id among the
// given policies. Cached rates are returned directly; the rest are fetched
// concurrently, each bounded by its own timeout. A failed or timed-out fetch
// resolves to DefaultAccrualRate for that scheme without being cached, so a
// transient failure does not poison later lookups. The returned map always
// covers every requested scheme id.
func (c *Client) AccrualRates(policies []model.Policy) map[string]float64 {
	unique := make(map[string]struct{}, len(policies))
	for _, p := range policies {
		unique[p.SchemeID] = struct{}{}
	}

	result := make(map[string]float64, len(unique))

	if c.baseURL == "" {
		for id := range unique {
			result[id] = DefaultAccrualRate
			metrics.RateLookups.WithLabelValues("default").Inc()
		}
		return result
	}

	var toFetch []string
	for id := range unique {
		if rate, ok := c.cache.Load(id); ok {
			result[id] = rate.(float64)
			metrics.RateLookups.WithLabelValues("cached").Inc()
		} else {
			toFetch = append(toFetch, id)
		}
	}

	if len(toFetch) == 0 {
		return result
	}

	// Fan out one fetch per missing id and wait for all of them, so callers
	// never observe a partial mapping.
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, id := range toFetch {
		wg.Add(1)
		go func(schemeID string) {
			defer wg.Done()
			rate, ok := c.fetchRate(schemeID)
			if ok {
				c.cache.Store(schemeID, rate)
				metrics.RateLookups.WithLabelValues("fetched").Inc()
			} else {
				rate = DefaultAccrualRate
				metrics.RateLookups.WithLabelValues("fallback").Inc()
			}
			mu.Lock()
			result[schemeID] = rate
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return result
}

func (c *Client) fetchRate(schemeID string) (float64, bool) {
	resp, err := c.http.Get(c.baseURL + "/schemes/" + schemeID)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, false
	}

	var sr schemeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil || sr.AccrualRate == nil {
		return 0, false
	}
	return *sr.AccrualRate, true
}
