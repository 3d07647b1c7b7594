package rates

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// THB-base exchange rates, fetched from an open rates API and cached in
// memory. Conversion is display-only; prices are always stored in THB.

const staleAfter = 6 * time.Hour

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

type Cache struct {
	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time
}

var GlobalCache = &Cache{}

func apiURL() string {
	if url := os.Getenv("RATES_API_URL"); url != "" {
		return url
	}
	return "https://open.er-api.com/v6/latest/THB"
}

// Refresh fetches the latest THB rates. Called at boot and from the cron
// refresher; a failed refresh keeps the previous snapshot.
func (c *Cache) Refresh() error {
	resp, err := http.Get(apiURL())
	if err != nil {
		return fmt.Errorf("could not fetch rates: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read rates response: %v", err)
	}

	rates, err := Parse(body)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rates = rates
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return nil
}

// Parse extracts the rate table from an er-api style payload.
func Parse(body []byte) (map[string]float64, error) {
	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("could not parse rates response: %v", err)
	}
	if parsed.Result != "" && parsed.Result != "success" {
		return nil, fmt.Errorf("rates API returned result %q", parsed.Result)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("rates response contained no rates")
	}
	return parsed.Rates, nil
}

// Convert turns a THB amount into the target currency. Returns an error
// when the cache is empty, stale, or the currency is unknown.
func (c *Cache) Convert(amountTHB float64, currency string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rates == nil {
		return 0, fmt.Errorf("exchange rates not loaded")
	}
	if time.Since(c.fetchedAt) > staleAfter {
		return 0, fmt.Errorf("exchange rates are stale")
	}

	rate, ok := c.rates[currency]
	if !ok {
		return 0, fmt.Errorf("unknown currency %q", currency)
	}

	return amountTHB * rate, nil
}

// Snapshot returns a copy of the current rate table and its age.
func (c *Cache) Snapshot() (map[string]float64, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]float64, len(c.rates))
	for k, v := range c.rates {
		out[k] = v
	}
	return out, c.fetchedAt
}

// SetForTest seeds the cache directly.
func (c *Cache) SetForTest(rates map[string]float64) {
	c.mu.Lock()
	c.rates = rates
	c.fetchedAt = time.Now()
	c.mu.Unlock()
}
