package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/username/portfolion/backend/src/models"
)

// RateClient is one external resolution tier. FetchRate returns the value
// of one unit of currency in the base currency on the given ISO date.
type RateClient interface {
	Name() string
	FetchRate(ctx context.Context, date, currency, base string) (float64, error)
}

// FrankfurterClient queries the Frankfurter historical rates API.
type FrankfurterClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewFrankfurterClient(baseURL string, timeout time.Duration, rps float64) *FrankfurterClient {
	return &FrankfurterClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *FrankfurterClient) Name() string { return "frankfurter" }

func (c *FrankfurterClient) FetchRate(ctx context.Context, date, currency, base string) (float64, error) {
	url := fmt.Sprintf("%s/%s?from=%s&to=%s", c.baseURL, date, currency, base)
	var payload models.FrankfurterResponse
	if err := fetchJSON(ctx, c.client, c.limiter, url, &payload); err != nil {
		return 0, err
	}
	value, ok := payload.Rates[base]
	if !ok || value <= 0 {
		return 0, fmt.Errorf("frankfurter: no %s rate for %s on %s", base, currency, date)
	}
	return value, nil
}

// ExchangerateHostClient queries the exchangerate.host historical endpoint.
type ExchangerateHostClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewExchangerateHostClient(baseURL string, timeout time.Duration, rps float64) *ExchangerateHostClient {
	return &ExchangerateHostClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *ExchangerateHostClient) Name() string { return "exchangerate.host" }

func (c *ExchangerateHostClient) FetchRate(ctx context.Context, date, currency, base string) (float64, error) {
	url := fmt.Sprintf("%s/%s?base=%s&symbols=%s", c.baseURL, date, currency, base)
	var payload models.ExchangerateHostResponse
	if err := fetchJSON(ctx, c.client, c.limiter, url, &payload); err != nil {
		return 0, err
	}
	value, ok := payload.Rates[base]
	if !ok || value <= 0 {
		return 0, fmt.Errorf("exchangerate.host: no %s rate for %s on %s", base, currency, date)
	}
	return value, nil
}

func fetchJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, out any) error {
	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}
