package fx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type stubClient struct {
	name  string
	rate  float64
	err   error
	calls int
}

func (s *stubClient) Name() string { return s.name }

func (s *stubClient) FetchRate(ctx context.Context, date, currency, base string) (float64, error) {
	s.calls++
	return s.rate, s.err
}

func testStore() *HistoricalStore {
	return NewHistoricalStore([]models.RateObservation{
		{Date: "2021-02-17", Currency: "USD", Rate: 21.27},
		{Date: "2021-02-15", Currency: "EUR", Rate: 25.87},
	})
}

func TestResolverInternalTier(t *testing.T) {
	primary := &stubClient{name: "primary", rate: 99}
	r := NewResolver("CZK", testStore(), primary, nil)

	got := r.GetRateInfo(context.Background(), "2021-02-17", "USD")
	if got.Value != 21.27 || got.Tier != TierInternal {
		t.Fatalf("GetRateInfo = %+v, want 21.27 internal", got)
	}
	if primary.calls != 0 {
		t.Errorf("external tier consulted despite internal hit")
	}
}

func TestResolverNearestDate(t *testing.T) {
	r := NewResolver("CZK", testStore(), nil, nil)

	// No EUR observation on the 17th; the 15th is the closest.
	got := r.GetRateInfo(context.Background(), "2021-02-17", "EUR")
	if got.Value != 25.87 || got.Tier != TierInternal {
		t.Fatalf("GetRateInfo = %+v, want nearest-date 25.87 internal", got)
	}
}

func TestResolverTierChain(t *testing.T) {
	primary := &stubClient{name: "primary", err: errors.New("down")}
	secondary := &stubClient{name: "secondary", rate: 21.5}
	r := NewResolver("CZK", testStore(), primary, secondary)

	// Nearest-date matching makes the store answer any USD or EUR query,
	// so exercise the chain with a currency it has never observed.
	got := r.GetRateInfo(context.Background(), "2024-06-01", "CHF")
	if got.Tier != TierExternalSecondary || got.Value != 21.5 {
		t.Fatalf("GetRateInfo = %+v, want 21.5 external_secondary", got)
	}
	if primary.calls != 1 {
		t.Errorf("primary tier calls = %d, want 1", primary.calls)
	}
}

func TestResolverUnitFallbackIsCached(t *testing.T) {
	primary := &stubClient{name: "primary", err: errors.New("down")}
	secondary := &stubClient{name: "secondary", err: errors.New("down")}
	r := NewResolver("CZK", NewHistoricalStore(nil), primary, secondary)

	ctx := context.Background()
	got := r.GetRateInfo(ctx, "2024-06-01", "CHF")
	if got.Value != 1 || got.Tier != TierFallbackUnit {
		t.Fatalf("GetRateInfo = %+v, want unit fallback", got)
	}

	// A failed resolution is cached too; the tiers must not be retried
	// for every record in the batch.
	r.GetRate(ctx, "2024-06-01", "CHF")
	r.GetRate(ctx, "2024-06-01", "CHF")
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("tier calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestResolverBaseCurrency(t *testing.T) {
	primary := &stubClient{name: "primary", rate: 99}
	r := NewResolver("CZK", nil, primary, nil)

	for _, ccy := range []string{"CZK", "czk", " CZK ", ""} {
		got := r.GetRateInfo(context.Background(), "2021-02-17", ccy)
		if got.Value != 1 {
			t.Errorf("GetRateInfo(%q) = %+v, want 1", ccy, got)
		}
	}
	if primary.calls != 0 {
		t.Errorf("base-currency lookups must not reach external tiers")
	}
}

func TestResolverPrefetch(t *testing.T) {
	primary := &stubClient{name: "primary", rate: 20}
	r := NewResolver("CZK", NewHistoricalStore(nil), primary, nil)

	pairs := []Pair{
		{Date: "2024-06-01", Currency: "USD"},
		{Date: "2024-06-01", Currency: "USD"}, // duplicate
		{Date: "2024-06-01", Currency: "CZK"}, // base, skipped
	}
	r.Prefetch(context.Background(), pairs)
	if primary.calls != 1 {
		t.Fatalf("Prefetch made %d external calls, want 1", primary.calls)
	}

	r.GetRate(context.Background(), "2024-06-01", "USD")
	if primary.calls != 1 {
		t.Errorf("per-record lookup after Prefetch hit the network")
	}
}

func TestFrankfurterClient(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`{"base":"USD","date":"2021-02-17","rates":{"CZK":21.27}}`))
	}))
	defer srv.Close()

	c := NewFrankfurterClient(srv.URL, time.Second, 100)
	value, err := c.FetchRate(context.Background(), "2021-02-17", "USD", "CZK")
	if err != nil {
		t.Fatal(err)
	}
	if value != 21.27 {
		t.Errorf("FetchRate = %v, want 21.27", value)
	}
	if gotPath != "/2021-02-17" || gotQuery != "from=USD&to=CZK" {
		t.Errorf("request = %s?%s", gotPath, gotQuery)
	}
}

func TestFrankfurterClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewFrankfurterClient(srv.URL, time.Second, 100)
	if _, err := c.FetchRate(context.Background(), "2021-02-17", "USD", "CZK"); err == nil {
		t.Fatal("FetchRate returned nil error on HTTP 404")
	}
}

func TestExchangerateHostClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "base=EUR&symbols=CZK" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"success":true,"base":"EUR","date":"2021-02-17","rates":{"CZK":25.88}}`))
	}))
	defer srv.Close()

	c := NewExchangerateHostClient(srv.URL, time.Second, 100)
	value, err := c.FetchRate(context.Background(), "2021-02-17", "EUR", "CZK")
	if err != nil {
		t.Fatal(err)
	}
	if value != 25.88 {
		t.Errorf("FetchRate = %v, want 25.88", value)
	}
}

func TestHistoricalStoreLookup(t *testing.T) {
	store := testStore()

	if v, ok := store.Lookup("2021-02-17", "USD", false); !ok || v != 21.27 {
		t.Errorf("exact lookup = %v/%v", v, ok)
	}
	if _, ok := store.Lookup("2021-02-16", "USD", false); ok {
		t.Errorf("exact lookup found a rate for an unobserved date")
	}
	if v, ok := store.Lookup("2021-03-01", "EUR", true); !ok || v != 25.87 {
		t.Errorf("nearest lookup = %v/%v, want 25.87", v, ok)
	}
	if _, ok := store.Lookup("2021-02-17", "JPY", true); ok {
		t.Errorf("lookup found a rate for an unknown currency")
	}
}
