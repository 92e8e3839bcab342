package fx

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/utils"
)

// HistoricalStore is the internal rate tier: observations bundled with the
// deployment, loaded once at startup and shared read-only across batches.
type HistoricalStore struct {
	exact map[string]float64  // "date|currency" → rate
	dates map[string][]string // currency → sorted observation dates
}

// LoadHistoricalStore reads the historical rate file. Call once from main
// after config is loaded.
func LoadHistoricalStore(path string) (*HistoricalStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading historical exchange rate file %q: %w", path, err)
	}
	var rates models.HistoricalRates
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("unmarshalling historical exchange rates from %q: %w", path, err)
	}
	store := NewHistoricalStore(rates.Obs)
	logger.L.Info("Historical exchange rates loaded",
		"path", path, "observationCount", len(rates.Obs))
	return store, nil
}

// NewHistoricalStore builds a store from observations directly.
func NewHistoricalStore(obs []models.RateObservation) *HistoricalStore {
	store := &HistoricalStore{
		exact: make(map[string]float64, len(obs)),
		dates: make(map[string][]string),
	}
	for _, o := range obs {
		key := o.Date + "|" + o.Currency
		if _, dup := store.exact[key]; !dup {
			store.dates[o.Currency] = append(store.dates[o.Currency], o.Date)
		}
		store.exact[key] = o.Rate
	}
	for _, ds := range store.dates {
		sort.Strings(ds)
	}
	return store
}

// Lookup returns the observation for (date, currency). With nearest set and
// no exact observation, the closest available date for the currency is
// substituted (markets close over weekends and holidays).
func (s *HistoricalStore) Lookup(date, currency string, nearest bool) (float64, bool) {
	if rate, ok := s.exact[date+"|"+currency]; ok {
		return rate, true
	}
	if !nearest {
		return 0, false
	}
	ds := s.dates[currency]
	if len(ds) == 0 {
		return 0, false
	}

	i := sort.SearchStrings(ds, date)
	best := ""
	switch {
	case i == 0:
		best = ds[0]
	case i == len(ds):
		best = ds[len(ds)-1]
	default:
		if dayDistance(ds[i-1], date) <= dayDistance(ds[i], date) {
			best = ds[i-1]
		} else {
			best = ds[i]
		}
	}
	return s.exact[best+"|"+currency], true
}

func dayDistance(a, b string) float64 {
	ta, errA := time.Parse(utils.ISODateFormat, a)
	tb, errB := time.Parse(utils.ISODateFormat, b)
	if errA != nil || errB != nil {
		return math.Inf(1)
	}
	return math.Abs(ta.Sub(tb).Hours())
}
