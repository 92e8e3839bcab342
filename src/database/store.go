package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/security/validation"
)

// Store persists canonical transactions. Duplicate records, recognized by
// the UNIQUE constraint on hash_id, are skipped rather than treated as
// errors, so re-importing the same statement file is harmless.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts the given transactions inside a single database transaction.
// It returns how many rows were inserted and how many were skipped as
// duplicates. Any other database error aborts and rolls back the batch.
func (s *Store) Save(transactions []models.CanonicalTransaction, provider string) (models.SaveOutcome, error) {
	var outcome models.SaveOutcome
	if len(transactions) == 0 {
		return outcome, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return outcome, fmt.Errorf("failed to begin database transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO canonical_transactions (
			date, ticker, isin, product_name, quantity, unit_price,
			amount, currency, amount_base, exchange_rate, rate_source,
			fee_base, platform, asset_class, kind, country_code, notes, hash_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return outcome, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range transactions {
		notes := validation.SanitizeForFormulaInjection(validation.StripUnprintable(t.Notes))
		_, err := stmt.Exec(
			t.Date, t.Ticker, t.ISIN, t.ProductName, t.Quantity, t.UnitPrice,
			t.Amount, t.Currency, t.AmountBase, t.ExchangeRate, t.RateSource,
			t.FeeBase, t.Platform, string(t.AssetClass), string(t.Kind),
			t.CountryCode, notes, t.HashID,
		)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate transaction",
					"provider", provider, "hashId", t.HashID, "date", t.Date, "ticker", t.Ticker)
				outcome.Skipped++
				continue
			}
			return models.SaveOutcome{}, fmt.Errorf("failed to insert transaction %s: %w", t.HashID, err)
		}
		outcome.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return models.SaveOutcome{}, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return outcome, nil
}
