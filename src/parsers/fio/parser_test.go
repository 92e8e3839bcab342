package fio

import (
	"os"
	"testing"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const statement = `Fio banka, a.s. - e-Broker
AAPL US0378331005 Apple Inc.
Obchody - vypořádané
AAPL Nákup 10 25,50 CZK 255,00 CZK 9,90 CZK 17.2.2021
Dne 17. 2. 2021 proveden nákup AAPL: 10 ks za 25,50 celkem 255,00 CZK, poplatek 9,90 CZK
Dne 18. 3. 2021 připsána dividenda Apple Inc. ve výši 150,00 CZK
`

func TestSniff(t *testing.T) {
	p := NewParser()
	if !p.Sniff(extract.Content{Kind: extract.KindText, Text: statement}) {
		t.Error("Sniff rejected a Fio statement")
	}
	if p.Sniff(extract.Content{Kind: extract.KindText, Text: "výpis jiné banky"}) {
		t.Error("Sniff accepted foreign text")
	}
}

func TestParseMergesTabularAndNarrativePasses(t *testing.T) {
	p := NewParser()
	records, err := p.Parse(extract.Content{Kind: extract.KindText, Text: statement})
	if err != nil {
		t.Fatal(err)
	}

	// The buy appears in both the trade table and the narrative journal;
	// the two captures must collapse into one record.
	var buys, dividends []models.RawTransaction
	for _, r := range records {
		switch r.Kind {
		case models.KindBuy:
			buys = append(buys, r)
		case models.KindDividend:
			dividends = append(dividends, r)
		}
	}
	if len(buys) != 1 {
		t.Fatalf("got %d buy records, want 1 after merge: %+v", len(buys), buys)
	}

	buy := buys[0]
	if buy.Date != "2021-02-17" || buy.Symbol != "AAPL" {
		t.Errorf("buy = %s %s", buy.Date, buy.Symbol)
	}
	if buy.Quantity != 10 || buy.UnitPrice != 25.5 || buy.TotalAmount != 255 {
		t.Errorf("buy numbers = %v/%v/%v", buy.Quantity, buy.UnitPrice, buy.TotalAmount)
	}
	if buy.Currency != "CZK" {
		t.Errorf("buy currency = %q", buy.Currency)
	}
	if buy.Fee == nil || buy.Fee.Amount != 9.9 {
		t.Errorf("buy fee = %+v", buy.Fee)
	}
	if buy.ISIN != "US0378331005" || buy.CompanyName != "Apple Inc." {
		t.Errorf("instrument directory not applied: %q %q", buy.ISIN, buy.CompanyName)
	}

	if len(dividends) != 1 {
		t.Fatalf("got %d dividend records, want 1", len(dividends))
	}
	div := dividends[0]
	if div.Date != "2021-03-18" {
		t.Errorf("dividend date = %s", div.Date)
	}
	if div.Quantity != 1 || div.UnitPrice != 150 || div.TotalAmount != 150 {
		t.Errorf("dividend collapse = %v/%v/%v, want 1/150/150", div.Quantity, div.UnitPrice, div.TotalAmount)
	}
	if div.Symbol != "AAPL" {
		t.Errorf("dividend symbol = %q, want AAPL via name table", div.Symbol)
	}
}

func TestParseWrongContentShape(t *testing.T) {
	p := NewParser()
	if _, err := p.Parse(extract.Content{Kind: extract.KindRows}); err == nil {
		t.Fatal("Parse accepted row content")
	}
}

func TestParseIgnoresNoise(t *testing.T) {
	p := NewParser()
	records, err := p.Parse(extract.Content{
		Kind: extract.KindText,
		Text: "Fio banka\nDne 17. 2. 2021 byl vystaven tento výpis\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("noise produced records: %+v", records)
	}
}
