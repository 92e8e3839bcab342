package anycoin

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

const statement = "Anycoin - výpis transakcí\n" +
	"17. 2. 2021 Nákup BTC 0,01 za 50 000,00 CZK, poplatek 0,0001 BTC\n" +
	"18. 2. 2021 Staking odměna 0,5 DOT\n" +
	"19. 2. 2021 Výběr 10 000,00 CZK na bankovní účet\n"

func TestSniff(t *testing.T) {
	p := NewParser()
	if !p.Sniff(extract.Content{Kind: extract.KindText, Text: statement}) {
		t.Error("Sniff rejected an Anycoin statement")
	}
	if p.Sniff(extract.Content{Kind: extract.KindText, Text: "jiná burza"}) {
		t.Error("Sniff accepted foreign text")
	}
}

func TestParse(t *testing.T) {
	p := NewParser()
	records, err := p.Parse(extract.Content{Kind: extract.KindText, Text: statement})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(records), records)
	}

	buy := records[0]
	if buy.Kind != models.KindBuy || buy.Symbol != "BTC" || buy.AssetClass != models.AssetCrypto {
		t.Errorf("buy = %+v", buy)
	}
	if buy.Quantity != 0.01 || buy.TotalAmount != 50000 {
		t.Errorf("buy numbers = %v/%v", buy.Quantity, buy.TotalAmount)
	}
	if buy.Currency != "CZK" {
		t.Errorf("buy currency = %q", buy.Currency)
	}
	// The crypto-denominated fee must become an in-asset hint, not a
	// number competing in reconciliation.
	if buy.Fee == nil || !buy.Fee.InAsset || buy.Fee.Amount != 0.0001 {
		t.Errorf("buy fee = %+v", buy.Fee)
	}

	reward := records[1]
	if reward.Kind != models.KindRevenue || reward.Symbol != "DOT" {
		t.Errorf("reward = %+v", reward)
	}
	if reward.Quantity != 0.5 || reward.TotalAmount != 0 {
		t.Errorf("reward is in-kind, got quantity %v amount %v", reward.Quantity, reward.TotalAmount)
	}

	withdrawal := records[2]
	if withdrawal.Kind != models.KindWithdrawal || withdrawal.AssetClass != models.AssetCash {
		t.Errorf("withdrawal = %+v", withdrawal)
	}
	if withdrawal.TotalAmount != 10000 {
		t.Errorf("withdrawal amount = %v", withdrawal.TotalAmount)
	}
}

func TestParseWrongContentShape(t *testing.T) {
	p := NewParser()
	if _, err := p.Parse(extract.Content{Kind: extract.KindSheets}); err == nil {
		t.Fatal("Parse accepted sheet content")
	}
}
