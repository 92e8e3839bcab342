package parsers

import (
	"os"
	"testing"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestDetect(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name    string
		content extract.Content
		want    string
		ok      bool
	}{
		{
			name:    "fio text",
			content: extract.Content{Kind: extract.KindText, Text: "Fio banka, a.s. e-Broker výpis"},
			want:    "fio",
			ok:      true,
		},
		{
			name:    "anycoin text",
			content: extract.Content{Kind: extract.KindText, Text: "Výpis transakcí z anycoin.cz"},
			want:    "anycoin",
			ok:      true,
		},
		{
			name: "degiro rows",
			content: extract.Content{Kind: extract.KindRows, Rows: [][]string{
				{"Datum", "Produkt", "ISIN", "Popis", "ID objednávky"},
			}},
			want: "degiro",
			ok:   true,
		},
		{
			name: "patria rows",
			content: extract.Content{Kind: extract.KindRows, Rows: [][]string{
				{"Patria Finance"},
				{"Datum", "Typ", "Symbol", "Objem", "Poplatek"},
			}},
			want: "patria",
			ok:   true,
		},
		{
			name: "xtb sheets",
			content: extract.Content{Kind: extract.KindSheets, Sheets: map[string][][]string{
				"CASH OPERATION HISTORY": {{"Type", "Time", "Amount"}},
			}},
			want: "xtb",
			ok:   true,
		},
		{
			name:    "unknown text",
			content: extract.Content{Kind: extract.KindText, Text: "nothing recognizable"},
			ok:      false,
		},
		{
			name:    "shape mismatch",
			content: extract.Content{Kind: extract.KindRows, Rows: [][]string{{"Fio banka"}}},
			ok:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := registry.Detect(tt.content)
			if ok != tt.ok {
				t.Fatalf("Detect ok = %v, want %v", ok, tt.ok)
			}
			if ok && p.Name() != tt.want {
				t.Errorf("Detect = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}
