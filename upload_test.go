package stocks

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeUpload(t *testing.T) {
	input := `# exported from my broker
ticker, quantity, date, commission
GOOG, 10, 2020-01-10, 10
AAPL,5,2022-10-28
`
	got, err := DecodeUpload(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeUpload() unexpected error: %v", err)
	}
	want := []UploadRow{
		{Line: 3, Ticker: "GOOG", Quantity: "10", Date: "2020-01-10", Commission: "10"},
		{Line: 4, Ticker: "AAPL", Quantity: "5", Date: "2022-10-28"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeUpload() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeUpload_WrongFieldCount(t *testing.T) {
	_, err := DecodeUpload(strings.NewReader("GOOG,10\n"))
	if !errors.Is(err, ErrInvalidMutation) {
		t.Errorf("DecodeUpload() error = %v, want ErrInvalidMutation", err)
	}
}

func TestNewPositionsFromUpload_Rejections(t *testing.T) {
	valid := "GOOG,10,2020-01-10,10\n"
	testCases := []struct {
		name    string
		bad     string
		wantErr error
	}{
		{"non trading day", "GOOG,1,2022-10-29\n", ErrNoPriceData},
		{"fractional quantity", "GOOG,1.5,2022-10-28\n", ErrInvalidMutation},
		{"unknown ticker", "MSFT,1,2022-10-28\n", ErrUnknownTicker},
		{"malformed date", "GOOG,1,28/10/2022\n", ErrInvalidMutation},
		{"malformed quantity", "GOOG,ten,2022-10-28\n", ErrInvalidMutation},
		{"negative commission", "GOOG,1,2022-10-28,-1\n", ErrInvalidMutation},
		{"oversold", "GOOG,-11,2022-10-28\n", ErrInvalidMutation},
	}
	market := newTestMarket(goog())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := DecodeUpload(strings.NewReader(valid + tc.bad))
			if err != nil {
				t.Fatalf("DecodeUpload() unexpected error: %v", err)
			}
			positions, err := NewPositionsFromUpload(market, rows)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("NewPositionsFromUpload() error = %v, want %v", err, tc.wantErr)
			}
			if positions != nil {
				t.Errorf("NewPositionsFromUpload() = %v, want no partial result", positions)
			}
		})
	}
}

func TestNewPositionsFromUpload_ReportsEveryRow(t *testing.T) {
	rows, err := DecodeUpload(strings.NewReader("GOOG,1,2022-10-29\nMSFT,1,2022-10-28\n"))
	if err != nil {
		t.Fatalf("DecodeUpload() unexpected error: %v", err)
	}
	_, err = NewPositionsFromUpload(newTestMarket(goog()), rows)
	if !errors.Is(err, ErrNoPriceData) || !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("NewPositionsFromUpload() error = %v, want both row errors", err)
	}
}
