package date

import (
	"testing"

	json "github.com/goccy/go-json"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		a, b Date
		want int
	}{
		{New(2022, 10, 27), New(2022, 10, 27), 0},
		{New(2022, 10, 27), New(2022, 10, 28), -1},
		{New(2022, 11, 1), New(2022, 10, 31), 1},
		{New(2021, 12, 31), New(2022, 1, 1), -1},
	}
	for _, tc := range testCases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEndOf(t *testing.T) {
	testCases := []struct {
		name   string
		in     Date
		period Period
		want   Date
	}{
		{"leap february", New(2020, 2, 11), Monthly, New(2020, 2, 29)},
		{"december", New(2021, 12, 3), Monthly, New(2021, 12, 31)},
		{"year", New(2021, 3, 3), Yearly, New(2021, 12, 31)},
		{"day", New(2021, 3, 3), Daily, New(2021, 3, 3)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.EndOf(tc.period); got != tc.want {
				t.Errorf("EndOf(%v) = %v, want %v", tc.period, got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if want := New(2025, 7, 1); got != want {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
	for _, bad := range []string{"", "2025/07/01", "2025-13-01", "yesterday"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) expected an error", bad)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	from := New(2020, 2, 11)
	if got := from.DaysUntil(New(2021, 2, 15)); got != 370 {
		t.Errorf("DaysUntil() = %d, want 370", got)
	}
	if got := from.DaysUntil(from); got != 0 {
		t.Errorf("DaysUntil(self) = %d, want 0", got)
	}
}

func TestJSON(t *testing.T) {
	type doc struct {
		On  Date `json:"on"`
		Off Date `json:"off"`
	}
	in := doc{On: New(2022, 10, 29)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if want := `{"on":"2022-10-29","off":""}`; string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
	var out doc
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("json round trip = %v, want %v", out, in)
	}
}
