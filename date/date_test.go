package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestOf(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	// 2025-03-01 20:00 UTC is already the 2nd in Seoul.
	at := time.Date(2025, time.March, 1, 20, 0, 0, 0, time.UTC)

	if got, want := Of(at, time.UTC), New(2025, time.March, 1); got != want {
		t.Errorf("Of(UTC) = %v, want %v", got, want)
	}
	if got, want := Of(at, seoul), New(2025, time.March, 2); got != want {
		t.Errorf("Of(KST) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, time.July, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: " 2024-12-31 ", want: New(2024, time.December, 31)},
		{in: "2025/07/01", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	d := New(2025, time.January, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2025-01-05"` {
		t.Errorf("Marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("Unmarshal = %v, want %v", back, d)
	}
}
