package roll

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPricePerGram(t *testing.T) {
	tests := []struct {
		name          string
		price, weight float64
		want          float64
	}{
		{name: "typical", price: 20, weight: 1000, want: 0.02},
		{name: "zero weight", price: 20, weight: 0, want: 0},
		{name: "negative weight", price: 20, weight: -5, want: 0},
		{name: "free", price: 0, weight: 750, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PricePerGram(tt.price, tt.weight); got != tt.want {
				t.Fatalf("PricePerGram(%v, %v) = %v, want %v", tt.price, tt.weight, got, tt.want)
			}
		})
	}
}

func TestNewDerivesPrice(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	r := New("Red", "PLA", "", 1000, 20, 1000, now)
	if r.PricePerGram != 0.02 {
		t.Fatalf("expected price per gram 0.02, got %v", r.PricePerGram)
	}
	if r.ID != NewID(now) || !strings.HasPrefix(r.ID, "r") {
		t.Fatalf("unexpected id %q", r.ID)
	}
	if !r.CreatedAt.Time.Equal(now) {
		t.Fatalf("unexpected created_at %v", r.CreatedAt)
	}
}

func TestUseFloorsAtZero(t *testing.T) {
	r := &Roll{RemainingGrams: 50, PricePerGram: 0.02}
	cost := r.Use(80)
	if r.RemainingGrams != 0 {
		t.Fatalf("expected remaining 0, got %v", r.RemainingGrams)
	}
	if r.UsedGrams != 80 {
		t.Fatalf("expected used 80, got %v", r.UsedGrams)
	}
	if cost != 80*0.02 {
		t.Fatalf("unexpected cost %v", cost)
	}
	if !r.Depleted() {
		t.Fatalf("expected roll to be depleted")
	}
}

func TestUseKeepsFrozenPrice(t *testing.T) {
	r := &Roll{RemainingGrams: 500, PricePerGram: 0.05, InitialPrice: 20, InitialWeight: 1000}
	if cost := r.Use(10); cost != 0.5 {
		t.Fatalf("expected cost at current price 0.5, got %v", cost)
	}
	if r.PricePerGram != 0.05 {
		t.Fatalf("use must not reprice, got %v", r.PricePerGram)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "12.5", want: 12.5},
		{in: " 12,5 ", want: 12.5},
		{in: "1000", want: 1000},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "inf", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrNotANumber) {
				t.Fatalf("ParseAmount(%q): expected ErrNotANumber, got %v", tt.in, err)
			}
			if ParseNumber(tt.in) != 0 {
				t.Fatalf("ParseNumber(%q) should fall back to 0", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseAmount(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := map[string]float64{
		`12.5`:     12.5,
		`"12,5"`:   12.5,
		`" 7 "`:    7,
		`null`:     0,
		`true`:     0,
		`"oops"`:   0,
		`{"a": 1}`: 0,
		`[1]`:      0,
	}
	for in, want := range tests {
		if got := CoerceNumber(json.RawMessage(in)); got != want {
			t.Fatalf("CoerceNumber(%s) = %v, want %v", in, got, want)
		}
	}
	if got := CoerceNumber(nil); got != 0 {
		t.Fatalf("CoerceNumber(nil) = %v", got)
	}
	if got := CoerceInt(json.RawMessage(`"3"`)); got != 3 {
		t.Fatalf("CoerceInt = %v", got)
	}
}

func TestCoerceString(t *testing.T) {
	tests := map[string]string{
		`"PLA"`: "PLA",
		`null`:  "",
		`42`:    "42",
		`true`:  "true",
		`[1,2]`: "",
	}
	for in, want := range tests {
		if got := CoerceString(json.RawMessage(in)); got != want {
			t.Fatalf("CoerceString(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "2024-05-01T12:34:56.789012", want: "2024-05-01T12:34:56.789012"},
		{in: "2024-05-01T12:34:56", want: "2024-05-01T12:34:56.000000"},
		{in: "2024-05-01T14:34:56+02:00", want: "2024-05-01T12:34:56.000000"},
		{in: "2024-05-01 12:34:56", want: "2024-05-01T12:34:56.000000"},
		{in: "yesterday", want: "yesterday"},
		{in: "0001-01-01T00:00:00", want: "0001-01-01T00:00:00.000000"},
		{in: "0001-01-01T00:00:00Z", want: "0001-01-01T00:00:00.000000"},
	}
	for _, tt := range tests {
		ts := TimestampFrom(tt.in)
		b, err := json.Marshal(ts)
		if err != nil {
			t.Fatalf("marshal %q: %v", tt.in, err)
		}
		var got string
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got != tt.want {
			t.Fatalf("TimestampFrom(%q) wrote %q, want %q", tt.in, got, tt.want)
		}
		if again := TimestampFrom(got).String(); again != got {
			t.Fatalf("second pass drifted: %q -> %q", got, again)
		}
	}
}

func TestRollMarshalKeepsExtraFields(t *testing.T) {
	r := Roll{
		ID:       "r1",
		Material: "PETG",
		Extra: map[string]json.RawMessage{
			"vendor": json.RawMessage(`"Prusa"`),
			"diam":   json.RawMessage(`1.75`),
			"color":  json.RawMessage(`"ignored"`),
		},
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.HasSuffix(s, `"created_at":"","diam":1.75,"vendor":"Prusa"}`) {
		t.Fatalf("unexpected encoding: %s", s)
	}
	if strings.Count(s, `"color"`) != 1 {
		t.Fatalf("known keys must not be duplicated: %s", s)
	}
	if !strings.Contains(s, `"photo_b64":null`) {
		t.Fatalf("expected null photo: %s", s)
	}
}

func TestRollMarshalKeepsPhotoText(t *testing.T) {
	r := Roll{ID: "r1", PhotoText: "not base64!"}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"photo_b64":"not base64!"`) {
		t.Fatalf("expected photo text written back: %s", b)
	}

	r.Photo = []byte("hi")
	b, err = json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"photo_b64":"aGk="`) {
		t.Fatalf("expected decoded photo to win: %s", b)
	}
}

func TestUsageEventNullProject(t *testing.T) {
	e := UsageEvent{RollID: "r1", UsedGrams: 5, Cost: 0.1}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"project":null`) {
		t.Fatalf("expected null project, got %s", b)
	}
	e.Project = "Vase"
	b, _ = json.Marshal(e)
	if !strings.Contains(string(b), `"project":"Vase"`) {
		t.Fatalf("expected project name, got %s", b)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		remaining, threshold float64
		want                 Status
	}{
		{remaining: 100, threshold: DefaultThreshold, want: StatusLow},
		{remaining: 400, threshold: 500, want: StatusLow},
		{remaining: 600, threshold: 500, want: StatusWarn},
		{remaining: 1200, threshold: 500, want: StatusOK},
		{remaining: 250, threshold: 100, want: StatusLow},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.remaining, tt.threshold); got != tt.want {
			t.Fatalf("StatusFor(%v, %v) = %v, want %v", tt.remaining, tt.threshold, got, tt.want)
		}
	}
}
