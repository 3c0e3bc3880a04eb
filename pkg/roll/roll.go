// Package roll models a filament spool and the records derived from using it.
package roll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Roll is one physical spool of filament.
type Roll struct {
	ID             string    `json:"id"`
	Color          string    `json:"color"`
	Material       string    `json:"material"`
	RemainingGrams float64   `json:"remaining_grams"`
	Description    string    `json:"description"`
	PricePerGram   float64   `json:"price_per_gram"`
	InitialWeight  float64   `json:"initial_weight"`
	InitialPrice   float64   `json:"initial_price"`
	UsedGrams      float64   `json:"used_grams"`
	Photo          []byte    `json:"photo_b64"`
	CreatedAt      Timestamp `json:"created_at"`

	// PhotoText is photo_b64 as found on disk when it is not valid base64.
	// It is written back while Photo is empty.
	PhotoText string `json:"-"`

	// Extra holds keys written by other versions of the inventory format.
	// They are carried through saves untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

// New builds an active roll with derived fields filled in. remaining is
// clamped at zero.
func New(color, material, description string, initialWeight, initialPrice, remaining float64, now time.Time) *Roll {
	r := &Roll{
		ID:             NewID(now),
		Color:          color,
		Material:       material,
		Description:    description,
		InitialWeight:  initialWeight,
		InitialPrice:   initialPrice,
		RemainingGrams: max(remaining, 0),
		CreatedAt:      NewTimestamp(now),
	}
	r.Reprice()
	return r
}

// NewID returns the time based identifier given to new rolls.
func NewID(now time.Time) string {
	return fmt.Sprintf("r%d", now.UnixMilli())
}

// PricePerGram is the single definition of a roll's unit price.
func PricePerGram(initialPrice, initialWeight float64) float64 {
	if initialWeight > 0 {
		return initialPrice / initialWeight
	}
	return 0
}

// Reprice recomputes PricePerGram from the initial weight and price. It must
// run after either of them changes.
func (r *Roll) Reprice() {
	r.PricePerGram = PricePerGram(r.InitialPrice, r.InitialWeight)
}

// Use consumes grams from the roll and returns the cost at the roll's current
// price per gram. Consuming more than remains empties the roll.
func (r *Roll) Use(grams float64) float64 {
	r.RemainingGrams = max(r.RemainingGrams-grams, 0)
	r.UsedGrams += grams
	return grams * r.PricePerGram
}

// Depleted reports whether nothing is left on the roll.
func (r *Roll) Depleted() bool {
	return r.RemainingGrams <= 0
}

// Label is the short human name of the roll.
func (r *Roll) Label() string {
	switch {
	case r.Color == "" && r.Material == "":
		return r.ID
	case r.Color == "":
		return r.Material
	case r.Material == "":
		return r.Color
	}
	return r.Color + " " + r.Material
}

// Clone returns a deep copy.
func (r *Roll) Clone() *Roll {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Photo != nil {
		cp.Photo = append([]byte(nil), r.Photo...)
	}
	if r.Extra != nil {
		cp.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			cp.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &cp
}

// MarshalJSON writes the known fields in their canonical order followed by
// any extra keys in sorted order.
func (r Roll) MarshalJSON() ([]byte, error) {
	type plain Roll
	b, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	if len(r.Photo) == 0 && r.PhotoText != "" {
		text, err := json.Marshal(r.PhotoText)
		if err != nil {
			return nil, err
		}
		b = bytes.Replace(b, []byte(`"photo_b64":null`), append([]byte(`"photo_b64":`), text...), 1)
	}
	if len(r.Extra) == 0 {
		return b, nil
	}
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if _, known := knownFields[k]; known {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(r.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var knownFields = map[string]struct{}{
	"id": {}, "color": {}, "material": {}, "remaining_grams": {}, "description": {},
	"price_per_gram": {}, "initial_weight": {}, "initial_price": {}, "used_grams": {},
	"photo_b64": {}, "created_at": {},
}

// IsKnownField reports whether key is part of the current roll schema.
func IsKnownField(key string) bool {
	_, ok := knownFields[key]
	return ok
}
