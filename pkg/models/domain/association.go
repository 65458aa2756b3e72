package domain

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/shopspring/decimal"
)

// AssociationEntry is one element of a test's reagent_list or instrument_list.
// The id references a catalog record; every other key supplied by the client
// is kept verbatim in Extra so that unenriched entries round-trip unchanged.
type AssociationEntry struct {
	ID    int64
	Extra map[string]json.RawMessage

	// rawID is the id as decoded, re-emitted verbatim. noID marks a decoded
	// entry without an integral id; such an entry never matches the catalog.
	rawID json.RawMessage
	noID  bool
}

func (e *AssociationEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode association entry: %w", err)
	}

	*e = AssociationEntry{noID: true}

	// Non-integral ids stay in Extra and never match a catalog record.
	if rawID, ok := raw["id"]; ok {
		if id, ok := parseID(rawID); ok {
			e.ID = id
			e.rawID = rawID
			e.noID = false
			delete(raw, "id")
		}
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

func (e AssociationEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.fields())
}

// parseID accepts JSON numbers with an integral value, so 1 and 1.0 are the
// same id. Strings never parse.
func parseID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 || raw[0] == '"' {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, false
	}
	return d.IntPart(), true
}

// HasID reports whether the entry carries an integral id. Entries built in
// code always do.
func (e AssociationEntry) HasID() bool {
	return !e.noID
}

// Decimal reads a numeric field supplied by the caller.
func (e AssociationEntry) Decimal(key string) (decimal.Decimal, bool) {
	raw, ok := e.Extra[key]
	if !ok {
		return decimal.Zero, false
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Clone returns a copy that shares no map with e.
func (e AssociationEntry) Clone() AssociationEntry {
	return AssociationEntry{
		ID:    e.ID,
		Extra: maps.Clone(e.Extra),
		rawID: e.rawID,
		noID:  e.noID,
	}
}

func (e AssociationEntry) fields() map[string]any {
	out := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		out[k] = v
	}
	if _, ok := e.Extra["id"]; ok || e.noID {
		return out
	}
	if e.rawID != nil {
		out["id"] = e.rawID
	} else {
		out["id"] = e.ID
	}
	return out
}

// ReagentEntry is a reagent reference of a test. Cost is nil until the
// entry has been matched against the catalog.
type ReagentEntry struct {
	AssociationEntry
	Cost *ReagentCost
}

func (e ReagentEntry) MarshalJSON() ([]byte, error) {
	fields := e.fields()
	if e.Cost != nil {
		e.Cost.writeTo(fields)
	}
	return json.Marshal(fields)
}

// InstrumentEntry is an instrument reference of a test. Cost is nil until the
// entry has been matched against the catalog.
type InstrumentEntry struct {
	AssociationEntry
	Cost *InstrumentCost
}

func (e InstrumentEntry) MarshalJSON() ([]byte, error) {
	fields := e.fields()
	if e.Cost != nil {
		e.Cost.writeTo(fields)
	}
	return json.Marshal(fields)
}

// PercentVolume is the caller-supplied share of the instrument used by the
// test, zero when absent.
func (e InstrumentEntry) PercentVolume() decimal.Decimal {
	d, _ := e.Decimal("percent_volume")
	return d
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
