// Package snapshot defines the persisted shape of a ledger and validates it on the way in.
//
// A snapshot has five independent collections. Each one is checked on its
// own: a collection with the wrong shape is replaced by its default and the
// others are still used, so one corrupt entry never loses the whole ledger.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cashflow/internal/accounts"
	"cashflow/internal/core"
	"cashflow/internal/period"
)

// Keys of the five collections, both in the document and in blob storage.
const (
	KeyTransactions   = "transactions"
	KeyGoals          = "goals"
	KeyPeriodSettings = "periodSettings"
	KeyAccounts       = "accounts"
	KeyCategories     = "categories"
)

// Keys lists every collection key in persistence order.
var Keys = []string{KeyTransactions, KeyGoals, KeyPeriodSettings, KeyAccounts, KeyCategories}

// Older backup files used these names.
var legacyKeys = map[string]string{
	"items":    KeyTransactions,
	"settings": KeyPeriodSettings,
}

var ErrInvalidBackup = errors.New("invalid backup: transactions must be an array")

type Snapshot struct {
	Transactions   []core.Transaction  `json:"transactions"`
	Goals          []core.SavingsGoal  `json:"goals"`
	PeriodSettings core.PeriodSettings `json:"periodSettings"`
	Accounts       []core.Account      `json:"accounts"`
	Categories     []core.Category     `json:"categories"`
}

// DefaultSettings is the current calendar month in the default currency.
func DefaultSettings(now time.Time) core.PeriodSettings {
	r := period.CurrentMonth(now)
	return core.PeriodSettings{StartDate: r.Start, EndDate: r.End, BaseCurrency: core.DefaultCurrency}
}

// Default is the state of a ledger that has never been saved.
func Default(now time.Time) Snapshot {
	return Snapshot{
		Transactions:   []core.Transaction{},
		Goals:          []core.SavingsGoal{},
		PeriodSettings: DefaultSettings(now),
		Accounts:       core.DefaultAccounts(),
		Categories:     core.DefaultCategories(),
	}
}

// Warning describes a collection that was discarded during decoding.
type Warning struct {
	Key    string
	Reason string
}

func (w Warning) String() string { return w.Key + ": " + w.Reason }

// Decode parses a whole snapshot document. Anything that is not a JSON
// object yields the default snapshot and a warning.
func Decode(data []byte, now time.Time) (Snapshot, []Warning) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Default(now), []Warning{{Key: "*", Reason: "document is not a JSON object"}}
	}
	return FromBlobs(normalize(raw), now)
}

// Restore decodes an imported backup. Unlike Decode it refuses documents that
// do not carry a transactions array, so a wrong file cannot wipe the ledger.
func Restore(data []byte, now time.Time) (Snapshot, []Warning, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Snapshot{}, nil, ErrInvalidBackup
	}
	blobs := normalize(raw)
	if !isArray(blobs[KeyTransactions]) {
		return Snapshot{}, nil, ErrInvalidBackup
	}
	s, warns := FromBlobs(blobs, now)
	return s, warns, nil
}

func normalize(raw map[string]json.RawMessage) map[string][]byte {
	out := make(map[string][]byte, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for legacy, key := range legacyKeys {
		if v, ok := raw[legacy]; ok {
			if _, has := out[key]; !has {
				out[key] = v
			}
		}
	}
	return out
}

func isArray(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// decodeList keeps every element of the array stored at key that decodes as
// T and reports the others one by one. ok is false when the key is absent or
// does not hold an array.
func decodeList[T any](blobs map[string][]byte, key string) (list []T, warns []Warning, ok bool) {
	b, present := blobs[key]
	if !present {
		return nil, nil, false
	}
	var raw []json.RawMessage
	if !isArray(b) || json.Unmarshal(b, &raw) != nil {
		return nil, []Warning{{Key: key, Reason: "not an array"}}, false
	}
	list = make([]T, 0, len(raw))
	for i, elem := range raw {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			warns = append(warns, Warning{Key: key, Reason: fmt.Sprintf("element %d: null", i)})
			continue
		}
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			warns = append(warns, Warning{Key: key, Reason: fmt.Sprintf("element %d: %v", i, err)})
			continue
		}
		list = append(list, v)
	}
	return list, warns, true
}

// FromBlobs builds a snapshot from per-collection JSON values. Missing keys
// take their default silently; present keys with the wrong shape take their
// default and produce a warning. Inside an array only the elements that fail
// to decode are dropped, each with its own warning. Partial period settings are completed from
// the defaults, and accounts are normalized to exactly one default.
func FromBlobs(blobs map[string][]byte, now time.Time) (Snapshot, []Warning) {
	s := Default(now)
	var warns []Warning

	collect := func(w []Warning, ok bool) bool {
		warns = append(warns, w...)
		return ok
	}

	if txs, w, ok := decodeList[core.Transaction](blobs, KeyTransactions); collect(w, ok) {
		s.Transactions = txs
	}
	if goals, w, ok := decodeList[core.SavingsGoal](blobs, KeyGoals); collect(w, ok) {
		s.Goals = goals
	}
	if accs, w, ok := decodeList[core.Account](blobs, KeyAccounts); collect(w, ok) && len(accs) > 0 {
		s.Accounts = accounts.Normalize(accs)
	}
	if cats, w, ok := decodeList[core.Category](blobs, KeyCategories); collect(w, ok) && len(cats) > 0 {
		s.Categories = cats
	}

	if b, ok := blobs[KeyPeriodSettings]; ok {
		var ps core.PeriodSettings
		switch {
		case !isObject(b):
			warns = append(warns, Warning{Key: KeyPeriodSettings, Reason: "not an object"})
		case json.Unmarshal(b, &ps) != nil:
			warns = append(warns, Warning{Key: KeyPeriodSettings, Reason: "malformed"})
		default:
			if ps.StartDate != "" {
				s.PeriodSettings.StartDate = ps.StartDate
			}
			if ps.EndDate != "" {
				s.PeriodSettings.EndDate = ps.EndDate
			}
			if ps.BaseCurrency != "" {
				s.PeriodSettings.BaseCurrency = ps.BaseCurrency
			}
			if err := s.PeriodSettings.Validate(); err != nil {
				warns = append(warns, Warning{Key: KeyPeriodSettings, Reason: err.Error()})
				s.PeriodSettings = DefaultSettings(now)
			}
		}
	}
	return s, warns
}

// Blobs splits s into per-collection JSON values.
func Blobs(s Snapshot) (map[string][]byte, error) {
	values := map[string]any{
		KeyTransactions:   nonNil(s.Transactions),
		KeyGoals:          nonNil(s.Goals),
		KeyPeriodSettings: s.PeriodSettings,
		KeyAccounts:       nonNil(s.Accounts),
		KeyCategories:     nonNil(s.Categories),
	}
	out := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = b
	}
	return out, nil
}

// Encode renders the full snapshot document, as used for backups and export.
func Encode(s Snapshot) ([]byte, error) {
	s.Transactions = nonNil(s.Transactions)
	s.Goals = nonNil(s.Goals)
	s.Accounts = nonNil(s.Accounts)
	s.Categories = nonNil(s.Categories)
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
