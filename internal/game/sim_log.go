package game

import (
	"fmt"
	"strings"
)

// EffectsLogEntry is one recorded event during a headless effects simulation.
type EffectsLogEntry struct {
	Tick     int
	Source   string  // label e.g. "M0" (missile), "F1" (fire), or "--" for global events
	Category string  // missile, fire, damage, atmosphere, spark
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] M0   missile   state_change   flying → exploding
func (e EffectsLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-10s %-16s %s",
		e.Tick, e.Source, e.Category, e.Key, e.Value)
}

// EffectsLog collects structured events during a headless effects simulation.
// It is unbounded and machine-readable, meant for invariant checks in tests
// and for the soak-report tool.
type EffectsLog struct {
	entries []EffectsLogEntry
	verbose bool
}

// NewEffectsLog creates an EffectsLog. If verbose is true, per-tick counter
// entries are also recorded (useful for detailed debugging).
func NewEffectsLog(verbose bool) *EffectsLog {
	return &EffectsLog{verbose: verbose}
}

// Add records a new entry.
func (el *EffectsLog) Add(tick int, source, category, key, value string, numVal float64) {
	el.entries = append(el.entries, EffectsLogEntry{
		Tick:     tick,
		Source:   source,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (el *EffectsLog) AddVerbose(tick int, source, category, key, value string, numVal float64) {
	if !el.verbose {
		return
	}
	el.Add(tick, source, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (el *EffectsLog) Entries() []EffectsLogEntry {
	return el.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EffectsLog) Filter(category, key string) []EffectsLogEntry {
	var out []EffectsLogEntry
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterSource returns entries for a specific source label.
func (el *EffectsLog) FilterSource(label string) []EffectsLogEntry {
	var out []EffectsLogEntry
	for _, e := range el.entries {
		if e.Source == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (el *EffectsLog) FilterTickRange(fromTick, toTick int) []EffectsLogEntry {
	var out []EffectsLogEntry
	for _, e := range el.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (el *EffectsLog) CountCategory(category, key string) int {
	return len(el.Filter(category, key))
}

// SumNumVal totals the numeric values of entries matching category and key.
func (el *EffectsLog) SumNumVal(category, key string) float64 {
	var sum float64
	for _, e := range el.Filter(category, key) {
		sum += e.NumVal
	}
	return sum
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EffectsLog) LastOf(category, key string) (EffectsLogEntry, bool) {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return EffectsLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (el *EffectsLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (el *EffectsLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (el *EffectsLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range el.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
