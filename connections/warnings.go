package connections

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Warning type constants
const (
	WarningStationNotFound = "station_not_found"
	WarningUICNotIndexed   = "uic_not_indexed"
	WarningPartialMatch    = "partial_match"
	WarningPartialRejected = "partial_rejected"
	WarningMissingEndpoint = "missing_endpoint"
)

type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects resolution warnings and logs one summary per type.
// A nil *WarningAggregator discards everything.
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{warnings: make(map[string]*warningInfo)}
}

// Add records a warning occurrence with an example
func (w *WarningAggregator) Add(warningType, example string) {
	if w == nil {
		return
	}
	info := w.warnings[warningType]
	if info == nil {
		info = &warningInfo{examples: make([]string, 0, 3)}
		w.warnings[warningType] = info
	}
	info.count++
	if len(info.examples) < 3 && example != "" && !contains(info.examples, example) {
		info.examples = append(info.examples, example)
	}
}

// Count returns the number of occurrences of warningType.
func (w *WarningAggregator) Count(warningType string) int {
	if w == nil || w.warnings[warningType] == nil {
		return 0
	}
	return w.warnings[warningType].count
}

// Summary returns one formatted line per warning type, sorted by type.
func (w *WarningAggregator) Summary(dataset string) []string {
	if w == nil || len(w.warnings) == 0 {
		return nil
	}
	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, formatWarningMessage(t, dataset, w.warnings[t]))
	}
	return out
}

// LogAll outputs all collected warnings in consolidated format
func (w *WarningAggregator) LogAll(logger *zap.Logger, dataset string) {
	if logger == nil {
		return
	}
	for _, line := range w.Summary(dataset) {
		logger.Warn(line)
	}
}

func formatWarningMessage(warningType, dataset string, info *warningInfo) string {
	var description, action string
	switch warningType {
	case WarningStationNotFound:
		description = "endpoint names matching no indexed station"
		action = "Excluding connection from aggregation"
	case WarningUICNotIndexed:
		description = "UIC codes absent from the station index"
		action = "Falling back to name resolution"
	case WarningPartialMatch:
		description = "endpoints resolved by first-token match only"
		action = "Keeping connection with low confidence"
	case WarningPartialRejected:
		description = "first-token matches rejected by configuration"
		action = "Excluding connection from aggregation"
	case WarningMissingEndpoint:
		description = "records without origin or destination"
		action = "Dropping record"
	default:
		description = "unknown issue"
		action = "Ignoring"
	}
	return fmt.Sprintf("Dataset %s has %s (%d occurrences). %s. Examples: %s",
		dataset, description, info.count, action, strings.Join(info.examples, ", "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
