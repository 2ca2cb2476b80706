package performance

import "strings"

const (
	KPIStatusNotStarted = "not_started"
	KPIStatusInProgress = "in_progress"
	KPIStatusCompleted  = "completed"
	KPIStatusAtRisk     = "at_risk"

	AparStatusDraft     = "draft"
	AparStatusSubmitted = "submitted"
	AparStatusReviewed  = "reviewed"
	AparStatusFinalized = "finalized"
)

var KPIStatuses = []string{KPIStatusNotStarted, KPIStatusInProgress, KPIStatusCompleted, KPIStatusAtRisk}

var AparStatuses = []string{AparStatusDraft, AparStatusSubmitted, AparStatusReviewed, AparStatusFinalized}

// Spellings seen in stored data and older clients.
var kpiStatusAliases = map[string]string{
	"pending":    KPIStatusNotStarted,
	"notstarted": KPIStatusNotStarted,
	"inprogress": KPIStatusInProgress,
	"complete":   KPIStatusCompleted,
	"done":       KPIStatusCompleted,
	"atrisk":     KPIStatusAtRisk,
}

var aparStatusAliases = map[string]string{
	"finalised": AparStatusFinalized,
	"final":     AparStatusFinalized,
}

func canonicalStatus(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.NewReplacer(" ", "_", "-", "_").Replace(value)
	for strings.Contains(value, "__") {
		value = strings.ReplaceAll(value, "__", "_")
	}
	return value
}

// NormalizeKPIStatus maps any accepted spelling to its canonical form.
func NormalizeKPIStatus(raw string) (string, bool) {
	return normalizeStatus(raw, KPIStatuses, kpiStatusAliases)
}

func NormalizeAparStatus(raw string) (string, bool) {
	return normalizeStatus(raw, AparStatuses, aparStatusAliases)
}

func normalizeStatus(raw string, allowed []string, aliases map[string]string) (string, bool) {
	value := canonicalStatus(raw)
	for _, status := range allowed {
		if value == status {
			return status, true
		}
	}
	if mapped, ok := aliases[strings.ReplaceAll(value, "_", "")]; ok {
		return mapped, true
	}
	return "", false
}

func isTerminalAparStatus(status string) bool {
	return status == AparStatusReviewed || status == AparStatusFinalized
}
