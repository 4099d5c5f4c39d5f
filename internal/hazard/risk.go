package hazard

import (
	"fmt"
	"strings"
)

// Canonical risk levels. German values are stored; the English synonyms some
// older clients still send are normalized on the way in and never persisted.
const (
	RiskLow      = "niedrig"
	RiskMedium   = "mittel"
	RiskHigh     = "hoch"
	RiskCritical = "kritisch"
)

var riskSynonyms = map[string]string{
	"niedrig":  RiskLow,
	"low":      RiskLow,
	"mittel":   RiskMedium,
	"medium":   RiskMedium,
	"hoch":     RiskHigh,
	"high":     RiskHigh,
	"kritisch": RiskCritical,
	"critical": RiskCritical,
}

// NormalizeRisk maps a risk value from either locale onto the canonical set.
// Empty input stays empty (risk not yet assessed).
func NormalizeRisk(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if canonical, ok := riskSynonyms[strings.ToLower(strings.TrimSpace(value))]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("unknown risk level %q", value)
}

// HighRisk reports whether a canonical risk value demands the safety officer
// approval slot.
func HighRisk(value string) bool {
	return value == RiskHigh || value == RiskCritical
}
