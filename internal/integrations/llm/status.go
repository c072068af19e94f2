package llm

import "strings"

// normalizePriority maps free-form priorities onto high/medium/low. Unknown
// values become medium.
func normalizePriority(p string) Priority {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high", "critical", "urgent", "p0", "p1":
		return PriorityHigh
	case "low", "minor", "nice to have", "p3":
		return PriorityLow
	default:
		return PriorityMedium
	}
}
