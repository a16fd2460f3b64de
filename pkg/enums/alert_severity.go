package enums

// AlertSeverity tiers a period-over-period change for the alert banner.
type AlertSeverity string

const (
	AlertSeverityCriticalDrop AlertSeverity = "critical_drop"
	AlertSeverityDip          AlertSeverity = "dip"
	AlertSeverityGrowth       AlertSeverity = "growth"
)

var validAlertSeverities = []AlertSeverity{
	AlertSeverityCriticalDrop,
	AlertSeverityDip,
	AlertSeverityGrowth,
}

// String implements fmt.Stringer.
func (s AlertSeverity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AlertSeverity.
func (s AlertSeverity) IsValid() bool {
	for _, candidate := range validAlertSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}
