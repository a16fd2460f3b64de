package digest

import (
	"fmt"
	"strings"

	"github.com/dcastano/brandpulse-backend/internal/insights/types"
)

const maxRankedLines = 5

// Compose renders already-aggregated dashboard data into a Discord-ready
// message body. Pure formatting: no fetching, no derivation.
func Compose(overview *types.Overview, creators []types.CreatorRankingEntry, products []types.ProductRankingEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Portfolio digest %s to %s (%s)**\n", overview.StartDate, overview.EndDate, overview.Preset)
	for _, line := range overview.Brief.Lines {
		fmt.Fprintf(&b, "%s\n", line)
	}

	if len(overview.Alerts) > 0 {
		b.WriteString("\n**Alerts**\n")
		for _, alert := range overview.Alerts {
			fmt.Fprintf(&b, "- %s\n", alert.Message)
		}
	}

	if len(overview.Brief.RiskFlags) > 0 {
		b.WriteString("\n**Risk flags**\n")
		for _, flag := range overview.Brief.RiskFlags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
	}

	if len(creators) > 0 {
		b.WriteString("\n**Top creators**\n")
		for i, entry := range creators {
			if i == maxRankedLines {
				break
			}
			fmt.Fprintf(&b, "%d. %s (%s) $%s\n", i+1, entry.CreatorName, entry.Brand, entry.TotalGMV.StringFixed(2))
		}
	}

	if len(products) > 0 {
		b.WriteString("\n**Top products**\n")
		for i, entry := range products {
			if i == maxRankedLines {
				break
			}
			fmt.Fprintf(&b, "%d. %s (%s) $%s\n", i+1, entry.ProductName, entry.Brand, entry.TotalGMV.StringFixed(2))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
