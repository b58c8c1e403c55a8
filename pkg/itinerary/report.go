package itinerary

import (
	"fmt"
	"sort"
	"strings"
)

// TextReport renders the plan as a flat text report grouped by day.
func (p *Plan) TextReport() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Itinerary: %s (%d days)\n", p.Destination, p.Days)
	fmt.Fprintf(&b, "Total estimated cost: %.2f %s\n", p.TotalEstimatedCost, p.Currency)
	if p.UnderBudget {
		b.WriteString("Status: under budget\n")
	} else {
		b.WriteString("Status: over budget\n")
	}
	b.WriteString("\n")

	byDay := make(map[int][]Item)
	for i := range p.Items {
		byDay[p.Items[i].Day] = append(byDay[p.Items[i].Day], p.Items[i])
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	for _, day := range days {
		fmt.Fprintf(&b, "Day %d\n", day)
		for _, item := range byDay[day] {
			fmt.Fprintf(&b, "  - %s (%.2f %s)", item.Activity, item.ApproxCost, item.Currency)
			if item.Source != "" {
				fmt.Fprintf(&b, " [%s]", item.Source)
			}
			b.WriteString("\n")
		}
	}

	if p.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", p.Notes)
	}

	return b.String()
}
