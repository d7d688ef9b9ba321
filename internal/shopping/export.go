package shopping

import (
	"fmt"
	"strings"
	"time"
)

// Render formats a shopping list as the plain-text document users download.
func Render(fullName string, items []Item, now time.Time, brand string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for: %s\n\n", fullName)
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02"))
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s) - %d", it.Name, it.MeasurementUnit, it.Amount)
	}
	fmt.Fprintf(&b, "\n\n%s (%d)", brand, now.Year())
	return b.String()
}

// Filename is the attachment name for a user's shopping list.
func Filename(username string) string {
	return username + "_shopping_list.txt"
}
