package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTrade renders a trade as a single human readable line. The amount
// is labelled with symbol unless it is empty.
func FormatTrade(t Trade, symbol string) string {
	amount := t.Amount.String()
	if symbol != "" {
		amount += " " + symbol
	}
	return fmt.Sprintf("%s  %-4s  %s @ $%s = $%s  (%s, %s)",
		shortID(t.ID),
		strings.ToUpper(t.Side.String()),
		amount,
		t.Price.StringFixed(2),
		t.Total.StringFixed(2),
		t.Source,
		t.Time.UTC().Format(time.RFC3339),
	)
}

// FormatTrades renders trades one per line.
func FormatTrades(trades []Trade, symbol string) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTrade(t, symbol))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
