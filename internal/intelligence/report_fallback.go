package intelligence

import (
	"fmt"
	"math"
	"strings"
)

// DeterministicReport renders the report context as Markdown without the
// LLM. Used when the model is disabled or unreachable.
func DeterministicReport(rc ReportContext) string {
	var b strings.Builder
	s := rc.Session

	b.WriteString("## Cost Variance Summary\n\n")
	fmt.Fprintf(&b, "Part **%s**", orDash(s.PartNumber))
	if s.PartDescription != "" {
		fmt.Fprintf(&b, " (%s)", s.PartDescription)
	}
	fmt.Fprintf(&b, " from %s.\n\n", orDash(s.SupplierName))

	b.WriteString("### 1. Overview\n")
	fmt.Fprintf(&b, "Target price **%s**, supplier price **%s**: %s.\n\n",
		money(s.TargetPrice, s.Currency), money(s.SupplierPrice, s.Currency),
		gapPhrase(s.TotalVariance, s.VariancePct, s.Currency))

	if len(rc.Sections) > 0 {
		b.WriteString("### 2. Sections\n")
		for _, n := range rc.Sections {
			fmt.Fprintf(&b, "- %s: %s vs %s (%s)\n", n.ItemName,
				money(n.TargetCost, s.Currency), money(n.ActualCost, s.Currency),
				signed(n.Variance, n.VariancePct))
		}
		b.WriteString("\n")
	}

	b.WriteString("### 3. Main Drivers\n")
	if len(rc.TopOverruns) == 0 {
		b.WriteString("No line item is above target.\n")
	}
	for _, n := range rc.TopOverruns {
		fmt.Fprintf(&b, "- **%s** `%s`: %s\n", n.ItemName, n.ItemID, signed(n.Variance, n.VariancePct))
	}
	b.WriteString("\n")

	if len(rc.TopSavings) > 0 {
		b.WriteString("### 4. Savings\n")
		for _, n := range rc.TopSavings {
			fmt.Fprintf(&b, "- **%s** `%s`: %s\n", n.ItemName, n.ItemID, signed(n.Variance, n.VariancePct))
		}
	}

	return b.String()
}

// DeterministicHighlights picks the largest overruns as drivers.
func DeterministicHighlights(rc ReportContext) *Highlights {
	h := &Highlights{
		Headline: fmt.Sprintf("%s is %s.", orDash(rc.Session.PartNumber),
			gapPhrase(rc.Session.TotalVariance, rc.Session.VariancePct, rc.Session.Currency)),
		Source: SourceDeterministic,
	}
	for i, n := range rc.TopOverruns {
		if i == maxDrivers {
			break
		}
		h.Drivers = append(h.Drivers, n.ItemID)
	}
	return h
}

func gapPhrase(variance, pct float64, currency string) string {
	switch {
	case variance > 0:
		return fmt.Sprintf("%s (%.1f%%) above target", money(variance, currency), pct)
	case variance < 0:
		return fmt.Sprintf("%s (%.1f%%) below target", money(math.Abs(variance), currency), math.Abs(pct))
	default:
		return "on target"
	}
}

func signed(variance, pct float64) string {
	return fmt.Sprintf("%+.2f (%+.1f%%)", variance, pct)
}

func money(v float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
