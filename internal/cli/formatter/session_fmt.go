package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/costvar/internal/domain"
)

// UploadResult is the subset of an upload summary the CLI prints.
type UploadResult struct {
	SessionID     string
	FileName      string
	PartNumber    string
	SupplierName  string
	Currency      string
	TargetPrice   float64
	SupplierPrice float64
	TotalVariance float64
	VariancePct   float64
	DuplicateOf   string
}

// FormatUploadResult renders the outcome of one upload.
func FormatUploadResult(r UploadResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("✔ Uploaded"), r.FileName)
	fmt.Fprintf(&b, "  Session   %s\n", r.SessionID)
	fmt.Fprintf(&b, "  Part      %s  %s\n", r.PartNumber, Dim(r.SupplierName))
	fmt.Fprintf(&b, "  Target    %s\n", Money(r.TargetPrice, r.Currency))
	fmt.Fprintf(&b, "  Supplier  %s\n", Money(r.SupplierPrice, r.Currency))
	fmt.Fprintf(&b, "  Variance  %s\n", Variance(r.TotalVariance, r.VariancePct))
	if r.DuplicateOf != "" {
		fmt.Fprintf(&b, "  %s\n", StyleYellow.Render("Same file as session "+r.DuplicateOf))
	}
	return b.String()
}

// FormatSessionList renders sessions as a table, newest first as given.
func FormatSessionList(sessions []*domain.Session, now time.Time) string {
	if len(sessions) == 0 {
		return Dim("No sessions found.") + "\n"
	}

	headers := []string{"ID", "PART", "SUPPLIER", "TARGET", "SUPPLIER PRICE", "VARIANCE", "UPLOADED"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			TruncID(s.ID),
			Truncate(s.PartNumber, 20),
			Truncate(s.SupplierName, 24),
			Amount(s.TargetPrice),
			Amount(s.SupplierPrice),
			Variance(s.TotalVariance, s.VariancePct),
			Dim(HumanTimestamp(s.UploadTime, now)),
		})
	}
	return RenderTable(headers, rows,
		AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft)
}

// FormatSessionDetail renders every header field of a session.
func FormatSessionDetail(s *domain.Session) string {
	fields := [][2]string{
		{"Session", s.ID},
		{"Part", s.PartNumber},
		{"Description", s.PartDescription},
		{"Supplier", s.SupplierName},
		{"Target price", Money(s.TargetPrice, s.Currency)},
		{"Supplier price", Money(s.SupplierPrice, s.Currency)},
		{"Variance", Variance(s.TotalVariance, s.VariancePct)},
		{"File", s.FileName},
		{"Uploaded", s.UploadTime.Local().Format("2006-01-02 15:04:05")},
	}
	if s.FileHash != "" {
		fields = append(fields, [2]string{"SHA-256", Dim(s.FileHash)})
	}

	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%-15s %s\n", f[0], f[1])
	}
	return RenderBox(s.PartNumber, strings.TrimRight(b.String(), "\n"))
}

// FormatBreakdown renders per-process setup, labor and burden costs.
func FormatBreakdown(rows []domain.ProcessBreakdown) string {
	if len(rows) == 0 {
		return Dim("No processes on this sheet.") + "\n"
	}

	pair := func(target, actual float64) string {
		return fmt.Sprintf("%s → %s", Amount(target), Amount(actual))
	}

	headers := []string{"PROCESS", "OPERATION", "EQUIPMENT", "SETUP", "LABOR", "BURDEN", "VARIANCE"}
	out := make([][]string, 0, len(rows))
	var target, actual float64
	for _, r := range rows {
		target += r.TargetTotal()
		actual += r.ActualTotal()
		v := r.ActualTotal() - r.TargetTotal()
		out = append(out, []string{
			r.ProcessID,
			Truncate(r.ProcessDesc, 28),
			Dim(Truncate(r.EquipmentDesc, 20)),
			pair(r.SetupCostTarget, r.SetupCostActual),
			pair(r.LaborCostTarget, r.LaborCostActual),
			pair(r.BurdenCostTarget, r.BurdenCostActual),
			VarianceStyle(v, 0).Render(fmt.Sprintf("%+.2f", v)),
		})
	}
	out = append(out, []string{
		Bold("TOTAL"), "", "", "", "", "",
		Bold(fmt.Sprintf("%s → %s", Amount(target), Amount(actual))),
	})
	return RenderTable(headers, out,
		AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight)
}
