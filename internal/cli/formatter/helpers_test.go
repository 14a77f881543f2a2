package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"just now", now.Add(-20 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestamp(tt.input, now))
		})
	}

	old := now.Add(-72 * time.Hour)
	assert.Equal(t, old.Local().Format("Jan 2, 2006 15:04"), HumanTimestamp(old, now))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", TruncID("3f2a9c1e-8b7d-4e5f-9a0b-1c2d3e4f5a6b"))
	assert.Equal(t, "abc", TruncID("abc"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "12.50 USD", Money(12.5, "USD"))
	assert.Equal(t, "-0.25", Money(-0.25, ""))
	assert.Equal(t, "3.00", Amount(3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Zinc pl...", Truncate("Zinc plating line", 10))
	assert.Equal(t, "abcdef", Truncate("abcdef", 3))
}

func TestVariance(t *testing.T) {
	assert.Contains(t, Variance(12.5, 5), "+12.50 (+5.0%)")
	assert.Contains(t, Variance(-0.5, -0.2), "-0.50 (-0.2%)")
	assert.Contains(t, Variance(0, 0), "+0.00 (+0.0%)")
}

func TestVarianceStyle(t *testing.T) {
	assert.Equal(t, StyleGreen.GetForeground(), VarianceStyle(-1, -0.4).GetForeground())
	assert.Equal(t, StyleDim.GetForeground(), VarianceStyle(0, 0).GetForeground())
	assert.Equal(t, StyleRed.GetForeground(), VarianceStyle(4, 1.6).GetForeground())
	assert.Equal(t, StyleYellow.GetForeground(), VarianceStyle(0.2, 0.08).GetForeground())
}

func TestHeader(t *testing.T) {
	out := Header("Process breakdown")
	assert.Contains(t, out, "PROCESS BREAKDOWN")
	assert.Contains(t, out, "─────")
}
