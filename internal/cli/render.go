// Package cli renders status and history views for the terminal.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mmynk/billminder/internal/models"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#575653")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// RenderTitle renders a title in a rounded box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// RenderStatus renders the three status buckets as of the given date.
func RenderStatus(ownerID, asOf string, report *models.StatusReport) string {
	var b strings.Builder
	b.WriteString(RenderTitle(fmt.Sprintf("BILLS FOR %s AS OF %s", ownerID, asOf)))
	b.WriteString("\n")

	sections := []struct {
		title   string
		color   lipgloss.Color
		records []models.StatusRecord
	}{
		{"Pay immediately", ColorRed, report.PayImmediately},
		{"Upcoming", ColorOrange, report.Upcoming},
		{"Paid this month", ColorGreen, report.Paid},
	}

	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(s.color).Render(
			fmt.Sprintf("%s (%d)", s.title, len(s.records))))
		b.WriteString("\n")
		if len(s.records) == 0 {
			b.WriteString(mutedStyle.Render("  none"))
			b.WriteString("\n")
			continue
		}

		t := newTable("Bill", "Type", "Due", "Overdue", "Last amount", "Paid")
		for _, rec := range s.records {
			t.Row(rec.Name, rec.Type, rec.DueDate, overdueCell(rec), amountCell(rec), paidCell(rec))
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHistory renders one table per month.
func RenderHistory(ownerID string, history *models.PaymentHistory) string {
	var b strings.Builder
	b.WriteString(RenderTitle(fmt.Sprintf("PAYMENTS FOR %s", ownerID)))
	b.WriteString("\n")

	if len(history.Months) == 0 {
		b.WriteString(mutedStyle.Render("  no payments recorded"))
		b.WriteString("\n")
		return b.String()
	}

	for _, m := range history.Months {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s  total %s", m.Label, FormatAmount(m.TotalPaid))))
		b.WriteString("\n")

		t := newTable("Paid at", "Bill", "Amount")
		for _, p := range m.Payments {
			t.Row(p.PaidAt, p.BillName, FormatAmount(p.Amount))
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	return b.String()
}

// FormatAmount formats an amount with two decimals and thousands separators.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func overdueCell(rec models.StatusRecord) string {
	if rec.DaysOverdue == nil {
		return ""
	}
	return fmt.Sprintf("%dd", *rec.DaysOverdue)
}

func amountCell(rec models.StatusRecord) string {
	s := FormatAmount(rec.LastAmount)
	if rec.IsVariableAmount {
		s = "~" + s
	}
	if rec.AutoPay {
		s += " (auto)"
	}
	return s
}

func paidCell(rec models.StatusRecord) string {
	if rec.PaidAmount == nil {
		return ""
	}
	return FormatAmount(*rec.PaidAmount)
}
