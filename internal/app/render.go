package app

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/application/status"
	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/job/query"
)

// viewError is a failed fetch or submit with the view's fallback message.
type viewError struct {
	fallback string
	err      error
}

func (e *viewError) Error() string { return e.fallback + ": " + e.err.Error() }
func (e *viewError) Unwrap() error { return e.err }

func failed(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var ve *viewError
	if errors.As(err, &ve) {
		return err
	}
	return &viewError{fallback: fallback, err: err}
}

var printer = message.NewPrinter(language.English)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("January 2, 2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

func salaryRange(s jobdomain.Salary) string {
	if s.Min == 0 && s.Max == 0 {
		return "Not specified"
	}
	return money(s.Currency, s.Min) + " - " + money(s.Currency, s.Max)
}

func money(currency string, v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%s%d", currency, int64(v))
	}
	return printer.Sprintf("%s%.2f", currency, v)
}

func badge(s status.Status) string {
	return "[" + status.Label(s) + "]"
}

// timeline renders the progress steps, e.g. "(x) Applied > (x) Reviewing > ( ) Shortlisted".
func timeline(s status.Status) string {
	steps := status.Timeline(s)
	parts := make([]string, len(steps))
	for i, st := range steps {
		mark := "( )"
		if st.Active {
			mark = "(x)"
		}
		parts[i] = mark + " " + st.Title
	}
	return strings.Join(parts, " > ")
}

// pageBar renders pagination controls, e.g. "< 1 ... 4 [5] 6 ... 9 >". It is empty for a single page.
func pageBar(c query.Controls) string {
	if !c.Visible {
		return ""
	}
	var b strings.Builder
	if c.PrevEnabled {
		b.WriteString("<")
	} else {
		b.WriteString(" ")
	}
	for _, it := range c.Items {
		switch {
		case it.Ellipsis:
			b.WriteString(" ...")
		case it.Current:
			fmt.Fprintf(&b, " [%d]", it.Page)
		default:
			fmt.Fprintf(&b, " %d", it.Page)
		}
	}
	if c.NextEnabled {
		b.WriteString(" >")
	}
	return b.String()
}

// statusTabs renders filter tabs with counts; current is marked.
func statusTabs(counts map[status.Status]int, current status.Status) string {
	tabs := append([]status.Status{""}, status.All...)
	parts := make([]string, len(tabs))
	for i, s := range tabs {
		label := "All"
		if s != "" {
			label = status.Label(s)
		}
		tab := fmt.Sprintf("%s (%d)", label, counts[s])
		if s == current {
			tab = "*" + tab
		}
		parts[i] = tab
	}
	return strings.Join(parts, "  ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
