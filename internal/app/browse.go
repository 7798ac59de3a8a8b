package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/job/query"
)

const browseHelp = `Commands:
  next, prev          move one page
  page N              go to page N
  set key=value       filter: search, category, type, location, experience, salary, limit
  unset key           remove a filter
  sort ORDER          newest, oldest, salary-high-to-low, salary-low-to-high
  clear               reset filters and sort
  open ID             show a job
  help                show this help
  quit                leave`

func (a *App) browseCmd(fs *pflag.FlagSet) func(context.Context, []string) error {
	l := bindListing(fs)
	return func(ctx context.Context, _ []string) error {
		q, err := l.query(fs, a.PageLimit)
		if err != nil {
			return err
		}
		b := &browser{app: a, q: q}
		return b.run(ctx)
	}
}

// browser is an interactive listing session over one query.
type browser struct {
	app  *App
	q    query.Query
	page *jobdomain.ListingPage
}

func (b *browser) run(ctx context.Context) error {
	if err := b.fetch(ctx); err != nil {
		return err
	}
	in := b.app.reader()
	for {
		fmt.Fprint(b.app.Err, "browse> ")
		line, err := in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if quit := b.exec(ctx, line); quit {
				return nil
			}
		}
		if err == io.EOF {
			fmt.Fprintln(b.app.Err)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (b *browser) fetch(ctx context.Context) error {
	page, err := b.app.Jobs.Search(ctx, b.q)
	if err != nil {
		return failed(err, msgJobsFailed)
	}
	b.page = page
	return b.app.output(listing{Query: b.q.Params(), Page: page}, func(tw *tabwriter.Writer) {
		renderListing(tw, b.q, page)
	})
}

// exec runs one browse command and reports whether the session should end.
func (b *browser) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	total := 1
	if b.page != nil {
		total = b.page.TotalPages
	}

	var (
		refetch bool
		problem string
	)
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(b.app.Err, browseHelp)
	case "next", "n":
		refetch = b.q.GoToPage(b.q.Page+1, total)
		if !refetch {
			problem = "Already on the last page."
		}
	case "prev", "p":
		refetch = b.q.GoToPage(b.q.Page-1, total)
		if !refetch {
			problem = "Already on the first page."
		}
	case "page":
		n, err := strconv.Atoi(arg)
		if err == nil {
			refetch = b.q.GoToPage(n, total)
		}
		if !refetch {
			problem = fmt.Sprintf("Choose a page between 1 and %d.", total)
		}
	case "set":
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			problem = "Use set key=value."
			break
		}
		if problem = b.set(strings.TrimSpace(key), strings.TrimSpace(val)); problem == "" {
			refetch = true
		}
	case "unset":
		if problem = b.set(arg, ""); problem == "" {
			refetch = true
		}
	case "sort":
		s, ok := query.ParseSort(arg)
		if !ok {
			problem = "Unknown sort order."
			break
		}
		b.q.Update(query.FilterUpdate{Sort: &s})
		refetch = true
	case "clear":
		b.q.Clear()
		refetch = true
	case "open":
		if arg == "" {
			problem = "Use open ID."
			break
		}
		c := b.app.commands["job"]
		_ = b.app.view(ctx, c, []string{arg}, c.flags(pflag.NewFlagSet(c.name, pflag.ContinueOnError)))
	default:
		problem = fmt.Sprintf("Unknown command %q. Type help for commands.", cmd)
	}

	if problem != "" {
		fmt.Fprintln(b.app.Err, problem)
	}
	if refetch {
		_ = b.app.report(b.fetch(ctx))
	}
	return false
}

// set applies one filter and returns a problem message, or "" on success.
func (b *browser) set(key, val string) string {
	var u query.FilterUpdate
	check := func(flag string, opts []string) string {
		if err := checkOption(flag, val, opts); err != nil {
			return strings.TrimPrefix(err.Error(), "--")
		}
		return ""
	}
	switch key {
	case "search", "q":
		u.Search = &val
	case "category":
		u.Category = &val
		if p := check("category", query.Categories); p != "" {
			return p
		}
	case "type":
		u.Type = &val
		if p := check("type", query.JobTypes); p != "" {
			return p
		}
	case "location":
		u.Location = &val
	case "experience":
		u.Experience = &val
		if p := check("experience", query.ExperienceLevels); p != "" {
			return p
		}
	case "salary":
		u.Salary = &val
		if p := check("salary", salaryValues()); p != "" {
			return p
		}
	case "limit":
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return "limit must be a positive number"
		}
		u.Limit = &n
	default:
		return fmt.Sprintf("Unknown filter %q.", key)
	}
	b.q.Update(u)
	return ""
}
