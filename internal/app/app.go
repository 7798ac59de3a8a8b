// Package app is the nexus command shell. Every command is a view with a route and an optional
// required role; guarded views go through the route guard, and redirects are rendered as the target view.
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/dashboard"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/forms"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/health"
	jobservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/service"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/nav"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/platform/rbac"
	sessiondomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/session/domain"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
	userservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/service"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// maxRedirects bounds how many navigations one command may follow.
const maxRedirects = 3

// Session is the session store as the shell uses it.
type Session interface {
	State() sessiondomain.State
	Login(ctx context.Context, email, password string) bool
	Signup(ctx context.Context, req apiclient.SignupRequest) bool
	Logout(ctx context.Context)
	ClearError()
}

// API is the part of the backend client the shell calls directly.
type API interface {
	dashboard.API
}

// Deps are the shell's collaborators. Events and Health may be nil.
type Deps struct {
	Session   Session
	API       API
	Jobs      *jobservice.Service
	Profile   *userservice.ProfileService
	Nav       *nav.Recorder
	Events    telemetry.EventEmitter
	Health    *health.Checker
	PageLimit int
	// Token returns the persisted token, for whoami.
	Token func(ctx context.Context) (string, error)
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
}

// App runs commands.
type App struct {
	Deps
	json     bool
	in       *bufio.Reader
	commands map[string]*command
}

type command struct {
	name    string
	args    string
	summary string
	// role is the required role for guarded views; "" with guarded means any signed-in user.
	role    userdomain.Role
	guarded bool
	// route returns the view's path for the positional args.
	route func(args []string) string
	flags func(fs *pflag.FlagSet) func(ctx context.Context, args []string) error
}

// New returns an App.
func New(d Deps) *App {
	if d.PageLimit < 1 {
		d.PageLimit = 10
	}
	a := &App{Deps: d}
	a.commands = map[string]*command{}
	for _, c := range a.commandTable() {
		a.commands[c.name] = c
	}
	return a
}

// Run executes one command line and returns the exit code.
func (a *App) Run(ctx context.Context, argv []string) int {
	global := pflag.NewFlagSet("nexus", pflag.ContinueOnError)
	global.SetOutput(a.Err)
	global.SetInterspersed(false)
	global.BoolVar(&a.json, "json", false, "print JSON instead of tables")
	help := global.BoolP("help", "h", false, "show help")
	if err := global.Parse(argv); err != nil {
		return ExitUsage
	}
	rest := global.Args()
	if *help || len(rest) == 0 || rest[0] == "help" {
		a.usage()
		return ExitOK
	}
	c, ok := a.commands[rest[0]]
	if !ok {
		fmt.Fprintf(a.Err, "nexus: unknown command %q\n", rest[0])
		a.usage()
		return ExitUsage
	}

	fs := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
	fs.SetOutput(a.Err)
	fs.Usage = func() {
		fmt.Fprintf(a.Err, "usage: nexus %s %s\n\n%s\n", c.name, c.args, c.summary)
		fs.PrintDefaults()
	}
	runFn := c.flags(fs)
	if err := fs.Parse(rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	return a.view(ctx, c, fs.Args(), runFn)
}

// view runs c and then follows any navigation it recorded.
func (a *App) view(ctx context.Context, c *command, args []string, run func(context.Context, []string) error) int {
	return a.follow(ctx, a.enter(ctx, c, args, run))
}

// enter applies the guard for c and runs it.
func (a *App) enter(ctx context.Context, c *command, args []string, run func(context.Context, []string) error) int {
	if c.guarded {
		d := rbac.RequireRole(a.Session.State(), c.role, c.route(args))
		if d.Kind == rbac.Loading {
			fmt.Fprintln(a.Err, "Loading session...")
			return ExitError
		}
		if !rbac.Apply(d, a.Nav) {
			return ExitError
		}
	}
	return a.report(run(ctx, args))
}

// follow renders pending navigations as their target views, at most maxRedirects of them.
// code is the exit code of the view that navigated and is returned unchanged.
func (a *App) follow(ctx context.Context, code int) int {
	for i := 0; i < maxRedirects; i++ {
		n, ok := a.Nav.Take()
		if !ok {
			return code
		}
		a.emit(ctx, telemetry.EventRedirect, n.From, map[string]string{"target": n.Target})
		if n.From != "" {
			fmt.Fprintf(a.Err, "Redirected from %s to %s\n", n.From, n.Target)
		}
		a.renderRoute(ctx, n)
	}
	if _, ok := a.Nav.Take(); ok {
		log.Printf("app: too many redirects")
	}
	return code
}

// routeViews maps navigation targets to the commands that render them; route params become positional args.
// Edit routes are not rendered: the edit commands need flags.
var routeViews = []struct{ pattern, command string }{
	{nav.SeekerDashboard, "dashboard"},
	{nav.EmployerDashboard, "employer"},
	{nav.Applications, "applications"},
	{nav.Profile, "profile"},
	{nav.Jobs, "jobs"},
	{nav.JobDetailPattern, "job"},
	{nav.JobApplicantsPattern, "applicants"},
}

// renderRoute shows the view for a navigation target.
func (a *App) renderRoute(ctx context.Context, n nav.Navigation) {
	if n.Target == nav.Landing {
		a.landing(n.From)
		return
	}
	for _, rv := range routeViews {
		args, ok := nav.Match(rv.pattern, n.Target)
		if !ok {
			continue
		}
		c := a.commands[rv.command]
		fs := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
		run := c.flags(fs)
		_ = a.enter(ctx, c, args, run)
		return
	}
	fmt.Fprintf(a.Out, "Open %s\n", n.Target)
}

func (a *App) landing(from string) {
	fmt.Fprintln(a.Out, "Nexus - find your next job.")
	if st := a.Session.State(); st.IsAuthenticated {
		fmt.Fprintf(a.Out, "Signed in as %s. Go to %s.\n", st.CurrentUser.FullName(), rbac.DashboardFor(st.Role()))
		return
	}
	if from != "" {
		fmt.Fprintf(a.Out, "Sign in to continue to %s:\n", from)
	}
	fmt.Fprintln(a.Out, "  nexus login --email you@example.com")
	fmt.Fprintln(a.Out, "  nexus signup --help")
	fmt.Fprintln(a.Out, "  nexus jobs")
}

// report prints err the way the views show errors and returns the exit code.
func (a *App) report(err error) int {
	if err == nil {
		return ExitOK
	}
	if fe, ok := forms.AsFieldErrors(err); ok {
		keys := make([]string, 0, len(fe))
		for k := range fe {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.Err, "  %s: %s\n", k, fe[k])
		}
		return ExitError
	}
	if errors.Is(err, errSilent) {
		return ExitError
	}
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(a.Err, "nexus: %s\n", ue.Error())
		return ExitUsage
	}
	var se *sessionError
	if errors.As(err, &se) {
		fmt.Fprintln(a.Err, se.msg)
		return ExitError
	}
	switch {
	case errors.Is(err, jobservice.ErrNotAuthenticated), errors.Is(err, jobservice.ErrAlreadyApplied),
		errors.Is(err, jobservice.ErrForbidden), errors.Is(err, jobservice.ErrInvalidStatus),
		errors.Is(err, jobservice.ErrMissingID):
		fmt.Fprintf(a.Err, "%s\n", upperFirst(err.Error()))
	case apiclient.IsUnauthorized(err):
		fmt.Fprintln(a.Err, "Your session has expired. Please sign in again.")
	case apiclient.IsNotFound(err):
		fmt.Fprintf(a.Err, "%s\n", apiclient.MessageOr(err, "Not found"))
	default:
		fallback := "Something went wrong"
		var ve *viewError
		if errors.As(err, &ve) {
			fallback = ve.fallback
		}
		log.Printf("app: %v", err)
		fmt.Fprintf(a.Err, "Error: %s\n", apiclient.MessageOr(err, fallback))
		fmt.Fprintln(a.Err, "Run the command again to retry.")
	}
	return ExitError
}

// errSilent fails a command whose output already explains the failure.
var errSilent = errors.New("failed")

// sessionError carries the session banner message.
type sessionError struct{ msg string }

func (e *sessionError) Error() string { return e.msg }

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// output writes v as JSON when --json is set; otherwise it calls text.
func (a *App) output(v any, text func(w *tabwriter.Writer)) error {
	if a.json {
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

func (a *App) emit(ctx context.Context, typ, route string, meta map[string]string) {
	if a.Events == nil {
		return
	}
	ev := &telemetry.Event{Type: typ, Route: route, Source: "cli", Metadata: meta}
	if st := a.Session.State(); st.CurrentUser != nil {
		ev.UserID = st.CurrentUser.ID
		ev.Role = string(st.CurrentUser.Role)
	}
	telemetry.EmitAsync(a.Events, ctx, ev)
}

func (a *App) usage() {
	fmt.Fprintln(a.Err, "usage: nexus [--json] <command> [flags] [args]")
	fmt.Fprintln(a.Err)
	names := make([]string, 0, len(a.commands))
	for n := range a.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(a.Err, 0, 4, 2, ' ', 0)
	for _, n := range names {
		c := a.commands[n]
		fmt.Fprintf(tw, "  %s %s\t%s\n", c.name, c.args, c.summary)
	}
	_ = tw.Flush()
}

func (a *App) reader() *bufio.Reader {
	if a.in == nil {
		a.in = bufio.NewReader(a.In)
	}
	return a.in
}

func fixed(path string) func([]string) string {
	return func([]string) string { return path }
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// needArgs returns a usage error when fewer than n positional args were given.
func needArgs(args []string, n int, what string) error {
	if len(args) < n {
		return &usageError{msg: "missing " + what}
	}
	return nil
}

// usageError is a bad command line; it exits with ExitUsage.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
