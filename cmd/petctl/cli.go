package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/petadoption/webclient/internal/app"
	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/version"
)

var (
	// errReported means the failure was already shown through the notifier
	errReported = errors.New("command failed")
	// errUsage means the command line could not be understood
	errUsage = errors.New("invalid usage")
)

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, args []string) error
}

// cli runs petctl commands against a wired App
type cli struct {
	app    *app.App
	in     io.Reader
	errOut io.Writer
	notify *notifier
	out    printer
}

func newCLI(a *app.App, in io.Reader, out, errOut io.Writer) *cli {
	return &cli{
		app:    a,
		in:     in,
		errOut: errOut,
		notify: newNotifier(errOut),
		out:    printer{out: out, format: a.Config.Output.Format},
	}
}

func (c *cli) commands() []command {
	return []command{
		{name: "login", usage: "login -email EMAIL [-password PASSWORD]", summary: "Sign in, the password is read from stdin when omitted", run: c.login},
		{name: "register", usage: "register -name NAME -email EMAIL [-password PASSWORD]", summary: "Create an account and sign in", run: c.register},
		{name: "logout", usage: "logout", summary: "Sign out and forget the stored token", run: c.logout},
		{name: "whoami", usage: "whoami", summary: "Show the session state and token expiry", run: c.whoami},
		{name: "profile", usage: "profile", summary: "Show the signed-in user's profile", run: c.profile},
		{name: "pets", usage: "pets list|show|create|update|delete", summary: "Browse pets, admins can manage them", run: c.pets},
		{name: "apply", usage: "apply PET_ID -message TEXT", summary: "Apply to adopt a pet", run: c.apply},
		{name: "applications", usage: "applications mine|all|show|status|delete", summary: "Track or review adoption applications", run: c.applications},
		{name: "stats", usage: "stats", summary: "Show the admin dashboard statistics", run: c.stats},
		{name: "version", usage: "version", summary: "Print build information", run: c.version},
	}
}

// run executes the command named by args[0]
func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	c.notify.reset()

	for _, cmd := range c.commands() {
		if cmd.name != args[0] {
			continue
		}
		if cmd.name != "version" {
			c.app.Session.Init(ctx)
		}
		return cmd.run(ctx, args[1:])
	}
	return fmt.Errorf("unknown command %q, run petctl without arguments for usage", args[0])
}

// flags returns a flag set for a subcommand that reports errors instead of exiting
func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("petctl "+name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// parseWithID parses fs and returns the single positional id, which may come before or after the flags
func parseWithID(fs *flag.FlagSet, args []string) (models.ID, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	rest := fs.Args()
	if id == "" && len(rest) > 0 {
		id, rest = rest[0], rest[1:]
	}
	if id == "" || len(rest) > 0 {
		return "", fmt.Errorf("%s expects exactly one id argument", fs.Name())
	}
	return models.ID(id), nil
}

// checkLoad turns a cancelled or failed view load into an error
func (c *cli) checkLoad(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.notify.errored() {
		return errReported
	}
	return nil
}

func (c *cli) version(_ context.Context, args []string) error {
	if len(args) > 0 {
		return errUsage
	}
	info := version.Get()
	return c.out.print(info, func(w io.Writer) {
		fmt.Fprintf(w, "petctl %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
	})
}

func printUsage(w io.Writer) {
	c := &cli{}
	fmt.Fprintln(w, "Usage: petctl [-o table|json|yaml] COMMAND [ARGS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range c.commands() {
		fmt.Fprintf(w, "  %-45s %s\n", cmd.usage, cmd.summary)
	}
}
