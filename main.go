package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/playwright-community/playwright-go"
	"github.com/umputun/go-flags"

	"github.com/umputun/todocheck/session"
	"github.com/umputun/todocheck/todo"
)

type options struct {
	URL     string        `short:"u" long:"url" env:"TODO_URL" default:"https://todomvc.com/examples/typescript-angular/#/" description:"todo application url"`
	Browser string        `short:"b" long:"browser" env:"TODO_BROWSER" default:"chromium" choice:"chromium" choice:"firefox" choice:"webkit" description:"browser engine"`
	Headed  bool          `long:"headed" env:"TODO_HEADED" description:"show browser window"`
	SlowMo  time.Duration `long:"slow-mo" env:"TODO_SLOW_MO" default:"0s" description:"delay between browser operations"`
	Timeout time.Duration `long:"timeout" env:"TODO_TIMEOUT" default:"3s" description:"bounded wait for queries"`
	State   string        `short:"s" long:"state" env:"TODO_STATE" default:"todo-state.json" description:"browser storage state file"`
	Install bool          `long:"install" description:"install playwright driver and browser before start"`
	Dbg     bool          `long:"dbg" env:"DEBUG" description:"debug mode"`

	Add       addCmd       `command:"add" description:"add todos"`
	Complete  completeCmd  `command:"complete" description:"mark todos as completed"`
	Toggle    toggleCmd    `command:"toggle" description:"toggle completed state of a todo"`
	Edit      editCmd      `command:"edit" description:"edit a todo"`
	Delete    deleteCmd    `command:"delete" description:"delete todos"`
	ToggleAll toggleAllCmd `command:"toggle-all" description:"mark all todos completed, or all active if all are completed"`
	Clear     clearCmd     `command:"clear-completed" description:"remove completed todos"`
	List      listCmd      `command:"list" description:"list todos"`
	Shot      shotCmd      `command:"screenshot" description:"save screenshot of the todo list"`
}

var opts options

var revision = "unknown"

func main() {
	printBanner(os.Stderr)

	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLog(opts.Dbg)
		return cmd.Execute(args)
	}

	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(2)
		}
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// withPage launches the browser, opens the todo app with the saved storage state,
// runs fn against the page object and saves the state back if fn succeeded.
func withPage(fn func(p *todo.Page) error) error {
	browser, err := session.Launch(sessionConfig(&opts))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			lgr.Printf("[WARN] %v", cerr)
		}
	}()

	page, err := browser.NewPage(opts.State)
	if err != nil {
		return err
	}
	if _, err := page.Goto(opts.URL, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded}); err != nil {
		return fmt.Errorf("failed to open %s: %w", opts.URL, err)
	}

	if err := fn(todo.New(page, todo.WithTimeout(opts.Timeout))); err != nil {
		return err
	}
	return session.SaveState(page, opts.State)
}

func sessionConfig(o *options) session.Config {
	return session.Config{
		Browser:  o.Browser,
		Headless: !o.Headed,
		SlowMo:   o.SlowMo,
		Install:  o.Install,
		Timeout:  o.Timeout,
	}
}

func printBanner(w io.Writer) {
	_, _ = fmt.Fprintf(w, "todocheck %s\n", versionInfo())
}

func versionInfo() string {
	if revision != "unknown" {
		return revision
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "dev"
}

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Out(os.Stderr), lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Out(os.Stderr), lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
