// Command contentgen generates marketing content for crypto projects with a
// configurable LLM provider, or serves the generators as MCP tools.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/cryptocontent/pkg/engine"
	"github.com/joho/godotenv"
)

const usageText = `Usage: contentgen [flags] <command> [command flags]

Commands:
  generate     Send a raw prompt to the configured provider
  post         Generate a Twitter post for a project
  thread       Generate a Twitter thread for a project
  description  Generate a project description
  feature      Explain a project feature
  templates    List prompt templates
  mcp          Serve the content tools over MCP on stdio

Flags:
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	cfg    engine.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// newEngine builds the engine lazily so commands that need no provider
// credentials still work.
func (a *app) newEngine() (*engine.Engine, error) {
	return engine.New(a.cfg, engine.WithLogger(a.log))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("contentgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to YAML configuration (default: read the environment)")
	envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
	verbose := fs.Bool("verbose", false, "log debug output to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	if err := loadDotEnv(*envFile); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	a := &app{
		cfg:    cfg,
		log:    newLogger(stderr, *verbose),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	name, rest := fs.Arg(0), fs.Args()[1:]

	cmd, ok := commands[name]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	return cmd(ctx, a, rest)
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// loadConfig reads the YAML file at path, or the environment when path is empty.
func loadConfig(path string) (engine.Config, error) {
	if path == "" {
		return engine.ConfigFromEnv()
	}
	return engine.LoadConfig(path)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
