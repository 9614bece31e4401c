// Command zpcs drives the image studio backend from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"zpcs/internal/imagegen"
	"zpcs/internal/infra"
)

const usage = `usage: zpcs [-api URL] <command> [flags]

commands:
  generate   create an image from the current options
  edit       edit a source image (-image is required)
  options    list the server's choices (-check compares them with this build)
  gallery    list past results
  delete     remove a gallery entry
  download   save an image file
  export     save one gallery page as a zip archive
`

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	infra.LoadEnvFiles()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	logger := infra.NewLogger(cfg).With().Str("cmd", "zpcs").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], cfg, logger, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type app struct {
	cfg    *infra.Config
	logger zerolog.Logger
	client *imagegen.Client
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func run(ctx context.Context, args []string, cfg *infra.Config, logger zerolog.Logger, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("zpcs", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	apiFlag := global.String("api", cfg.APIBaseURL, "backend base URL")
	if err := global.Parse(args); err != nil {
		return exitUsage
	}
	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return exitUsage
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
	a.client = imagegen.NewClient(imagegen.Options{
		BaseURL:        strings.TrimSpace(*apiFlag),
		Logger:         &a.logger,
		RequestTimeout: cfg.HTTPTimeout,
	})

	commands := map[string]func(context.Context, []string) error{
		"generate": a.generate,
		"edit":     a.edit,
		"options":  a.options,
		"gallery":  a.gallery,
		"delete":   a.delete,
		"download": a.download,
		"export":   a.export,
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		global.Usage()
		return exitUsage
	}

	err := cmd(ctx, rest[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	default:
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}
}
