// Command qtest reads queue commands from a file or standard input and
// runs them against ringq queues, printing each result.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/tychoish/fun/ers"

	"github.com/tychoish/ringq/internal/qtest"
)

// commandline args
type options struct {
	File    string `short:"f" long:"file" description:"read commands from file instead of standard input"`
	Verbose []bool `short:"v" long:"verbose" description:"log more detail, may be repeated"`
	Seed    uint64 `long:"seed" description:"seed for RAND values"`
	Length  int    `long:"length" default:"1024" description:"size of the buffer that receives removed values"`
	Strict  bool   `long:"strict" description:"stop at the first failing command"`
}

const errUnexpectedArguments ers.Error = ers.Error("unexpected arguments")

// for the tests
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ers.Wrapf(errUnexpectedArguments, "%q", rest)
	}
	return opts, nil
}

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		var ferr *flags.Error
		if ers.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, ferr.Message)
			return nil
		}
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(len(opts.Verbose))}))

	input := stdin
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	h, err := qtest.New(qtest.Options{
		StringLength: opts.Length,
		Seed:         opts.Seed,
		Strict:       opts.Strict,
	}, stdout, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Debug("starting", "file", opts.File, "seed", opts.Seed, "length", opts.Length)
	return h.Run(ctx, input)
}
