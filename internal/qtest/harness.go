// Package qtest implements a line-oriented command interpreter that
// drives ringq queues, checking the results of each operation the
// way an interactive test harness would.
package qtest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/tychoish/fun/erc"
	"github.com/tychoish/fun/ers"

	"github.com/tychoish/ringq"
)

// DefaultStringLength is the size of the buffer that receives removed
// values, including the terminating NUL.
const DefaultStringLength = 1024

// maxShow caps the number of values printed for a single queue.
const maxShow = 64

// Options control the behavior of a Harness.
type Options struct {
	// StringLength is the capacity of the removal buffer. Values
	// less than two are replaced with DefaultStringLength.
	StringLength int
	// Seed initializes the generator for RAND values.
	Seed uint64
	// Strict causes Run to stop at the first failing command.
	Strict bool
}

// Validate fills in defaults.
func (o *Options) Validate() error {
	if o.StringLength < 2 {
		o.StringLength = DefaultStringLength
	}
	return nil
}

// Harness holds a chain of queues and a current queue, and executes
// commands against them. Harnesses are not safe for concurrent use.
type Harness struct {
	opts    Options
	out     io.Writer
	log     *slog.Logger
	chain   *ringq.Chain
	current *ringq.Context
	src     *rand.PCG
	rand    *rand.Rand
	cmds    map[string]*command
	order   []*command
	done    bool
}

// New constructs a harness that writes results to out. A nil logger
// discards diagnostics.
func New(opts Options, out io.Writer, logger *slog.Logger) (*Harness, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src := rand.NewPCG(opts.Seed, opts.Seed)
	h := &Harness{
		opts:  opts,
		out:   out,
		log:   logger,
		chain: ringq.NewChain(),
		src:   src,
		rand:  rand.New(src),
	}
	h.register()
	return h, nil
}

// Current returns the current queue, or nil if there is none.
func (h *Harness) Current() *ringq.Queue {
	if h.current == nil {
		return nil
	}
	return h.current.Queue()
}

// Chain returns the chain of queues owned by the harness.
func (h *Harness) Chain() *ringq.Chain { return h.chain }

// Done reports whether a quit command has been executed.
func (h *Harness) Done() bool { return h.done }

// Exec runs a single command line. Blank lines and lines starting
// with '#' are ignored.
func (h *Harness) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	cmd, ok := h.cmds[name]
	if !ok {
		return ers.Wrapf(ErrUnknownCommand, "%q", name)
	}

	h.log.Debug("exec", "cmd", name, "args", args)

	if err := cmd.run(h, args); err != nil {
		h.log.Debug("command failed", "cmd", name, "err", err)
		fmt.Fprintf(h.out, "ERROR: %v\n", err)
		return ers.Wrap(err, name)
	}
	return nil
}

// Run executes every line from r until the input is exhausted, a quit
// command runs, or the context is canceled. With the Strict option it
// also stops at the first failing command. Errors from all commands
// are returned together.
func (h *Harness) Run(ctx context.Context, r io.Reader) error {
	ec := &erc.Collector{}
	scanner := bufio.NewScanner(r)

	lineno := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			ec.Push(err)
			break
		}
		lineno++

		if err := h.Exec(scanner.Text()); err != nil {
			ec.Wrapf(err, "line %d", lineno)
			if h.opts.Strict {
				break
			}
		}

		if h.done {
			break
		}
	}
	ec.Push(scanner.Err())

	h.log.Info("finished", "lines", lineno, "errors", ec.Len())
	return ec.Resolve()
}

func (h *Harness) show(ctx *ringq.Context) string {
	if ctx == nil {
		return "NULL"
	}

	buf := &strings.Builder{}
	buf.WriteByte('[')
	count := 0
	for v := range ctx.Queue().Seq() {
		if count == maxShow {
			buf.WriteString(" ...")
			break
		}
		if count > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(v)
		count++
	}
	buf.WriteByte(']')
	return buf.String()
}

func (h *Harness) report() { fmt.Fprintf(h.out, "l = %s\n", h.show(h.current)) }

func (h *Harness) randomString() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, 5+h.rand.IntN(6))
	for idx := range buf {
		buf[idx] = letters[h.rand.IntN(len(letters))]
	}
	return string(buf)
}
