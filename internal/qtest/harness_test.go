package qtest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tychoish/fun/assert"
	"github.com/tychoish/fun/assert/check"
	"github.com/tychoish/fun/testt"
)

func newHarness(t *testing.T, opts Options) (*Harness, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	h, err := New(opts, out, nil)
	assert.NotError(t, err)
	return h, out
}

func run(t *testing.T, h *Harness, script ...string) error {
	t.Helper()
	return h.Run(testt.Context(t), strings.NewReader(strings.Join(script, "\n")))
}

func TestHarness(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		check.Equal(t, h.opts.StringLength, DefaultStringLength)
		check.True(t, h.Current() == nil)
		check.Equal(t, h.Chain().Len(), 0)
	})
	t.Run("CommentsAndBlankLines", func(t *testing.T) {
		h, out := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "", "# nothing here", "   "))
		check.Equal(t, out.Len(), 0)
	})
	t.Run("UnknownCommand", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		err := h.Exec("frobnicate 1 2")
		assert.ErrorIs(t, err, ErrUnknownCommand)
		check.Substring(t, err.Error(), "frobnicate")
	})
	t.Run("NoQueue", func(t *testing.T) {
		h, out := newHarness(t, Options{})
		for _, line := range []string{"ih a", "rh", "size", "sort", "reverseK 2", "free", "next", "merge"} {
			assert.ErrorIs(t, h.Exec(line), ErrNoQueue)
		}
		check.Substring(t, out.String(), "ERROR: no current queue")
	})
	t.Run("Scenario", func(t *testing.T) {
		h, out := newHarness(t, Options{})
		assert.NotError(t, run(t, h,
			"new",
			"it banana",
			"it apple",
			"it cherry",
			"sort",
			"reverse",
			"rh cherry",
			"size",
		))
		check.Substring(t, out.String(), "l = [apple banana cherry]")
		check.Substring(t, out.String(), "l = [cherry banana apple]")
		check.Substring(t, out.String(), "Removed cherry from queue")
		check.Substring(t, out.String(), "Queue size = 2")
		check.EqualItems(t, h.Current().Slice(), []string{"banana", "apple"})
	})
	t.Run("InsertCounts", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "ih x 3", "it y 2"))
		check.EqualItems(t, h.Current().Slice(), []string{"x", "x", "x", "y", "y"})
		assert.ErrorIs(t, h.Exec("ih x 0"), ErrInvalidArguments)
		assert.ErrorIs(t, h.Exec("ih x many"), ErrInvalidArguments)
		assert.ErrorIs(t, h.Exec("ih"), ErrInvalidArguments)
	})
	t.Run("RandomValues", func(t *testing.T) {
		h, _ := newHarness(t, Options{Seed: 42})
		assert.NotError(t, run(t, h, "new", "it RAND 10"))
		values := h.Current().Slice()
		check.Equal(t, len(values), 10)
		for _, v := range values {
			check.True(t, len(v) >= 5 && len(v) <= 10)
			check.Equal(t, strings.Trim(v, "abcdefghijklmnopqrstuvwxyz"), "")
		}

		again, _ := newHarness(t, Options{Seed: 42})
		assert.NotError(t, run(t, again, "new", "it RAND 10"))
		check.EqualItems(t, again.Current().Slice(), values)
	})
	t.Run("RemoveChecksValue", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "it a", "it b"))
		err := h.Exec("rh b")
		assert.ErrorIs(t, err, ErrUnexpectedValue)
		assert.NotError(t, h.Exec("rt b"))
		assert.ErrorIs(t, h.Exec("rt"), ErrOperationFailed)
	})
	t.Run("FailedCommandKeepsSizeInSync", func(t *testing.T) {
		h, out := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "it a", "it b"))
		assert.ErrorIs(t, h.Exec("rh b"), ErrUnexpectedValue)

		assert.NotError(t, h.Exec("size"))
		check.Substring(t, out.String(), "Queue size = 1")
		check.Equal(t, h.current.Size(), 1)
		check.NotError(t, h.current.Validate())

		assert.NotError(t, run(t, h, "new", "it c", "merge"))
		check.EqualItems(t, h.Current().Slice(), []string{"b", "c"})
	})
	t.Run("RemoveTruncates", func(t *testing.T) {
		h, out := newHarness(t, Options{StringLength: 4})
		assert.NotError(t, run(t, h, "new", "it abcdefg", "rh abc"))
		check.Substring(t, out.String(), "Removed abc from queue")
	})
	t.Run("DeleteMid", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "it 1", "it 2", "it 3", "dm"))
		check.EqualItems(t, h.Current().Slice(), []string{"1", "3"})
		assert.NotError(t, run(t, h, "dm", "dm"))
		assert.ErrorIs(t, h.Exec("dm"), ErrOperationFailed)
	})
	t.Run("Dedup", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "it 1", "it 1", "it 2", "it 2", "it 3", "dedup"))
		check.EqualItems(t, h.Current().Slice(), []string{"3"})
	})
	t.Run("SwapAndReverseK", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "it 1", "it 2", "it 3", "it 4", "it 5", "swap"))
		check.EqualItems(t, h.Current().Slice(), []string{"2", "1", "4", "3", "5"})
		assert.NotError(t, h.Exec("reverseK 3"))
		check.EqualItems(t, h.Current().Slice(), []string{"4", "1", "2", "3", "5"})
		assert.ErrorIs(t, h.Exec("reverseK"), ErrInvalidArguments)
		assert.ErrorIs(t, h.Exec("reverseK two"), ErrInvalidArguments)
	})
	t.Run("Descend", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "it 5", "it 2", "it 6", "it 1", "descend"))
		check.EqualItems(t, h.Current().Slice(), []string{"6", "1"})
	})
	t.Run("Merge", func(t *testing.T) {
		h, out := newHarness(t, Options{})
		assert.NotError(t, run(t, h,
			"new", "it 1", "it 4",
			"new", "it 2", "it 3",
			"new", "it 0", "it 5",
			"merge",
			"show",
		))
		check.EqualItems(t, h.Current().Slice(), []string{"0", "1", "2", "3", "4", "5"})
		check.Substring(t, out.String(), "*q 0: [0 1 2 3 4 5]")
		check.Substring(t, out.String(), " q 1: []")
		check.Substring(t, out.String(), " q 2: []")
	})
	t.Run("NavigateAndFree", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "it a", "new", "it b"))
		check.EqualItems(t, h.Current().Slice(), []string{"b"})
		assert.NotError(t, h.Exec("next"))
		check.EqualItems(t, h.Current().Slice(), []string{"a"})
		assert.NotError(t, h.Exec("prev"))
		check.EqualItems(t, h.Current().Slice(), []string{"b"})

		assert.NotError(t, h.Exec("free"))
		check.EqualItems(t, h.Current().Slice(), []string{"a"})
		check.Equal(t, h.Chain().Len(), 1)
		assert.NotError(t, h.Exec("free"))
		check.True(t, h.Current() == nil)
		check.Equal(t, h.Chain().Len(), 0)
	})
	t.Run("Options", func(t *testing.T) {
		h, out := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "option length 8", "option seed 7", "option strict true", "option"))
		check.Equal(t, h.opts.StringLength, 8)
		check.Equal(t, h.opts.Seed, uint64(7))
		check.True(t, h.opts.Strict)
		check.Substring(t, out.String(), "length = 8")

		assert.ErrorIs(t, h.Exec("option length 1"), ErrInvalidArguments)
		assert.ErrorIs(t, h.Exec("option color blue"), ErrInvalidArguments)
		assert.ErrorIs(t, h.Exec("option strict"), ErrInvalidArguments)
	})
	t.Run("Help", func(t *testing.T) {
		h, out := newHarness(t, Options{})
		assert.NotError(t, h.Exec("help"))
		for _, name := range []string{"new", "reverseK", "descend", "merge", "quit"} {
			check.Substring(t, out.String(), name)
		}
	})
	t.Run("Quit", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		assert.NotError(t, run(t, h, "new", "quit", "it never"))
		check.True(t, h.Done())
		check.Equal(t, h.Current().Size(), 0)
	})
	t.Run("CollectsErrors", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		err := run(t, h, "rh", "new", "bogus", "it a")
		assert.Error(t, err)
		check.True(t, errors.Is(err, ErrNoQueue))
		check.True(t, errors.Is(err, ErrUnknownCommand))
		check.Substring(t, err.Error(), "line 1")
		check.Substring(t, err.Error(), "line 3")
		check.EqualItems(t, h.Current().Slice(), []string{"a"})
	})
	t.Run("Strict", func(t *testing.T) {
		h, _ := newHarness(t, Options{Strict: true})
		err := run(t, h, "new", "bogus", "it a")
		assert.ErrorIs(t, err, ErrUnknownCommand)
		check.Equal(t, h.Current().Size(), 0)
	})
	t.Run("Canceled", func(t *testing.T) {
		h, _ := newHarness(t, Options{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := h.Run(ctx, strings.NewReader("new\n"))
		assert.ErrorIs(t, err, context.Canceled)
		check.True(t, h.Current() == nil)
	})
}
