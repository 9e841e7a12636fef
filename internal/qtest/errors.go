package qtest

import "github.com/tychoish/fun/ers"

const (
	// ErrUnknownCommand is returned for lines that do not start
	// with a registered command.
	ErrUnknownCommand ers.Error = ers.Error("unknown command")

	// ErrNoQueue is returned by commands that need a current queue
	// when none has been created.
	ErrNoQueue ers.Error = ers.Error("no current queue")

	// ErrInvalidArguments is returned when a command's arguments
	// cannot be parsed.
	ErrInvalidArguments ers.Error = ers.Error("invalid arguments")

	// ErrUnexpectedValue is returned when an operation succeeds but
	// the queue does not hold the expected result.
	ErrUnexpectedValue ers.Error = ers.Error("unexpected value")

	// ErrOperationFailed is returned when a queue operation reports
	// failure.
	ErrOperationFailed ers.Error = ers.Error("operation failed")
)
