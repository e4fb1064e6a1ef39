package commands

import (
	"log/slog"

	"github.com/agent-foreman/foreman/internal/store"
)

// printedError marks an error that cmdErr has already logged via slog, so
// root.Execute's top-level handler doesn't also log it.
type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the slog line already emitted is
	// the output.
	return "error already printed"
}

func (e printedError) Unwrap() error { return e.err }

// cmdErr logs err once and returns a printedError so root.Execute doesn't
// double-report it.
func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	slog.Error("command error", "error", err.Error())
	return printedError{err: err}
}

// openStore resolves cwd and opens the Task Store rooted there.
func openStore(cwd string) (*store.Store, error) {
	return store.New(cwd)
}
