package common

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/firstrankcoders/credential-service/internal/observability"
	"github.com/firstrankcoders/credential-service/internal/tools/ui"
)

// ExitCodeFailure is returned by the operator CLIs when a command fails.
const ExitCodeFailure = 3

type CIResult struct {
	OK      bool     `json:"ok"`
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func PrintCIResult(ok bool, title string, details []string, err error) {
	writeCIResult(os.Stdout, ok, title, details, err)
}

func writeCIResult(w io.Writer, ok bool, title string, details []string, err error) {
	result := CIResult{OK: ok, Title: title, Details: details}
	if err != nil {
		result.Error = err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

type RunOptions struct {
	Tool    string
	Command string
	CI      bool
	Timeout time.Duration
}

// Run executes fn either under the interactive progress view or, with CI set,
// directly with a JSON summary on stdout. Every run is recorded as a tool metric.
func Run(opts RunOptions, fn func(context.Context) ([]string, error)) ([]string, error) {
	start := time.Now()
	title := opts.Tool + " " + opts.Command

	var (
		details []string
		err     error
	)
	if opts.CI {
		ctx := context.Background()
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		details, err = fn(ctx)
		PrintCIResult(err == nil, title, details, err)
	} else {
		details, err = ui.Run(title, opts.Timeout, fn)
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	observability.RecordToolCommandRun(context.Background(), opts.Tool, opts.Command, outcome)
	observability.RecordToolCommandDuration(context.Background(), opts.Tool, opts.Command, outcome, time.Since(start))
	return details, err
}
