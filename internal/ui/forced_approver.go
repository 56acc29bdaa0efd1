package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/sparkify/internal/tui"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and approves when it ends; used with --force.
type ForcedApprover struct {
	verbose   bool
	countdown time.Duration
	output    io.Writer
	sleepFn   func(time.Duration)
}

// NewForcedApprover creates a ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) sparkify.Approver {
	return &ForcedApprover{
		verbose:   verbose,
		countdown: sparkify.DefaultForceApprovalCountdown,
		output:    os.Stderr,
		sleepFn:   time.Sleep,
	}
}

// RequestApproval displays a countdown and approves after it.
// Cancelling ctx during the countdown denies approval.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, tui.ErrorStyle.Render(fmt.Sprintf("DANGER: database '%s' will be dropped and recreated.", dbName)))
	fmt.Fprintln(a.output, "All loaded songs, artists, users and songplays will be lost.")
	fmt.Fprintln(a.output)

	countdown := a.countdown
	if countdown == 0 {
		countdown = sparkify.DefaultForceApprovalCountdown
	}
	for i := int(countdown.Seconds()); i > 0; i-- {
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.output)
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(time.Second)
		}
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s Proceeding with database recreation...                    \n", tui.SymbolCheck)
	return true, nil
}

var _ sparkify.Approver = (*ForcedApprover)(nil)
