package ui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestForcedApprover_ApprovesAfterCountdown(t *testing.T) {
	var output bytes.Buffer
	sleepCalls := 0

	approver := &ForcedApprover{
		countdown: 5 * time.Second,
		output:    &output,
		sleepFn: func(d time.Duration) {
			sleepCalls++
		},
	}

	approved, err := approver.RequestApproval(context.Background(), "sparkifydb")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("Expected approval after countdown")
	}
	if sleepCalls != 5 {
		t.Errorf("Expected 5 sleep calls (one per second), got %d", sleepCalls)
	}

	out := output.String()
	for _, want := range []string{"DANGER", "sparkifydb", "Dropping in: 1 seconds", "Proceeding with database recreation"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestForcedApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	sleepCalls := 0
	approver := &ForcedApprover{
		output: &output,
		sleepFn: func(d time.Duration) {
			sleepCalls++
			if sleepCalls >= 2 {
				cancel()
			}
		},
	}

	approved, err := approver.RequestApproval(ctx, "sparkifydb")
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected approval to be false on cancellation")
	}
	if sleepCalls != 2 {
		t.Errorf("Expected countdown to stop after cancellation, got %d sleeps", sleepCalls)
	}
}

func TestNewForcedApprover(t *testing.T) {
	fa, ok := NewForcedApprover(true).(*ForcedApprover)
	if !ok {
		t.Fatal("Expected *ForcedApprover type")
	}
	if !fa.verbose || fa.output == nil || fa.sleepFn == nil || fa.countdown != 5*time.Second {
		t.Errorf("Unexpected defaults: %+v", fa)
	}
}

func TestInteractiveApprover_Input(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		approved bool
		output   string
	}{
		{"matching", "sparkifydb\n", true, "Confirmed"},
		{"surrounding whitespace", "  sparkifydb  \n", true, "Confirmed"},
		{"no trailing newline", "sparkifydb", true, "Confirmed"},
		{"non matching", "wrong_name\n", false, "does not match"},
		{"empty", "\n", false, "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			approver := &InteractiveApprover{input: strings.NewReader(tt.input), output: &output}

			approved, err := approver.RequestApproval(context.Background(), "sparkifydb")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if approved != tt.approved {
				t.Fatalf("approved = %v, want %v", approved, tt.approved)
			}

			out := output.String()
			if !strings.Contains(out, tt.output) {
				t.Errorf("Expected %q in output, got:\n%s", tt.output, out)
			}
			if !strings.Contains(out, "permanently delete") {
				t.Errorf("Expected deletion warning, got:\n%s", out)
			}
		})
	}
}

func TestInteractiveApprover_ReadError(t *testing.T) {
	approver := &InteractiveApprover{input: &errorReader{err: io.ErrUnexpectedEOF}, output: io.Discard}

	approved, err := approver.RequestApproval(context.Background(), "sparkifydb")
	if err == nil {
		t.Fatal("Expected error for read failure")
	}
	if approved {
		t.Fatal("Expected denial on read error")
	}
	if !strings.Contains(err.Error(), "failed to read input") {
		t.Errorf("Expected read error wrapper, got: %v", err)
	}
}

func TestInteractiveApprover_ContextCancellation(t *testing.T) {
	input := newBlockingReader()
	t.Cleanup(func() { input.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := &InteractiveApprover{input: input, output: io.Discard}

	approved, err := approver.RequestApproval(ctx, "sparkifydb")
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected denial on context cancellation")
	}
}

func TestNewInteractiveApprover(t *testing.T) {
	ia, ok := NewInteractiveApprover(false).(*InteractiveApprover)
	if !ok {
		t.Fatal("Expected *InteractiveApprover type")
	}
	if ia.verbose {
		t.Error("Expected verbose=false")
	}
	if ia.input == nil || ia.output == nil {
		t.Error("Expected non-nil input and output")
	}
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

type blockingReader struct {
	done chan struct{}
}

func newBlockingReader() *blockingReader {
	return &blockingReader{done: make(chan struct{})}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	return nil
}
