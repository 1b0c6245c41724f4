package scaffold

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/newt-labs/newt/internal/catalog"
)

type recordingRunner struct {
	calls []string
	fail  bool
}

func (r *recordingRunner) run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	if r.fail {
		return []byte("boom"), errors.New("exit status 1")
	}
	return []byte("ok"), nil
}

func boolPtr(b bool) *bool { return &b }

func restoreResult(continueOnError *bool) *Result {
	return &Result{
		OutputDir: "/tmp/out",
		Template: catalog.Template{
			Identity: "Console",
			PostActions: []catalog.PostAction{
				{ActionID: "restore", Args: map[string]string{"command": "go mod download"}, ContinueOnError: continueOnError},
				{ActionID: "instructions", Description: "Open the project", ManualInstructions: []string{"cd out"}},
			},
		},
	}
}

func TestRunPostActions(t *testing.T) {
	runner := &recordingRunner{}
	var out, errOut bytes.Buffer

	err := RunPostActions(context.Background(), restoreResult(nil), PostActionOptions{Out: &out, Err: &errOut, Run: runner.run})
	if err != nil {
		t.Fatalf("RunPostActions() error: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "go mod download" {
		t.Errorf("calls = %v", runner.calls)
	}
	assertContains(t, out.String(), "Restore succeeded.")
	assertContains(t, out.String(), "Manual instructions:")
	if errOut.Len() != 0 {
		t.Errorf("unexpected warnings: %s", errOut.String())
	}
}

func TestRunPostActions_NoRestore(t *testing.T) {
	runner := &recordingRunner{}
	var out, errOut bytes.Buffer

	err := RunPostActions(context.Background(), restoreResult(nil), PostActionOptions{NoRestore: true, Out: &out, Err: &errOut, Run: runner.run})
	if err != nil {
		t.Fatalf("RunPostActions() error: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("restore should be skipped, got calls %v", runner.calls)
	}
	assertContains(t, out.String(), "Manual instructions:")
}

func TestRunPostActions_FailurePolicy(t *testing.T) {
	tests := []struct {
		name            string
		continueOnError *bool
		wantErr         bool
	}{
		{"unset warns", nil, false},
		{"true warns", boolPtr(true), false},
		{"false fails", boolPtr(false), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{fail: true}
			var out, errOut bytes.Buffer

			err := RunPostActions(context.Background(), restoreResult(tt.continueOnError), PostActionOptions{Out: &out, Err: &errOut, Run: runner.run})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if strings.Contains(out.String(), "Manual instructions:") {
					t.Error("remaining actions should be skipped after a fatal failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertContains(t, errOut.String(), `Warning: post action "restore" failed`)
			assertContains(t, out.String(), "Manual instructions:")
		})
	}
}

func TestRunPostActions_UnknownProcessor(t *testing.T) {
	res := &Result{Template: catalog.Template{PostActions: []catalog.PostAction{{ActionID: "deploy"}}}}
	var out, errOut bytes.Buffer

	if err := RunPostActions(context.Background(), res, PostActionOptions{Out: &out, Err: &errOut}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, errOut.String(), `no processor for post action "deploy"`)
}
