package component

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/platform"
)

// Built-in post-action processor ids.
const (
	ActionRestore      = "restore"
	ActionRunScript    = "run-script"
	ActionInstructions = "instructions"
)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func (env PostActionEnv) run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if env.Run != nil {
		return env.Run(ctx, dir, name, args...)
	}
	return ExecRunner(ctx, dir, name, args...)
}

func workingDir(env PostActionEnv, action catalog.PostAction) string {
	if wd := action.Args["workingDirectory"]; wd != "" {
		return filepath.Join(env.OutputDir, filepath.FromSlash(wd))
	}
	return env.OutputDir
}

// RestoreProcessor runs the restore command declared in args.command,
// e.g. "go mod download".
type RestoreProcessor struct {
	id string
}

// ID implements PostActionProcessor.
func (p *RestoreProcessor) ID() string { return p.id }

// Process implements PostActionProcessor.
func (p *RestoreProcessor) Process(ctx context.Context, action catalog.PostAction, env PostActionEnv) error {
	fields := strings.Fields(action.Args["command"])
	if len(fields) == 0 {
		return errors.New("restore action has no command")
	}

	dir := workingDir(env, action)
	fmt.Fprintf(env.Out, "Restoring %s:\n", dir)
	out, err := env.run(ctx, dir, fields[0], fields[1:]...)
	if len(out) > 0 {
		fmt.Fprintf(env.Out, "%s\n", strings.TrimRight(string(out), "\n"))
	}
	if err != nil {
		fmt.Fprintln(env.Out, "Restore failed.")
		return fmt.Errorf("running %s: %w", fields[0], err)
	}
	fmt.Fprintln(env.Out, "Restore succeeded.")
	return nil
}

// RunScriptProcessor runs args.executable with args.args. An executable
// given as a relative path ("./setup.sh") refers to a generated file, which
// is marked executable first.
type RunScriptProcessor struct {
	id string
}

// ID implements PostActionProcessor.
func (p *RunScriptProcessor) ID() string { return p.id }

// Process implements PostActionProcessor.
func (p *RunScriptProcessor) Process(ctx context.Context, action catalog.PostAction, env PostActionEnv) error {
	exe := action.Args["executable"]
	if exe == "" {
		return errors.New("run-script action has no executable")
	}
	dir := workingDir(env, action)
	if strings.HasPrefix(exe, "./") || strings.HasPrefix(exe, "../") {
		if err := platform.MakeExecutable(filepath.Join(dir, filepath.FromSlash(exe))); err != nil {
			return err
		}
	}
	out, err := env.run(ctx, dir, exe, strings.Fields(action.Args["args"])...)
	if action.Args["redirectStandardOutput"] != "false" && len(out) > 0 {
		fmt.Fprintf(env.Out, "%s\n", strings.TrimRight(string(out), "\n"))
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", exe, err)
	}
	return nil
}

// InstructionsProcessor prints the manual instructions of an action.
type InstructionsProcessor struct {
	id string
}

// ID implements PostActionProcessor.
func (p *InstructionsProcessor) ID() string { return p.id }

// Process implements PostActionProcessor.
func (p *InstructionsProcessor) Process(_ context.Context, action catalog.PostAction, env PostActionEnv) error {
	if action.Description != "" {
		fmt.Fprintf(env.Out, "Description: %s\n", action.Description)
	}
	if len(action.ManualInstructions) > 0 {
		fmt.Fprintln(env.Out, "Manual instructions:")
		for _, text := range action.ManualInstructions {
			fmt.Fprintf(env.Out, "  %s\n", text)
		}
	}
	return nil
}
