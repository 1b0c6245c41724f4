package scaffold

import (
	"context"
	"fmt"
	"io"

	"github.com/newt-labs/newt/internal/component"
	"github.com/newt-labs/newt/internal/output"
)

// PostActionOptions configures RunPostActions.
type PostActionOptions struct {
	Components *component.Set
	// NoRestore skips restore actions.
	NoRestore bool
	Out       io.Writer
	Err       io.Writer
	Run       component.CommandRunner
}

// RunPostActions runs the template's post actions against the created
// output. A failing action is reported as a warning unless it declares
// continueOnError: false, in which case the remaining actions are skipped and
// the error is returned.
func RunPostActions(ctx context.Context, res *Result, opts PostActionOptions) error {
	set := opts.Components
	if set == nil {
		set = component.NewSet(nil)
	}
	env := component.PostActionEnv{OutputDir: res.OutputDir, Out: opts.Out, Run: opts.Run}

	for _, action := range res.Template.PostActions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.NoRestore && action.ActionID == component.ActionRestore {
			output.Debug("skipping restore", "template", res.Template.Identity)
			continue
		}

		proc, ok := set.Processor(action.ActionID)
		var err error
		if !ok {
			err = fmt.Errorf("no processor for post action %q", action.ActionID)
		} else {
			err = proc.Process(ctx, action, env)
		}
		if err == nil {
			continue
		}
		if action.ContinueOnError != nil && !*action.ContinueOnError {
			return fmt.Errorf("post action %q failed: %w", action.ActionID, err)
		}
		fmt.Fprintf(opts.Err, "Warning: post action %q failed: %v\n", action.ActionID, err)
	}
	return nil
}
