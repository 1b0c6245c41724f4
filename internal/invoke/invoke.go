// Package invoke runs one template instantiation and its package update
// check side by side, joins both, and reports the combined result. Output is
// produced only after both units finish, so an update notice always precedes
// the creation summary.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/newt-labs/newt/internal/catalog"
	"github.com/newt-labs/newt/internal/output"
	"github.com/newt-labs/newt/internal/scaffold"
	"github.com/newt-labs/newt/internal/updater"
)

// CreateFunc instantiates a template.
type CreateFunc func(ctx context.Context, req scaffold.Request) (*scaffold.Result, error)

// UpdateChecker reports whether a newer version of a package exists.
type UpdateChecker interface {
	CheckUpdate(ctx context.Context, ref catalog.PackageRef) (*updater.UpdateInfo, error)
}

// Coordinator combines instantiation and the update check.
type Coordinator struct {
	// Create defaults to scaffold.Create.
	Create CreateFunc
	// Checker may be nil to skip update checks.
	Checker UpdateChecker
}

// Outcome is the joined result of one invocation.
type Outcome struct {
	Result *scaffold.Result
	// Err is the instantiation error; it alone decides the exit status.
	Err error
	// Update is nil when no notice should be shown.
	Update *updater.UpdateInfo
}

// Cancelled reports whether the invocation was interrupted.
func (o Outcome) Cancelled() bool {
	return errors.Is(o.Err, context.Canceled) || errors.Is(o.Err, context.DeadlineExceeded)
}

type createDone struct {
	res *scaffold.Result
	err error
}

type checkDone struct {
	info *updater.UpdateInfo
	err  error
}

// Coordinate starts instantiation and the update check together and waits
// for both. Update-check failures are logged and dropped; the update result
// is discarded when instantiation fails or runs as a dry run.
func (c *Coordinator) Coordinate(ctx context.Context, req scaffold.Request) Outcome {
	create := c.Create
	if create == nil {
		create = scaffold.Create
	}

	created := make(chan createDone, 1)
	checked := make(chan checkDone, 1)

	go func() {
		res, err := create(ctx, req)
		created <- createDone{res: res, err: err}
	}()
	go func() {
		checked <- c.check(ctx, req)
	}()

	cd := <-created
	ud := <-checked

	out := Outcome{Result: cd.res, Err: cd.err}
	if ud.err != nil {
		output.Debug("update check failed", "package", req.Template.Package.ID, "err", ud.err)
	}
	if cd.err == nil && ud.err == nil {
		out.Update = ud.info
	}
	return out
}

// check runs the update check. A panicking checker is reported as a failed
// check.
func (c *Coordinator) check(ctx context.Context, req scaffold.Request) (done checkDone) {
	if c.Checker == nil || req.DryRun {
		return checkDone{}
	}
	defer func() {
		if r := recover(); r != nil {
			done = checkDone{err: fmt.Errorf("update check panicked: %v", r)}
		}
	}()
	info, err := c.Checker.CheckUpdate(ctx, req.Template.Package)
	return checkDone{info: info, err: err}
}

// Report writes the user-facing summary of a successful or interrupted
// outcome. Other failures are left to the caller.
func Report(w io.Writer, o Outcome) {
	switch {
	case o.Cancelled():
		fmt.Fprintln(w, "Operation cancelled.")
		scaffold.PrintWritten(w, o.Result)
	case o.Err != nil:
	default:
		if o.Update != nil {
			updater.PrintNotice(w, o.Update)
		}
		fmt.Fprintf(w, "The template \"%s\" was created successfully.\n", o.Result.Template.Name)
	}
}
