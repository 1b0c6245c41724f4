package scaffold

import (
	"fmt"
	"io"

	"github.com/aymanbagabas/go-udiff"
)

// PrintDryRun writes the actions a dry run would have taken. With diff set,
// overwrites are followed by a unified diff of the change.
func PrintDryRun(w io.Writer, res *Result, diff bool) {
	fmt.Fprintln(w, "File actions would have been taken:")
	for _, a := range res.Actions {
		fmt.Fprintf(w, "  %-12s./%s\n", a.Action, a.Path)
		if diff && a.Action == ActionOverwrite {
			fmt.Fprint(w, udiff.Unified("a/"+a.Path, "b/"+a.Path, string(a.Existing), string(a.file.Content)))
		}
	}
}

// PrintOverwrite writes the overwrite refusal for err.
func PrintOverwrite(w io.Writer, err *OverwriteError) {
	fmt.Fprintln(w, "Creating this template will make changes to existing files:")
	for _, p := range err.Paths {
		fmt.Fprintf(w, "  %-12s./%s\n", ActionOverwrite, p)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rerun the command and pass --force to accept and create.")
}

// PrintWritten lists the files that were written before an interruption.
func PrintWritten(w io.Writer, res *Result) {
	if res == nil || len(res.Written) == 0 {
		fmt.Fprintln(w, "No files were written.")
		return
	}
	fmt.Fprintln(w, "The following files were written before the operation stopped:")
	for _, p := range res.Written {
		fmt.Fprintf(w, "  ./%s\n", p)
	}
}
