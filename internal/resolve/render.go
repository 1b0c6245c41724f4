package resolve

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/newt-labs/newt/internal/branding"
	"github.com/newt-labs/newt/internal/output"
)

// Render writes the user-facing diagnostic for a failed resolution. It writes
// nothing for Unambiguous.
func Render(w io.Writer, o Outcome) {
	switch o.Kind {
	case NoMatch:
		renderNoMatch(w, o)
	case AmbiguousGroup:
		fmt.Fprintln(w, "Unable to resolve the template to instantiate, these templates matched your input:")
		fmt.Fprintln(w)
		fmt.Fprintln(w, candidateTable(o.Candidates))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Re-run the command specifying the language to use with --language option.")
	case AmbiguousPrecedence:
		if o.Variant == ExactShortName {
			fmt.Fprintln(w, "Unable to resolve the template to instantiate, these templates matched your input:")
			fmt.Fprintln(w)
			fmt.Fprintln(w, candidateTable(o.Candidates))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Re-run the command using the template's exact short name.")
			return
		}
		fmt.Fprintln(w, "Unable to resolve the template to instantiate, the following installed templates are conflicting:")
		fmt.Fprintln(w)
		fmt.Fprintln(w, conflictTable(o.Candidates))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Uninstall the templates or the packages to keep only one template from the list.")
	case InvalidParameters:
		renderInvalid(w, o)
	}
}

func renderNoMatch(w io.Writer, o Outcome) {
	query := "'" + o.Query.Name + "'"
	if f := o.Query.Filters(); f != "" {
		query += ", " + f
	}
	fmt.Fprintf(w, "No templates found matching: %s.\n", query)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "To list installed templates, run:")
	fmt.Fprintf(w, "   %s list\n", branding.CLIName())
	fmt.Fprintln(w, "To search for the templates on the package feed, run:")
	fmt.Fprintf(w, "   %s search %s\n", branding.CLIName(), o.Query.Name)
}

func renderInvalid(w io.Writer, o Outcome) {
	fmt.Fprintln(w, "Error: Invalid option(s):")
	for _, p := range o.Invalid {
		switch p.Status {
		case ParamUnknown:
			fmt.Fprintf(w, "   '%s' is not a valid option\n", p.Arg.Flag)
		case ParamAmbiguousValue:
			fmt.Fprintf(w, "   The value '%s' is ambiguous for option %s. The possible values are:\n", p.Arg.Value, p.Arg.Flag)
			writeChoices(w, p)
		case ParamInvalidValue:
			if !p.Parameter.IsChoice() {
				fmt.Fprintf(w, "   '%s' is not a valid value for %s.\n", p.Arg.Value, p.Arg.Flag)
				continue
			}
			fmt.Fprintf(w, "   '%s' is not a valid value for %s. The possible values are:\n", p.Arg.Value, p.Arg.Flag)
			writeChoices(w, p)
		}
	}
	fmt.Fprintf(w, "For more information, run '%s %s --help'.\n", branding.NewCommand(), o.Query.Name)
}

func writeChoices(w io.Writer, p ParamMatch) {
	for _, c := range p.Choices {
		fmt.Fprintf(w, "      %-15s - %s\n", c.Value, c.Description)
	}
}

func candidateTable(ms []MatchInfo) string {
	t := output.NewTable("Template Name", "Short Name", "Language", "Type").Plain()
	for _, m := range ms {
		t.Row(m.Template.Name, strings.Join(m.Template.ShortNames, ","), m.Template.Language, m.Template.Type)
	}
	return t.String()
}

func conflictTable(ms []MatchInfo) string {
	t := output.NewTable("Template Identity", "Template Name", "Short Name", "Language", "Precedence", "Author", "Source").Plain()
	for _, m := range ms {
		t.Row(
			m.Template.Identity,
			m.Template.Name,
			strings.Join(m.Template.ShortNames, ","),
			m.Template.Language,
			strconv.Itoa(m.Template.Precedence),
			m.Template.Author,
			m.Template.SourceURI,
		)
	}
	return t.String()
}
