package cli

import (
	"strings"

	"github.com/newt-labs/newt/internal/resolve"
	"github.com/spf13/pflag"
)

// newOptions are the core options of the new command.
type newOptions struct {
	name          string
	output        string
	language      string
	typ           string
	tags          []string
	alias         string
	force         bool
	dryRun        bool
	diff          bool
	noRestore     bool
	quiet         bool
	noUpdateCheck bool
	help          bool
	verbose       bool

	// shortName is the positional template short name.
	shortName string
	// templateArgs are the options meant for the template, in order.
	templateArgs []resolve.Arg
	// effective is the argument vector without --alias, as recorded by
	// aliases.
	effective []string
}

func newFlagSet(o *newOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("new", pflag.ContinueOnError)
	fs.StringVarP(&o.name, "name", "n", "", "Name for the created output")
	fs.StringVarP(&o.output, "output", "o", "", "Location to place the generated output")
	fs.StringVar(&o.language, "language", "", "Template language to instantiate")
	fs.StringVar(&o.typ, "type", "", "Template type to instantiate (project, item, solution)")
	fs.StringArrayVar(&o.tags, "tag", nil, "Only consider templates with this classification (repeatable)")
	fs.StringVar(&o.alias, "alias", "", "Save the command as an alias instead of creating")
	fs.BoolVar(&o.force, "force", false, "Overwrite existing files")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Show the actions that would be taken without writing")
	fs.BoolVar(&o.diff, "diff", false, "With --dry-run, show a diff for every overwritten file")
	fs.BoolVar(&o.noRestore, "no-restore", false, "Skip restore post actions")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "Hide post-action output")
	fs.BoolVar(&o.noUpdateCheck, "no-update-check", false, "Skip the template package update check")
	fs.BoolVarP(&o.help, "help", "h", false, "Show help for the command or the template")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	fs.SetInterspersed(true)
	return fs
}

// parseNewArgs separates the core options from template options. Anything
// that looks like an option but is not a core option is passed to the
// template, taking the next argument as its value unless that argument is
// itself an option or would be the template short name.
func parseNewArgs(args []string) (*newOptions, error) {
	o := &newOptions{}
	fs := newFlagSet(o)

	var core, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			positional = append(positional, a)
			continue
		}

		body, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		var f *pflag.Flag
		if strings.HasPrefix(a, "--") {
			f = fs.Lookup(body)
		} else if body != "" {
			f = fs.ShorthandLookup(body[:1])
		}

		if f != nil {
			core = append(core, a)
			attached := hasValue || (!strings.HasPrefix(a, "--") && len(body) > 1)
			if f.NoOptDefVal == "" && !attached && i+1 < len(args) {
				core = append(core, args[i+1])
				i++
			}
			continue
		}

		flag := a
		if hasValue {
			flag = a[:strings.Index(a, "=")]
			o.templateArgs = append(o.templateArgs, resolve.NewArg(flag, value, true))
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") && len(positional) > 0 {
			o.templateArgs = append(o.templateArgs, resolve.NewArg(flag, args[i+1], true))
			i++
			continue
		}
		o.templateArgs = append(o.templateArgs, resolve.NewArg(flag, "", false))
	}

	if err := fs.Parse(core); err != nil {
		return nil, err
	}
	positional = append(positional, fs.Args()...)
	if len(positional) > 0 {
		o.shortName = positional[0]
	}
	if len(positional) > 1 {
		for _, extra := range positional[1:] {
			o.templateArgs = append(o.templateArgs, resolve.Arg{Flag: extra, Name: extra})
		}
	}
	o.effective = withoutAlias(args)
	return o, nil
}

// withoutAlias drops --alias and its value from args.
func withoutAlias(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--alias":
			i++
		case strings.HasPrefix(args[i], "--alias="):
		default:
			out = append(out, args[i])
		}
	}
	return out
}
