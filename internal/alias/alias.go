// Package alias stores named argument vectors for the new command and
// expands them when a command line starts with an alias name.
package alias

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/newt-labs/newt/internal/userdata"
	"go.yaml.in/yaml/v3"
)

// ErrNotFound is returned when removing an alias that does not exist.
var ErrNotFound = errors.New("alias not found")

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type aliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// Store is the alias file loaded in memory.
type Store struct {
	path    string
	aliases map[string][]string
}

// Load reads the alias file at path. A missing file is an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path, aliases: make(map[string][]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for name, args := range f.Aliases {
		s.aliases[name] = args
	}
	return s, nil
}

// LoadDefault reads the alias file in the user data root.
func LoadDefault() (*Store, error) {
	path, err := userdata.GetAliasesFile()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Add records name as args, replacing any previous value.
func (s *Store) Add(name string, args []string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid alias name %q", name)
	}
	if len(args) == 0 {
		return fmt.Errorf("alias %q has no value", name)
	}
	s.aliases[name] = append([]string(nil), args...)
	return nil
}

// Remove deletes name.
func (s *Store) Remove(name string) error {
	if _, ok := s.aliases[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	delete(s.aliases, name)
	return nil
}

// Get returns the argument vector stored under name.
func (s *Store) Get(name string) ([]string, bool) {
	args, ok := s.aliases[name]
	return args, ok
}

// Names returns the alias names in order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand replaces a leading alias in args with its value. Aliases are not
// expanded recursively.
func (s *Store) Expand(args []string) ([]string, bool) {
	if len(args) == 0 {
		return args, false
	}
	value, ok := s.aliases[args[0]]
	if !ok {
		return args, false
	}
	out := make([]string, 0, len(value)+len(args)-1)
	out = append(out, value...)
	out = append(out, args[1:]...)
	return out, true
}

// Save writes the store back to its file.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.path), err)
	}
	data, err := yaml.Marshal(aliasFile{Aliases: s.aliases})
	if err != nil {
		return fmt.Errorf("marshaling aliases: %w", err)
	}
	if err := os.WriteFile(s.path, data, userdata.FilePermNormal); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Format joins args for display.
func Format(args []string) string {
	return strings.Join(args, " ")
}
