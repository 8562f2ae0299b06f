// Package variables holds the run-scoped substitution table used to resolve templated
// endpoint URIs.
package variables

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"atr/internal/domain"

	"github.com/joho/godotenv"
)

var placeholderPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Context maps variable names to values. It is never modified after construction, so it
// can be shared between concurrently running invocations without locking.
type Context struct {
	values map[string]string
}

// New creates a Context holding a copy of values.
func New(values map[string]string) Context {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Context{values: copied}
}

// Empty returns a Context with no variables.
func Empty() Context {
	return Context{}
}

// FromFiles reads dotenv-style files in order. Later files override earlier ones.
func FromFiles(paths ...string) (Context, error) {
	if len(paths) == 0 {
		return Empty(), nil
	}
	values, err := godotenv.Read(paths...)
	if err != nil {
		return Context{}, fmt.Errorf("read variable files: %w", err)
	}
	return Context{values: values}, nil
}

// ParseAssignments parses name=value pairs as given on the command line.
func ParseAssignments(assignments []string) (Context, error) {
	values := make(map[string]string, len(assignments))
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return Context{}, fmt.Errorf("invalid variable assignment %q, expected name=value", a)
		}
		values[name] = value
	}
	return Context{values: values}, nil
}

// Merge returns a new Context with the variables of c overridden by those of other.
func (c Context) Merge(other Context) Context {
	merged := make(map[string]string, len(c.values)+len(other.values))
	for k, v := range c.values {
		merged[k] = v
	}
	for k, v := range other.values {
		merged[k] = v
	}
	return Context{values: merged}
}

// Lookup returns the value of a variable.
func (c Context) Lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Len returns the number of variables.
func (c Context) Len() int {
	return len(c.values)
}

// Names returns the variable names, sorted.
func (c Context) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve replaces every ${name} placeholder in template with the value of the variable.
// The template is scanned once, left to right. The first placeholder without a matching
// variable stops the scan with a *domain.ConfigurationError.
func (c Context) Resolve(template string) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		name := template[m[2]:m[3]]
		value, ok := c.values[name]
		if !ok {
			return "", &domain.ConfigurationError{Variable: name}
		}
		b.WriteString(template[last:m[0]])
		b.WriteString(value)
		last = m[1]
	}
	b.WriteString(template[last:])
	return b.String(), nil
}
