package cli

import (
	"fmt"
	"strings"
	"time"

	"atr/internal/config"
)

// DirectoryArgPrefix introduces the positional directory argument, as in "directory=./tests".
const DirectoryArgPrefix = "directory="

// Flags holds command-line flags
type Flags struct {
	Directory     string
	Filter        string
	Vars          []string
	VarsFiles     []string
	Timeout       time.Duration
	TimeoutSet    bool
	LaunchMode    string
	AllRegistered bool
	Storage       string
	Progress      bool
	Debug         bool
	OpenFailures  bool
	FailFast      bool
	ArgVars       []string // name=value positional arguments
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Directory:     f.Directory,
		Filter:        f.Filter,
		Vars:          f.Vars,
		VarsFiles:     f.VarsFiles,
		Timeout:       f.Timeout,
		TimeoutSet:    f.TimeoutSet,
		LaunchMode:    f.LaunchMode,
		AllRegistered: f.AllRegistered,
		Storage:       f.Storage,
		Progress:      f.Progress,
		Debug:         f.Debug,
		OpenFailures:  f.OpenFailures,
		FailFast:      f.FailFast,
		ArgVars:       f.ArgVars,
	}
}

// ParseDirectoryArg splits positional arguments into the path of a "directory=<path>"
// argument ("" when there is none) and the remaining name=value variable assignments.
// An argument without "=" is an error.
func ParseDirectoryArg(args []string) (string, []string, error) {
	var dir string
	var assignments []string
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return "", nil, fmt.Errorf("unexpected argument %q (expected %s<path> or name=value)", arg, DirectoryArgPrefix)
		}
		if !strings.EqualFold(name+"=", DirectoryArgPrefix) {
			assignments = append(assignments, arg)
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", nil, fmt.Errorf("%s needs a path", DirectoryArgPrefix)
		}
		if dir != "" {
			return "", nil, fmt.Errorf("%s given more than once", DirectoryArgPrefix)
		}
		dir = value
	}
	return dir, assignments, nil
}
