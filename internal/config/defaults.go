package config

import "time"

const (
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory, relative to the working directory
	DefaultOutputJSONDir = ".atr"
	// DefaultLaunchMode is the default way of launching the invocations of a unit
	DefaultLaunchMode = "sequential"
	// DefaultUnitTimeout is the default time limit of a single unit
	DefaultUnitTimeout = 2 * time.Minute
	// DefaultStorageDriver is the default result store
	DefaultStorageDriver = "json"
	// DefaultEnvFile is loaded from the test directory when present
	DefaultEnvFile = ".env"
)

// Database defaults for the mysql result store
const (
	DefaultDBHost     = "127.0.0.1"
	DefaultDBPort     = "3306"
	DefaultDBUsername = "root"
	DefaultDBName     = "atr_results"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for modules
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"bin",
	"obj",
	"testdata",
}
