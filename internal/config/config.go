package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"atr/internal/variables"
)

// Config holds all configuration for the application
type Config struct {
	// Test settings
	TestDirectory string
	PathsToIgnore []string

	// Execution settings
	LaunchMode  string
	UnitTimeout time.Duration

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	StorageDriver  string

	// Result store connection, filled from the environment
	DB DatabaseSettings

	// Command flags
	Flags Flags
}

// DatabaseSettings locate the mysql result store
type DatabaseSettings struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
}

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
	ArgVars       []string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		TestDirectory:  executableDir(),
		LaunchMode:     DefaultLaunchMode,
		UnitTimeout:    DefaultUnitTimeout,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		StorageDriver:  DefaultStorageDriver,
		DB: DatabaseSettings{
			Host:     DefaultDBHost,
			Port:     DefaultDBPort,
			Username: DefaultDBUsername,
			Name:     DefaultDBName,
		},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Apply(flags)
	return cfg
}

// Apply stores flags and applies their overrides
func (c *Config) Apply(flags Flags) {
	c.Flags = flags

	if flags.LaunchMode != "" {
		c.LaunchMode = flags.LaunchMode
	}
	if flags.TimeoutSet {
		c.UnitTimeout = flags.Timeout
	}
	if flags.Storage != "" {
		c.StorageDriver = flags.Storage
	}
}

// GetDirectory returns the directory to scan, using the directory argument if provided.
// The result may name a file, in which case its directory is scanned for that file only.
func (c *Config) GetDirectory() string {
	if c.Flags.Directory != "" {
		return c.Flags.Directory
	}
	return c.TestDirectory
}

// GetOutputPath returns the full path to the output JSON file. Resolves to an absolute path
// so run and failures always read/write the same file.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetDatabaseName returns the database name of the result store
func (c *Config) GetDatabaseName() string {
	return c.DB.Name
}

// LoadEnv loads the .env file of the test directory, if any, and reads the result store
// connection settings from the environment. Variables already set in the environment win.
func (c *Config) LoadEnv() error {
	dir := c.GetDirectory()
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	envPath := filepath.Join(dir, DefaultEnvFile)
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	setFromEnv(&c.DB.Host, "DB_HOST")
	setFromEnv(&c.DB.Port, "DB_PORT")
	setFromEnv(&c.DB.Username, "DB_USERNAME")
	setFromEnv(&c.DB.Password, "DB_PASSWORD")
	setFromEnv(&c.DB.Name, "DB_DATABASE")
	return nil
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DSN returns the mysql data source name of the result store. Without withDatabase the DSN
// connects to the server only, as needed to create the database.
func (c *Config) DSN(withDatabase bool) string {
	mc := mysql.NewConfig()
	mc.User = c.DB.Username
	mc.Passwd = c.DB.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DB.Host, c.DB.Port)
	mc.ParseTime = true
	if withDatabase {
		mc.DBName = c.DB.Name
	}
	return mc.FormatDSN()
}

// Variables builds the variable context of a run from the variable files, the name=value
// positional arguments and the --var flags, each overriding the ones before it.
func (c *Config) Variables() (variables.Context, error) {
	fromFiles, err := variables.FromFiles(c.Flags.VarsFiles...)
	if err != nil {
		return variables.Context{}, err
	}
	fromArgs, err := variables.ParseAssignments(c.Flags.ArgVars)
	if err != nil {
		return variables.Context{}, err
	}
	fromFlags, err := variables.ParseAssignments(c.Flags.Vars)
	if err != nil {
		return variables.Context{}, err
	}
	return fromFiles.Merge(fromArgs).Merge(fromFlags), nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
