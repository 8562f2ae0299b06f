package domain

// MigrationResult represents the result of one schema step of the result store
type MigrationResult struct {
	Name    string
	Created bool
	Error   error
}
