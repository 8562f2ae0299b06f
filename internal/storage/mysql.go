package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"atr/internal/config"
	"atr/internal/domain"
)

// SchemaStatement creates one table of the mysql result store.
type SchemaStatement struct {
	Name      string
	Statement string
}

// Schema lists the tables of the mysql result store, in creation order.
var Schema = []SchemaStatement{
	{
		Name: "atr_runs",
		Statement: "CREATE TABLE IF NOT EXISTS `atr_runs` (" +
			"`run_id` CHAR(36) NOT NULL PRIMARY KEY," +
			"`directory` VARCHAR(1024) NOT NULL," +
			"`total_tests` INT NOT NULL," +
			"`passed_tests` INT NOT NULL," +
			"`failed_tests` INT NOT NULL," +
			"`not_run_tests` INT NOT NULL," +
			"`duration_seconds` DOUBLE NOT NULL," +
			"`launch_mode` VARCHAR(32) NOT NULL," +
			"`created_at` DATETIME(3) NOT NULL," +
			"`meta` JSON NOT NULL," +
			"KEY `idx_created_at` (`created_at`)" +
			")",
	},
	{
		Name: "atr_results",
		Statement: "CREATE TABLE IF NOT EXISTS `atr_results` (" +
			"`run_id` CHAR(36) NOT NULL," +
			"`position` INT NOT NULL," +
			"`class_name` VARCHAR(255) NOT NULL," +
			"`test_name` VARCHAR(255) NOT NULL," +
			"`outcome` VARCHAR(16) NOT NULL," +
			"`seconds` DOUBLE NOT NULL," +
			"`kind` VARCHAR(64) NOT NULL DEFAULT ''," +
			"`invocation` VARCHAR(32) NOT NULL DEFAULT ''," +
			"`message` TEXT," +
			"`output` MEDIUMTEXT," +
			"`resolved` BOOLEAN NOT NULL DEFAULT FALSE," +
			"PRIMARY KEY (`run_id`, `position`)" +
			")",
	},
}

// MySQLStorage stores runs in the mysql result store created by the migrate command.
type MySQLStorage struct {
	cfg *config.Config
}

// NewMySQLStorage returns a Storage backed by the config's result store database.
func NewMySQLStorage(cfg *config.Config) *MySQLStorage {
	return &MySQLStorage{cfg: cfg}
}

func (s *MySQLStorage) open() (*sql.DB, error) {
	db, err := sql.Open("mysql", s.cfg.DSN(true))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to result store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping result store: %w", err)
	}
	return db, nil
}

// Save writes the run summary as a new run.
func (s *MySQLStorage) Save(summary domain.RunSummary, meta domain.TestResultsMeta) error {
	return s.SaveOutput(BuildOutput(summary, meta))
}

// SaveOutput writes or replaces the run identified by output.Meta.RunID.
func (s *MySQLStorage) SaveOutput(output *domain.TestResultsOutput) error {
	if output.Meta.RunID == "" {
		return errors.New("run has no id")
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	meta, err := json.Marshal(output.Meta)
	if err != nil {
		return fmt.Errorf("marshal run meta: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, output.Meta.Timestamp)
	if err != nil {
		createdAt = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("REPLACE INTO `atr_runs` "+
		"(`run_id`, `directory`, `total_tests`, `passed_tests`, `failed_tests`, `not_run_tests`, `duration_seconds`, `launch_mode`, `created_at`, `meta`) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		output.Meta.RunID, output.Meta.Directory, output.Meta.TotalTests, output.Meta.PassedTests,
		output.Meta.FailedTests, output.Meta.NotRunTests, output.Meta.DurationSeconds,
		output.Meta.LaunchMode, createdAt.UTC(), string(meta))
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM `atr_results` WHERE `run_id` = ?", output.Meta.RunID); err != nil {
		return fmt.Errorf("clear run results: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO `atr_results` " +
		"(`run_id`, `position`, `class_name`, `test_name`, `outcome`, `seconds`, `kind`, `invocation`, `message`, `output`, `resolved`) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range resultRows(output) {
		_, err := stmt.Exec(output.Meta.RunID, i, row.record.ClassName, row.record.TestName,
			string(row.record.Outcome), row.record.Seconds, string(row.failure.Kind),
			string(row.failure.Invocation), row.failure.Message, row.failure.Output, row.failure.Resolved)
		if err != nil {
			return fmt.Errorf("write result %s:%s: %w", row.record.ClassName, row.record.TestName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Load reads the most recent run.
func (s *MySQLStorage) Load() (*domain.TestResultsOutput, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var rawMeta string
	err = db.QueryRow("SELECT `meta` FROM `atr_runs` ORDER BY `created_at` DESC LIMIT 1").Scan(&rawMeta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("no stored runs")
	}
	if err != nil {
		return nil, fmt.Errorf("read last run: %w", err)
	}

	var meta domain.TestResultsMeta
	if err := json.Unmarshal([]byte(rawMeta), &meta); err != nil {
		return nil, fmt.Errorf("parse run meta: %w", err)
	}

	rows, err := db.Query("SELECT `class_name`, `test_name`, `outcome`, `seconds`, `kind`, `invocation`, "+
		"COALESCE(`message`, ''), COALESCE(`output`, ''), `resolved` "+
		"FROM `atr_results` WHERE `run_id` = ? ORDER BY `position`", meta.RunID)
	if err != nil {
		return nil, fmt.Errorf("read run results: %w", err)
	}
	defer rows.Close()

	var stored []resultRow
	for rows.Next() {
		var (
			row                       resultRow
			outcome, kind, invocation string
		)
		if err := rows.Scan(&row.record.ClassName, &row.record.TestName, &outcome, &row.record.Seconds,
			&kind, &invocation, &row.failure.Message, &row.failure.Output, &row.failure.Resolved); err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}
		row.record.Outcome = domain.Outcome(outcome)
		row.failure.Kind = domain.ErrorKind(kind)
		row.failure.Invocation = domain.Invocation(invocation)
		stored = append(stored, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read run results: %w", err)
	}

	return outputFromRows(meta, stored), nil
}

// resultRow is one row of atr_results: a record plus, for units that did not pass, its
// failure detail.
type resultRow struct {
	record  domain.TestRecord
	failure domain.TestFailure
}

func resultRows(output *domain.TestResultsOutput) []resultRow {
	details := make(map[domain.UnitID]domain.TestFailure, len(output.Details))
	for _, f := range output.Details {
		details[domain.UnitID{ClassName: f.ClassName, TestName: f.TestName}] = f
	}

	rows := make([]resultRow, 0, len(output.Results))
	for _, r := range output.Results {
		rows = append(rows, resultRow{
			record:  r,
			failure: details[domain.UnitID{ClassName: r.ClassName, TestName: r.TestName}],
		})
	}
	return rows
}

func outputFromRows(meta domain.TestResultsMeta, rows []resultRow) *domain.TestResultsOutput {
	output := &domain.TestResultsOutput{
		Meta:    meta,
		Results: make([]domain.TestRecord, 0, len(rows)),
		Details: []domain.TestFailure{},
	}
	for _, row := range rows {
		output.Results = append(output.Results, row.record)
		if row.record.Outcome == domain.Pass {
			continue
		}
		f := row.failure
		f.ClassName = row.record.ClassName
		f.TestName = row.record.TestName
		f.Outcome = row.record.Outcome
		output.Details = append(output.Details, f)
	}
	return output
}
