package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"atr/internal/catalog"
	"atr/internal/config"
	"atr/internal/domain"
	"atr/internal/restcall"
	"atr/internal/summary"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatter_PrintReport(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(config.New(), &buf)

	s := summary.Aggregate([]domain.ExecutionResult{
		{ClassName: "SamplesTests", TestName: "CallingGetAllEndpointReturnsOk", Outcome: domain.Pass},
		{
			ClassName: "SamplesTests",
			TestName:  "CallingGetAllEndPointReturnsOkButFailAnyway",
			Outcome:   domain.Fail,
			Error:     domain.NewUnitError(domain.InvocationTest, errors.New("failed anyway")),
		},
		{ClassName: "Broken", TestName: "Never", Outcome: domain.NotRun},
	})
	f.PrintReport(s)

	expected := strings.Join([]string{
		"3 tests run",
		"1 tests failed",
		"1 tests passed",
		"1 tests not run",
		"SamplesTests:CallingGetAllEndpointReturnsOk: Pass",
		"SamplesTests:CallingGetAllEndPointReturnsOkButFailAnyway: Fail",
		"CallingGetAllEndPointReturnsOkButFailAnyway:failed anyway",
		"Broken:Never: NotRun",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestFormatter_PrintUnitOutput(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(config.New(), &buf)

	f.PrintUnitOutput(summary.Aggregate([]domain.ExecutionResult{
		{ClassName: "A", TestName: "Passes", Outcome: domain.Pass, Output: "hidden\n"},
		{ClassName: "A", TestName: "Fails", Outcome: domain.Fail, Output: "GET http://x\nGET http://x returned HTTP 500 (0 bytes)\n"},
	}))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "A:Fails output:")
	assert.Contains(t, out, "  GET http://x returned HTTP 500 (0 bytes)\n")
}

func TestFormatter_PrintCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Load(config.Flags{Directory: dir})

	var buf bytes.Buffer
	f := NewFormatterTo(cfg, &buf)

	noop := func(context.Context, interface{}, *restcall.Client) error { return nil }
	cat := catalog.New(
		catalog.ClassDescriptor{
			Module:  filepath.Join(dir, "samples.yaml"),
			Type:    catalog.TypeHandle{Name: "SamplesTests"},
			Tests:   []catalog.MethodHandle{{Name: "First", Invoke: noop}, {Name: "Second", Invoke: noop}},
			PreTest: &catalog.MethodHandle{Name: "Setup", Invoke: noop},
		},
		catalog.ClassDescriptor{Module: "registry", Type: catalog.TypeHandle{Name: "Empty"}},
	)

	failed := map[domain.UnitID]struct{}{{ClassName: "SamplesTests", TestName: "Second"}: {}}
	f.PrintCatalog(cat, failed)

	expected := strings.Join([]string{
		"Found 2 test(s) in 2 class(es):",
		"",
		"├── SamplesTests (samples.yaml)",
		"│   ├── pre-test: Setup",
		"│   ├── First",
		"│   └── Second [F]",
		"└── Empty (registry)",
		"    └── (no tests found)",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestFormatter_PrintMetaStats(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(config.New(), &buf)

	f.PrintMetaStats(&domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{TotalTests: 2, PassedTests: 1, FailedTests: 1, LaunchMode: "sequential"},
		Details: []domain.TestFailure{
			{ClassName: "B", TestName: "Fails", Outcome: domain.Fail},
			{ClassName: "A", TestName: "Also", Outcome: domain.Fail, Resolved: true},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "│ Failed Tests                    │ 1")
	assert.Contains(t, out, "✗ 1 test(s) failed, 0 test(s) not run")
	assert.Less(t, strings.Index(out, "├── A"), strings.Index(out, "└── B"))
	assert.Contains(t, out, "│   └── Also (resolved)")
}

func TestFormatter_PrintWarnings(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(config.New(), &buf)

	f.PrintWarnings([]error{&domain.ModuleLoadError{Module: "x.yaml", Type: "Missing", Err: errors.New("not registered")}})
	assert.Equal(t, "warning: module x.yaml: type Missing: not registered\n", buf.String())
}

func TestFormatter_PrintResultsTable(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(config.New(), &buf)

	f.PrintResultsTable(&domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{TotalTests: 2, PassedTests: 1, FailedTests: 1, Duration: "1.5s", DurationSeconds: 1.5},
		Results: []domain.TestRecord{
			{ClassName: "SamplesTests", TestName: "CallingPutReturnsOk", Outcome: domain.Pass, Seconds: 0.25},
			{ClassName: "SamplesTests", TestName: "CallingDeleteReturnsOk", Outcome: domain.Fail, Seconds: 1.25},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Test Results (1.5s)")
	assert.Contains(t, out, "CallingPutReturnsOk")
	assert.Contains(t, out, "CallingDeleteReturnsOk")
	assert.Contains(t, out, "1.250")
	assert.Contains(t, out, "1 passed, 1 failed, 0 not run")
}
