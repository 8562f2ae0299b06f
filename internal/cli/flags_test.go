package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestParseDirectoryArg(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    string
		assignments []string
		wantErr     bool
	}{
		{name: "no arguments", args: nil, expected: ""},
		{name: "directory", args: []string{"directory=./tests"}, expected: "./tests"},
		{name: "case insensitive", args: []string{"Directory=/opt/tests/Samples.yaml"}, expected: "/opt/tests/Samples.yaml"},
		{
			name:        "variables after directory",
			args:        []string{"directory=./t/Samples.yaml", "server=http://localhost:36146"},
			expected:    "./t/Samples.yaml",
			assignments: []string{"server=http://localhost:36146"},
		},
		{
			name:        "variables only",
			args:        []string{"id=1", "token=a=b"},
			expected:    "",
			assignments: []string{"id=1", "token=a=b"},
		},
		{name: "empty value", args: []string{"directory="}, wantErr: true},
		{name: "bare path", args: []string{"./tests"}, wantErr: true},
		{name: "twice", args: []string{"directory=a", "directory=b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, assignments, err := ParseDirectoryArg(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected an error, got %q", dir)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dir != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, dir)
			}
			if !reflect.DeepEqual(assignments, tt.assignments) {
				t.Errorf("expected assignments %v, got %v", tt.assignments, assignments)
			}
		})
	}
}

func TestFlags_ToConfigFlags(t *testing.T) {
	f := Flags{
		Directory:  "tests",
		Vars:       []string{"server=http://localhost"},
		Timeout:    time.Second,
		TimeoutSet: true,
		LaunchMode: "concurrent",
		FailFast:   true,
		ArgVars:    []string{"id=1"},
	}

	cf := f.ToConfigFlags()
	if cf.Directory != "tests" || cf.LaunchMode != "concurrent" || !cf.FailFast || !cf.TimeoutSet || cf.Timeout != time.Second {
		t.Errorf("flags not copied: %+v", cf)
	}
	if len(cf.ArgVars) != 1 || cf.ArgVars[0] != "id=1" {
		t.Errorf("argument vars not copied: %v", cf.ArgVars)
	}
	if len(cf.Vars) != 1 || cf.Vars[0] != "server=http://localhost" {
		t.Errorf("vars not copied: %v", cf.Vars)
	}
}
