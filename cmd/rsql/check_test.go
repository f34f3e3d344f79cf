package main

import (
	"encoding/json"
	"strings"
	"testing"

	"mercator-hq/rsql/pkg/cli"
)

const queriesFile = `# saved searches
name=="John Smith";age>30

tags=in=(a,b)
status==open;
age=gtt=30
`

func resetCheckFlags() {
	checkFlags.format = "text"
	checkFlags.progress = false
	checkFlags.operators = ""
	checkFlags.keywords = ""
}

func TestCheckQueriesText(t *testing.T) {
	resetCheckFlags()
	path := writeFile(t, "queries.txt", queriesFile)

	stdout, _, err := run(t, checkQueries, "", path)
	if code := cli.ExitCode(err); code != cli.ExitInvalidQuery {
		t.Fatalf("ExitCode() = %d, want %d (err = %v)", code, cli.ExitInvalidQuery, err)
	}

	for _, want := range []string{
		path + ":5:14: syntax error",
		path + ":6:4: unknown_operator error",
		"Did you mean '=gt='?",
		"2 of 4 queries invalid",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestCheckQueriesJSON(t *testing.T) {
	resetCheckFlags()
	checkFlags.format = "json"

	stdout, _, err := run(t, checkQueries, queriesFile)
	if cli.ExitCode(err) != cli.ExitInvalidQuery {
		t.Fatalf("checkQueries() error = %v, want invalid query", err)
	}

	var report CheckReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if report.File != "<stdin>" || report.Total != 4 || report.Invalid != 2 {
		t.Errorf("report = %s %d/%d, want <stdin> 2/4", report.File, report.Invalid, report.Total)
	}

	first := report.Results[0]
	if first.Line != 2 || !first.Valid || first.Canonical != `name=="John Smith";age=gt=30` {
		t.Errorf("Results[0] = %+v", first)
	}

	last := report.Results[3]
	if last.Valid || last.Error == nil || last.Error.Type != "unknown_operator" || last.Error.Offset != 3 {
		t.Errorf("Results[3] = %+v", last)
	}
}

func TestCheckQueriesValid(t *testing.T) {
	resetCheckFlags()
	checkFlags.progress = true

	stdout, stderr, err := run(t, checkQueries, "a==1\nb=out=(x,y)\n", "-")
	if err != nil {
		t.Fatalf("checkQueries() error = %v", err)
	}
	if !strings.Contains(stdout, "✓ 2 queries valid") {
		t.Errorf("output = %q", stdout)
	}
	if !strings.Contains(stderr, "Checking:") {
		t.Errorf("stderr = %q, want a progress bar", stderr)
	}
}

func TestCheckQueriesErrors(t *testing.T) {
	resetCheckFlags()
	if _, _, err := run(t, checkQueries, "", "testdata/nonexistent.txt"); cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("checkQueries() with missing file = %v, want failure", err)
	}

	resetCheckFlags()
	checkFlags.format = "csv"
	if _, _, err := run(t, checkQueries, "a==1"); err == nil {
		t.Error("checkQueries() with unknown format should return error")
	}
}
