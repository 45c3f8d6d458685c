package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"scriptlint/internal/diag"
	"scriptlint/internal/diagfmt"
	"scriptlint/internal/observ"
	"scriptlint/internal/record"
	"scriptlint/internal/scope"
	"scriptlint/internal/xref"
)

func TestParseOutputFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    outputFormat
		wantErr bool
	}{
		{"", formatPretty, false},
		{"pretty", formatPretty, false},
		{" JSON ", formatJSON, false},
		{"short", formatShort, false},
		{"xml", "", true},
	}
	for _, tc := range cases {
		got, err := parseOutputFormat(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("parseOutputFormat(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, "ON": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("readUIMode accepted an unknown mode")
	}
	if shouldUseTUI(uiModeOff, formatPretty) || !shouldUseTUI(uiModeOn, formatJSON) {
		t.Error("explicit ui modes ignored")
	}
}

func failingTrigger(name, author string) diag.Result {
	r := diag.NewResult(record.Record{Name: name, UpdatedBy: author}, record.KindTrigger)
	r.Diagnostics = []diag.Diagnostic{
		diag.New(diag.SevError, "no-implicit-globals", 1, 1, "Global variable leak.").WithEnd(1, 5),
	}
	return r
}

func TestWriteCheckReportShortListsCorrelatedTriggers(t *testing.T) {
	hit := failingTrigger("On insert", "jane")
	miss := failingTrigger("Lonely", "bob")
	rep := diagfmt.Report{
		Triggers:     []diag.Result{hit, miss},
		Correlations: []xref.Correlation{{Trigger: hit, Matches: []string{"Foo"}}},
	}

	var buf bytes.Buffer
	if err := writeCheckReport(&buf, rep, outputOptions{format: formatShort}); err != nil {
		t.Fatalf("writeCheckReport: %v", err)
	}
	if !strings.Contains(buf.String(), "On insert") || strings.Contains(buf.String(), "Lonely") {
		t.Fatalf("short output:\n%s", buf.String())
	}
}

func TestWriteCheckReportPrettySummary(t *testing.T) {
	hit := failingTrigger("On insert", "jane")
	rep := diagfmt.Report{
		Triggers:     []diag.Result{hit, diag.NewResult(record.Record{Name: "Clean"}, record.KindTrigger)},
		Correlations: []xref.Correlation{{Trigger: hit, Matches: []string{"Foo", "Bar"}}},
	}

	var buf bytes.Buffer
	if err := writeCheckReport(&buf, rep, outputOptions{format: formatPretty, summary: true}); err != nil {
		t.Fatalf("writeCheckReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"On insert (jane) - Foo,Bar\n",
		"On insert - [no-implicit-globals] Global variable leak. (1:1)\n",
		"1 / 2 (50.00%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestWarnRecordErrors(t *testing.T) {
	broken := diag.NewResult(record.Record{Name: "Broken"}, record.KindLibrary)
	broken.Err = errors.New(`lint library "Broken": boom`)
	dups := []record.Duplicate{{Name: "Util", Count: 2}}

	var buf bytes.Buffer
	warnRecordErrors(&buf, outputOptions{}, dups, []diag.Result{broken}, nil)
	out := buf.String()
	if !strings.Contains(out, `warning: duplicate library name "Util" (2 records)`) {
		t.Errorf("missing duplicate warning:\n%s", out)
	}
	if !strings.Contains(out, `warning: lint library "Broken": boom`) {
		t.Errorf("missing record warning:\n%s", out)
	}

	buf.Reset()
	warnRecordErrors(&buf, outputOptions{quiet: true}, dups, []diag.Result{broken})
	if buf.Len() != 0 {
		t.Errorf("quiet mode printed:\n%s", buf.String())
	}
}

func TestWriteEnvironment(t *testing.T) {
	env := scope.NewBuilder([]string{"Foo", "LongerName"}, []string{"gs"}).Build("Foo", true)

	var buf bytes.Buffer
	if err := writeEnvironment(&buf, "Foo", record.KindLibrary, env); err != nil {
		t.Fatalf("writeEnvironment: %v", err)
	}
	want := "library Foo: 3 globals, 1 writable\n" +
		"  Foo         writable\n" +
		"  LongerName  readonly\n" +
		"  gs          readonly\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintPhaseTimings(t *testing.T) {
	timer := observ.NewTimer()
	if err := timer.Measure("load", func() (string, error) { return "2 library", nil }); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printPhaseTimings(&buf, timer); err != nil {
		t.Fatalf("printPhaseTimings: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "load ") || !strings.HasSuffix(lines[0], " ms (2 library)") {
		t.Errorf("phase line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "total ") {
		t.Errorf("total line = %q", lines[1])
	}

	if err := printPhaseTimings(&buf, nil); err != nil {
		t.Errorf("nil timer: %v", err)
	}
}
