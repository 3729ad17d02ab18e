package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReadCommand(t *testing.T) {
	path := writeTemp(t, "in.log", "Level::Message\nINFO::started\nWARN::slow\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "all records",
			args: []string{"read", path, "--dialect", "unix", "-d", "::"},
			want: `{"Level":"INFO","Message":"started"}` + "\n" + `{"Level":"WARN","Message":"slow"}` + "\n",
		},
		{
			name: "filtered",
			args: []string{"read", path, "--line-by-line", "-d", "::", "--where", "Level=WARN"},
			want: `{"Level":"WARN","Message":"slow"}` + "\n",
		},
		{
			name: "ignored column",
			args: []string{"read", path, "--dialect", "unix", "-d", "::", "--ignore", "Level"},
			want: `{"Message":"started"}` + "\n" + `{"Message":"slow"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadCommandErrors(t *testing.T) {
	path := writeTemp(t, "in.csv", "a\n1\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"read", filepath.Join(t.TempDir(), "none.csv")}},
		{"unknown dialect", []string{"read", path, "--dialect", "nope"}},
		{"bad where", []string{"read", path, "--where", "novalue"}},
		{"bad quote", []string{"read", path, "--quote", "ab"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("Execute() returned nil error")
			}
		})
	}
}

func TestStreamCommand(t *testing.T) {
	path := writeTemp(t, "in.csv", "a,b\n1,2\n3,4\n5,6\n")

	got, err := run(t, "stream", path, "--limit", "2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := `{"a":"1","b":"2"}` + "\n" + `{"a":"3","b":"4"}` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriteCommand(t *testing.T) {
	in := writeTemp(t, "in.tsv", "a\tb\tc\n1\t2\t3\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	if _, err := run(t, "write", in, out, "--dialect", "excel_tab", "--line-terminator", `\n`, "--ignore", "b", "--to", "unix"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got, want := string(data), "a,c\n1,3\n"; got != want {
		t.Errorf("output file = %q, want %q", got, want)
	}
}

func TestDialectsCommand(t *testing.T) {
	conf := writeTemp(t, "c.yaml", "use: pipes\ndialects:\n  pipes:\n    delimiter: \"|\"\n")

	got, err := run(t, "dialects", "--config", conf)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, name := range []string{"excel", "excel_tab", "unix", "pipes"} {
		if !strings.Contains(got, name) {
			t.Errorf("output does not list %s:\n%s", name, got)
		}
	}
	if !strings.Contains(got, `*  pipes`) {
		t.Errorf("output does not mark pipes as current:\n%s", got)
	}
}

func TestSniffCommand(t *testing.T) {
	path := writeTemp(t, "in.txt", "name;age\r\nann;31\r\n")

	got, err := run(t, "sniff", path, "--name", "people")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, line := range []string{"use: people", `delimiter: ";"`, `lineTerminator: "\r\n"`, "header: true"} {
		if !strings.Contains(got, line) {
			t.Errorf("output missing %q:\n%s", line, got)
		}
	}

	// The printed snippet is a valid configuration.
	conf := writeTemp(t, "sniffed.yaml", got)
	out, err := run(t, "read", path, "--config", conf)
	if err != nil {
		t.Fatalf("read with sniffed config error = %v", err)
	}
	if want := `{"age":"31","name":"ann"}` + "\n"; out != want {
		t.Errorf("read output = %q, want %q", out, want)
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`\n`, "\n"},
		{`\r\n`, "\r\n"},
		{`a\tb`, "a\tb"},
		{`\x`, `\x`},
		{`end\`, `end\`},
	}

	for _, tt := range tests {
		if got := unescape(tt.in); got != tt.want {
			t.Errorf("unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
