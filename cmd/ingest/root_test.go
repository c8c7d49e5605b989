package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://download.example.org/europe/monaco-latest.osm.bz2", "monaco-latest.osm.bz2"},
		{"https://example.org/extract.osm.gz?token=abc", "extract.osm.gz"},
		{"https://example.org/", "download"},
	}

	for _, tt := range tests {
		if got := fetchName(tt.url); got != tt.want {
			t.Errorf("fetchName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("ingest %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCompressVerifyStats(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "extract.osm")
	data := bytes.Repeat([]byte("  <node id=\"1\" lat=\"43.73\" lon=\"7.42\"/>\n"), 50000)
	if err := os.WriteFile(src, data, 0o644); err != nil {
		t.Fatal(err)
	}

	gz := filepath.Join(dir, "extract.osm.gz")
	execute(t, "compress", src, gz)

	out := execute(t, "verify", "--workers", "3", gz)
	if !strings.Contains(out, "OK") || !strings.Contains(out, "bytes") {
		t.Errorf("verify output = %q", out)
	}

	// The digest depends on the content only, not on the compression.
	plain := execute(t, "verify", "--workers", "1", src)
	digest := func(s string) string { return s[strings.LastIndex(s, "xxh64"):] }
	if digest(out) != digest(plain) {
		t.Errorf("digest mismatch: %q vs %q", out, plain)
	}

	out = execute(t, "stats", gz)
	if !strings.Contains(out, "Decompressed:") {
		t.Errorf("stats output = %q", out)
	}
}

func TestKinds(t *testing.T) {
	out := execute(t, "kinds")
	for _, k := range []string{"none", "gzip", "bzip2", "zstd", "lz4", "s2"} {
		if !strings.Contains(out, k) {
			t.Errorf("kinds output missing %s: %q", k, out)
		}
	}
}

func TestHelpExamples(t *testing.T) {
	var lines []string
	for _, c := range append(rootCmd.Commands(), rootCmd) {
		for _, line := range strings.Split(c.Long, "\n") {
			if line = strings.TrimSpace(line); strings.HasPrefix(line, "ingest ") {
				lines = append(lines, line)
			}
		}
	}
	if len(lines) == 0 {
		t.Fatal("no examples found in help text")
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		c, _, err := rootCmd.Find(fields[1:])
		if err != nil || c == rootCmd {
			t.Errorf("%q: unknown command", line)
			continue
		}
		for _, f := range fields[2:] {
			name, ok := strings.CutPrefix(f, "--")
			if !ok {
				continue
			}
			name, _, _ = strings.Cut(name, "=")
			if c.Flag(name) == nil {
				t.Errorf("%q: %s has no flag --%s", line, c.Name(), name)
			}
			// --kind names the input; compress takes the output kind from --out-kind.
			if c == compressCmd && name == "kind" {
				t.Errorf("%q: compress example sets --kind, want --out-kind", line)
			}
		}
	}
}
