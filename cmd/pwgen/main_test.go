package main

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/vaultpass/pwgen-go/internal/crypto"
)

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg, err := ParseFlags(fs, []string{"-n", "24", "--no-symbols", "--allow-ambiguous", "--strict"})
	if err != nil {
		t.Fatalf("ParseFlags() unexpected error: %v", err)
	}
	if cfg.Length != 24 || !cfg.LengthSet {
		t.Errorf("Length = %d (set=%v), want 24 (set=true)", cfg.Length, cfg.LengthSet)
	}
	if !cfg.NoSymbols || !cfg.AllowAmbiguous || !cfg.Strict {
		t.Errorf("unexpected config %+v", cfg)
	}

	req := cfg.Request()
	if req.Symbols || !req.Lowercase || !req.Uppercase || !req.Digits || req.AvoidAmbiguous {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg, err := ParseFlags(fs, nil)
	if err != nil {
		t.Fatalf("ParseFlags() unexpected error: %v", err)
	}
	if cfg.LengthSet {
		t.Error("LengthSet = true without -n")
	}
	if req := cfg.Request(); req != crypto.DefaultRequest() {
		t.Errorf("Request() = %+v, want %+v", req, crypto.DefaultRequest())
	}
}

func TestReadLength(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "number", input: "20\n", want: 20},
		{name: "surrounding space", input: "  12  extra", want: 12},
		{name: "empty", input: "", want: crypto.DefaultLength},
		{name: "not a number", input: "twelve", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readLength(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("readLength(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("readLength(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("readLength(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantLen  int
	}{
		{name: "length flag", args: []string{"-n", "20"}, wantCode: 0, wantLen: 20},
		{name: "length from stdin", stdin: "12\n", wantCode: 0, wantLen: 12},
		{name: "flag overrides stdin", args: []string{"-n", "9"}, stdin: "30", wantCode: 0, wantLen: 9},
		{name: "strict", args: []string{"-n", "10", "--strict"}, wantCode: 0, wantLen: 10},
		{name: "digits only", args: []string{"-n", "6", "--no-upper", "--no-lower", "--no-symbols"}, wantCode: 0, wantLen: 6},
		{name: "help", args: []string{"-h"}, wantCode: 0},
		{name: "unknown flag", args: []string{"--bogus"}, wantCode: 2},
		{name: "zero length", args: []string{"-n", "0"}, wantCode: 2},
		{name: "too short for classes", args: []string{"-n", "3"}, wantCode: 2},
		{name: "no classes", args: []string{"--no-upper", "--no-lower", "--no-digits", "--no-symbols", "-n", "8"}, wantCode: 2},
		{name: "bad stdin", stdin: "abc", wantCode: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := Run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("Run() = %d, want %d; stderr = %q", code, tt.wantCode, stderr.String())
			}

			if tt.wantCode == 2 && stderr.Len() == 0 {
				t.Error("expected diagnostic on stderr")
			}
			if tt.wantLen == 0 {
				return
			}

			password := strings.TrimSuffix(stdout.String(), "\n")
			if len(password) != tt.wantLen {
				t.Errorf("password %q length = %d, want %d", password, len(password), tt.wantLen)
			}
			if strings.ContainsAny(password, crypto.AmbiguousChars) {
				t.Errorf("password %q contains ambiguous characters", password)
			}
		})
	}
}

func TestRunErrorMessage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Run([]string{"-n", "2"}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("Run() = %d, want 2", code)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") {
		t.Errorf("stderr = %q, want an Error: prefix", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestRunHelpUsageOnStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Run([]string{"-h"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "-no-symbols") {
		t.Errorf("stdout = %q, want flag usage", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestRunUnknownFlagUsageOnStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Run([]string{"--bogus"}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("Run() = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "bogus") {
		t.Errorf("stderr = %q, want the unknown flag reported", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}
