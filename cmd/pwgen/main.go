// Command pwgen prints a single random password.
//
// Usage:
//
//	pwgen [-n LENGTH] [--no-upper] [--no-lower] [--no-digits] [--no-symbols] [--allow-ambiguous] [--strict]
//
// When -n is omitted the length is read from standard input. Any error exits with status 2.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/vaultpass/pwgen-go/internal/crypto"
)

const exitError = 2

// Config holds the parsed command line.
type Config struct {
	Length         int
	LengthSet      bool
	NoUpper        bool
	NoLower        bool
	NoDigits       bool
	NoSymbols      bool
	AllowAmbiguous bool
	Strict         bool
}

// ParseFlags registers and parses the command line on fs.
func ParseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config

	fs.IntVar(&cfg.Length, "n", crypto.DefaultLength, "password length (read from stdin when omitted)")
	fs.BoolVar(&cfg.NoUpper, "no-upper", false, "exclude uppercase letters")
	fs.BoolVar(&cfg.NoLower, "no-lower", false, "exclude lowercase letters")
	fs.BoolVar(&cfg.NoDigits, "no-digits", false, "exclude digits")
	fs.BoolVar(&cfg.NoSymbols, "no-symbols", false, "exclude symbols")
	fs.BoolVar(&cfg.AllowAmbiguous, "allow-ambiguous", false, "keep visually ambiguous characters such as I, l, 1, O, 0")
	fs.BoolVar(&cfg.Strict, "strict", false, "fail instead of falling back when system entropy is unavailable")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "n" {
			cfg.LengthSet = true
		}
	})

	return cfg, nil
}

// Request converts the command line into a generation request.
func (c Config) Request() crypto.Request {
	return crypto.Request{
		Length:         c.Length,
		Lowercase:      !c.NoLower,
		Uppercase:      !c.NoUpper,
		Digits:         !c.NoDigits,
		Symbols:        !c.NoSymbols,
		AvoidAmbiguous: !c.AllowAmbiguous,
	}
}

// readLength reads the first whitespace separated token from r. Empty input
// yields the default length.
func readLength(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("reading length: %w", err)
		}
		return crypto.DefaultLength, nil
	}

	n, err := strconv.Atoi(scanner.Text())
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid length %q", scanner.Text())
	}
	return n, nil
}

func generate(req crypto.Request, strict bool) (crypto.Password, error) {
	if strict {
		sampler := crypto.NewSampler(crypto.NewSystemSource(), nil, crypto.WithPolicy(crypto.RequireSystem))
		return crypto.NewGenerator(sampler).Generate(req)
	}
	return crypto.Generate(req)
}

// Run executes the command and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Usage goes to stdout for -h and to stderr for bad flags.
	var usage bytes.Buffer
	fs := flag.NewFlagSet("pwgen", flag.ContinueOnError)
	fs.SetOutput(&usage)

	cfg, err := ParseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage.WriteTo(stdout)
			return 0
		}
		usage.WriteTo(stderr)
		return exitError
	}

	if !cfg.LengthSet {
		cfg.Length, err = readLength(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	}

	password, err := generate(cfg.Request(), cfg.Strict)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if password.Tier == crypto.TierFallback {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		logger.Warn("system entropy unavailable, password generated from fallback generator")
	}

	fmt.Fprintln(stdout, password.Value)
	return 0
}

func main() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
