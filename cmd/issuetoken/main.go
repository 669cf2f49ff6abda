// Command issuetoken prints a bearer token for an API client, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/vaultpass/pwgen-go/internal/config"
	"github.com/vaultpass/pwgen-go/internal/crypto"
)

func run(args []string, cfg config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("issuetoken", flag.ContinueOnError)
	fs.SetOutput(stderr)
	client := fs.String("client", "", "client name recorded in the audit log")
	expiry := fs.Duration("expiry", cfg.JWTExpiry, "token lifetime")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	token, err := crypto.GenerateToken(*client, cfg.JWTSecret, *expiry)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(stdout, token)
	return 0
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	os.Exit(run(os.Args[1:], cfg, os.Stdout, os.Stderr))
}
