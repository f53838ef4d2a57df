package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/db"
	"github.com/fintrack/fintrack/internal/domain/user"
	"github.com/fintrack/fintrack/internal/observability"
	"github.com/fintrack/fintrack/internal/repo/postgres"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

// adduser creates an account from the command line, for bootstrapping
// an install before anyone has registered through the web form.

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address (login identifier)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -name <name> -email <email> [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: name, email")
	}

	password := *passwordFlag

	if password == "" {
		fmt.Fprint(stdout, "Password: ")

		var err error
		password, err = readPassword(stdin)

		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	_ = godotenv.Load()

	cfg := config.Load()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	defer pool.Close()

	ctx := context.Background()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	users := postgres.NewUsersRepo(pool, observability.NewProm(prometheus.NewRegistry()))
	svc := auth.NewService(users, cfg.BcryptCost)

	u, err := svc.Register(ctx, *name, *email, password)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return fmt.Errorf("user %s already exists", *email)
		}

		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with id %s\n", u.Email, u.ID)

	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	// prompt without echo on a real terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))

		if err != nil {
			return "", err
		}

		return string(bytePassword), nil
	}

	// fallback for pipes and tests
	scanner := bufio.NewScanner(stdin)

	if scanner.Scan() {
		return scanner.Text(), nil
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}
