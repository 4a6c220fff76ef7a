// Package commands implements the lifecal subcommands that run outside
// the HTTP server.
package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/zapponejosh/lifecal/internal/auth"
	"github.com/zapponejosh/lifecal/internal/calendar"
	"github.com/zapponejosh/lifecal/internal/database"
)

// NewAccount is the input for creating a user from the command line.
type NewAccount struct {
	Username  string
	Email     string
	FirstName string
	DOB       string
	Password  string
}

// CreateUser handles the create-user subcommand. Username and profile
// come from flags; the password is always prompted for.
func CreateUser(ctx context.Context, db *database.DB, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	username := fs.String("username", "", "Login name (required)")
	email := fs.String("email", "", "Email address")
	firstName := fs.String("first-name", "", "First name")
	dob := fs.String("dob", "", "Date of birth, YYYY-MM-DD (required)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lifecal create-user -username NAME -dob YYYY-MM-DD [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates an account and prompts for its password.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *dob == "" {
		fs.Usage()
		return errors.New("username and dob are required")
	}

	in := bufio.NewReader(os.Stdin)
	password, err := readPassword(in, "Enter password:   ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := readPassword(in, "Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	user, err := RegisterAccount(ctx, db, NewAccount{
		Username:  *username,
		Email:     *email,
		FirstName: *firstName,
		DOB:       *dob,
		Password:  password,
	}, calendar.DateOf(time.Now()))
	if err != nil {
		return err
	}

	logger.Info("user created", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	fmt.Printf("Created user %q (id %d)\n", user.Username, user.ID)
	return nil
}

// RegisterAccount validates a and stores it as a new user.
func RegisterAccount(ctx context.Context, db *database.DB, a NewAccount, today calendar.Date) (*database.User, error) {
	username := strings.TrimSpace(a.Username)
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}

	dob, err := calendar.ParseDate(a.DOB)
	if err != nil {
		return nil, err
	}
	if err := calendar.ValidateBirthDate(dob, today); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(a.Password)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		Username:     username,
		Email:        strings.TrimSpace(a.Email),
		FirstName:    strings.TrimSpace(a.FirstName),
		DOB:          dob,
		PasswordHash: hash,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("username %q is already taken: %w", username, err)
		}
		return nil, err
	}
	return user, nil
}

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// readPassword reads a line without echo when stdin is a terminal, and
// as plain text otherwise so passwords can be piped in.
func readPassword(in *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)

	if stdinIsTerminal() {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		return string(password), err
	}

	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
