// Package adminctl implements resumehub-admin, which bootstraps
// administrator accounts through the server's admin registration endpoint.
package adminctl

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

// AdminRegistrar creates admin accounts.
type AdminRegistrar interface {
	RegisterAdmin(ctx context.Context, in AdminRequest, adminKey string) (*CreatedAccount, error)
}

// newRegistrar is a seam for tests.
var newRegistrar = func(server string) AdminRegistrar {
	return NewClient(server)
}

// Run parses args, prompts for whatever is missing and registers the admin.
// Password, confirmation and admin key are always read without echo.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("resumehub-admin", flag.ContinueOnError)
	fs.SetOutput(stdout)
	server := fs.String("server", "http://localhost:8080", "resumehub server base URL")
	email := fs.String("email", "", "admin email")
	name := fs.String("name", "", "admin display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reader := bufio.NewReader(stdin)
	var err error

	if *email == "" {
		if *email, err = GetSimpleText(reader, "Enter admin email", stdout); err != nil {
			return err
		}
	}
	if *name == "" {
		if *name, err = GetSimpleText(reader, "Enter admin name", stdout); err != nil {
			return err
		}
	}

	password, err := GetSecret(stdout, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := GetSecret(stdout, "Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	key, err := GetSecret(stdout, "Enter admin key")
	if err != nil {
		return err
	}

	account, err := newRegistrar(*server).RegisterAdmin(ctx, AdminRequest{
		Email:           *email,
		Password:        password,
		ConfirmPassword: confirm,
		Name:            *name,
	}, key)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Admin %s created (id=%s)\n", account.Email, account.ID)
	return nil
}
