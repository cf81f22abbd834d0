package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/petadoption/webclient/internal/models"
	"github.com/petadoption/webclient/internal/session"
	"github.com/petadoption/webclient/internal/validation"
	"github.com/petadoption/webclient/internal/views"
)

func (c *cli) login(ctx context.Context, args []string) error {
	fs := c.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (read from stdin when empty)")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return errUsage
	}

	creds := models.Credentials{Email: strings.TrimSpace(*email), Password: *password}
	if creds.Password == "" {
		p, err := c.readPassword()
		if err != nil {
			return err
		}
		creds.Password = p
	}
	if errs := validation.Login(creds); len(errs) > 0 {
		return errs
	}

	user, err := c.app.Session.Login(ctx, creds)
	if err != nil {
		return err
	}
	c.notify.Success(fmt.Sprintf("Logged in as %s", user.Name))
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := c.flags("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (read from stdin when empty)")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return errUsage
	}

	reg := models.Registration{Name: strings.TrimSpace(*name), Email: strings.TrimSpace(*email), Password: *password}
	if reg.Password == "" {
		p, err := c.readPassword()
		if err != nil {
			return err
		}
		reg.Password = p
	}
	if errs := validation.Register(reg); len(errs) > 0 {
		return errs
	}

	user, err := c.app.Session.Register(ctx, reg)
	if err != nil {
		return err
	}
	c.notify.Success(fmt.Sprintf("Registered and logged in as %s", user.Name))
	return nil
}

// readPassword reads one line from stdin
func (c *cli) readPassword() (string, error) {
	fmt.Fprint(c.errOut, "Password: ")
	scanner := bufio.NewScanner(c.in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", fmt.Errorf("failed to read password: %w", io.ErrUnexpectedEOF)
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}

func (c *cli) logout(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errUsage
	}
	c.app.Session.Logout(ctx)
	c.notify.Success("Logged out")
	return nil
}

type whoamiOutput struct {
	State          string `json:"state" yaml:"state"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	Email          string `json:"email,omitempty" yaml:"email,omitempty"`
	Role           string `json:"role,omitempty" yaml:"role,omitempty"`
	Admin          bool   `json:"admin" yaml:"admin"`
	TokenExpiresAt string `json:"tokenExpiresAt,omitempty" yaml:"tokenExpiresAt,omitempty"`
}

func (c *cli) whoami(_ context.Context, args []string) error {
	if len(args) > 0 {
		return errUsage
	}
	s := c.app.Session
	nav := views.Navigation(s)
	out := whoamiOutput{State: s.State().String(), Name: nav.UserName, Admin: nav.Admin}
	if u := s.User(); u != nil {
		out.Email = u.Email
		out.Role = u.RoleLabel()
	}
	if exp, ok := s.TokenExpiry(); ok {
		out.TokenExpiresAt = exp.Format(time.RFC3339)
	}

	return c.out.print(out, func(w io.Writer) {
		row(w, "State", out.State)
		if nav.SignedIn {
			row(w, "Name", out.Name)
			row(w, "Email", out.Email)
			row(w, "Role", out.Role)
			row(w, "Token expires", out.TokenExpiresAt)
		}
	})
}

func (c *cli) profile(_ context.Context, args []string) error {
	if len(args) > 0 {
		return errUsage
	}
	p, ok := views.Profile(c.app.Session)
	if !ok {
		return session.ErrNotAuthenticated
	}
	return c.out.print(p, func(w io.Writer) {
		row(w, "Name", p.Name)
		row(w, "Email", p.Email)
		row(w, "Role", p.Role)
		row(w, "Member since", p.MemberSince)
	})
}
