package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

var errBadCredentials = errors.New("incorrect email or password")

func (a *App) loginCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			if email == "" {
				last, _ := a.local.LastEmail()
				v, err := a.prompter().Input("Email", last)
				if err != nil {
					return err
				}
				email = v
			}
			password, err := a.prompter().Password("Password")
			if err != nil {
				return err
			}
			if err := a.session.Login(ctx, email, password); err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return errBadCredentials
				}
				return err
			}
			_, err = fmt.Fprintf(a.opts.Out, "Logged in as %s\n", displayName(a.session.User()))
			return err
		}),
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (a *App) registerCommand() *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			p := a.prompter()
			if email == "" {
				v, err := p.Input("Email", "")
				if err != nil {
					return err
				}
				email = v
			}
			password, err := p.Password("Password")
			if err != nil {
				return err
			}
			var namePtr *string
			if name != "" {
				namePtr = &name
			}
			if err := a.session.Register(ctx, email, password, namePtr); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.opts.Out, "Account created. Logged in as %s\n", displayName(a.session.User()))
			return err
		}),
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(context.Context, []string) error {
			if err := a.open(); err != nil {
				return err
			}
			a.session.Logout()
			_, err := fmt.Fprintln(a.opts.Out, "Logged out")
			return err
		}),
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, _ []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			user := a.session.User()
			return a.emit(user, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s) on %s\n", displayName(user), user.ID, a.cfg.ServerURL)
				return err
			})
		}),
	}
}

func (a *App) passwordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	var email string
	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "Request a password reset token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			if email == "" {
				v, err := a.prompter().Input("Email", "")
				if err != nil {
					return err
				}
				email = v
			}
			resp, err := a.session.ForgotPassword(ctx, email)
			if err != nil {
				return err
			}
			return a.emit(resp, func(w io.Writer) error {
				fmt.Fprintln(w, resp.Message)
				if resp.ResetToken != nil {
					fmt.Fprintf(w, "Reset token: %s\n", *resp.ResetToken)
				}
				return nil
			})
		}),
	}
	forgot.Flags().StringVarP(&email, "email", "e", "", "account email")

	var token string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			p := a.prompter()
			if token == "" {
				v, err := p.Input("Reset token", "")
				if err != nil {
					return err
				}
				token = v
			}
			password, err := p.Password("New password")
			if err != nil {
				return err
			}
			msg, err := a.session.ResetPassword(ctx, strings.TrimSpace(token), password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.opts.Out, msg)
			return err
		}),
	}
	reset.Flags().StringVarP(&token, "token", "t", "", "reset token")

	cmd.AddCommand(forgot, reset)
	return cmd
}

func displayName(u *api.User) string {
	if u == nil {
		return ""
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return fmt.Sprintf("%s <%s>", *u.Name, u.Email)
	}
	return u.Email
}
