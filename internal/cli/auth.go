package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-tracker/internal/forms"
	"github.com/p-n-ai/pai-tracker/internal/nav"
)

func (r *runner) signinCmd() *cobra.Command {
	var (
		f    forms.SignInForm
		prev string
	)
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.Password == "" {
				p, err := r.prompt(cmd, "Password: ")
				if err != nil {
					return err
				}
				f.Password = p
			}
			user, err := r.app.Session.SignIn(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
			fmt.Fprintf(out, "→ %s\n", nav.AfterSignIn(prev))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.Password, "password", "p", "", "account password (prompted when empty)")
	cmd.Flags().StringVar(&prev, "prev", "", "page to continue at after signing in")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *runner) signupCmd() *cobra.Command {
	var f forms.SignUpForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.Password == "" {
				p, err := r.prompt(cmd, "Password: ")
				if err != nil {
					return err
				}
				f.Password = p
			}
			user, err := r.app.Session.SignUp(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n→ %s\n", user.FirstName, nav.PathHome)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&f.LastName, "last", "", "last name")
	cmd.Flags().StringVarP(&f.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "10 digit contact number")
	cmd.Flags().StringVarP(&f.Password, "password", "p", "", "account password (prompted when empty)")
	for _, name := range []string{"first", "last", "email", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (r *runner) signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Session.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed out.\n→ %s\n", nav.PathSignIn)
			return nil
		},
	}
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := r.app.Session.User()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
			fmt.Fprintf(out, "role: %s\ntheme: %s\n", user.Role, r.app.Session.Theme())
			return nil
		},
	}
}

func (r *runner) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess := r.app.Session
			if len(args) == 1 {
				var err error
				if args[0] == "toggle" {
					_, err = sess.ToggleTheme(ctx)
				} else {
					err = sess.SetTheme(ctx, args[0])
				}
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", sess.Theme())
			return nil
		},
	}
}

func (r *runner) routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route PATH",
		Short: "Show where the client would take PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := r.app.Navigate(args[0])
			out := cmd.OutOrStdout()
			switch {
			case d.Redirect != "":
				fmt.Fprintf(out, "redirect %s\n", d.Redirect)
			case d.Slug != "":
				fmt.Fprintf(out, "%s %s\n", d.Route, d.Slug)
			default:
				fmt.Fprintln(out, d.Route)
			}
			return nil
		},
	}
}
