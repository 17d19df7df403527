package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/smarthealth/internal/model"
)

func loginCmd(a *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.prompt("Password: "); err != nil {
					return err
				}
			}

			snap, err := a.session.Login(cmd.Context(), a.auth, email, password)
			if err != nil {
				return err
			}
			a.printf("Logged in as %s (%s)\n", snap.User.FullName, snap.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when empty)")
	return cmd
}

func logoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the local session is cleared even when the server call fails
			_ = a.session.Logout(cmd.Context(), a.auth)
			a.printf("Logged out\n")
			return nil
		},
	}
}

func whoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := a.session.Snapshot()
			if !snap.LoggedIn {
				a.printf("Not logged in\n")
				return nil
			}
			expires := ""
			if !snap.ExpiresAt.IsZero() {
				expires = snap.ExpiresAt.Local().Format(time.RFC1123)
			}
			a.outMu.Lock()
			defer a.outMu.Unlock()
			renderRecord(a.out, []field{
				{"ID", fmt.Sprint(snap.User.ID)},
				{"Name", snap.User.FullName},
				{"Email", snap.User.Email},
				{"Role", snap.Role},
				{"Expires", expires},
			})
			return nil
		},
	}
}

func registerCmd(a *App) *cobra.Command {
	var req model.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a patient account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.printf("Registered %s (#%d), you can now log in\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.Gender, "gender", "", "MALE, FEMALE or OTHER")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "Password again")
	return cmd
}

func passwordCmd(a *App) *cobra.Command {
	var req model.ChangePasswordRequest
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the password of the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := a.auth.ChangePassword(cmd.Context(), req); err != nil {
				return err
			}
			a.printf("Password changed\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CurrentPassword, "current", "", "Current password")
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "New password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm", "", "New password again")
	return cmd
}
