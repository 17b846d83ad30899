package cli

import (
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/havelockadmin/internal/client/api"
	"github.com/iudanet/havelockadmin/internal/client/iocli"
	"github.com/iudanet/havelockadmin/internal/client/nav"
	"github.com/iudanet/havelockadmin/internal/client/session"
	"github.com/iudanet/havelockadmin/internal/client/storage"
	"github.com/iudanet/havelockadmin/internal/validation"
)

func (rt *runtime) loginCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := rt.app
			ctx := cmd.Context()
			out := rt.opts.IO

			out.Println("=== Login ===")
			out.Println()

			// вошедшего пользователя /login уводит на дашборд
			if route, err := a.nav.Enter(ctx, nav.RouteLogin); err != nil {
				var redirect *nav.RedirectError
				if !errors.As(err, &redirect) {
					return err
				}
				s := a.sessions.Current()
				out.Printf("Already signed in as %s. Redirected to %s.\n", s.Email, route)
				out.Println("Run 'havelock-admin logout' to switch accounts.")
				return nil
			}

			if email == "" {
				var err error
				if email, err = readEmail(out, a.preference(ctx, storage.PrefLastEmail)); err != nil {
					return err
				}
			}
			password, err := out.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			out.Println()
			out.Println("Authenticating...")

			s, err := a.sessions.SignIn(ctx, session.Credentials{Email: email, Password: password})
			if err != nil {
				return loginError(err)
			}

			a.setPreference(ctx, storage.PrefLastEmail, s.Email)

			out.Println()
			out.Println("✓ Login successful!")
			out.Printf("Signed in as: %s\n", s.Email)
			if !s.Expiry.IsZero() {
				out.Printf("Session expires: %s\n", s.Expiry.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	return cmd
}

// readEmail спрашивает email; пустой ввод принимает прошлый адрес
func readEmail(out iocli.IO, last string) (string, error) {
	prompt := "Email: "
	if last != "" {
		prompt = fmt.Sprintf("Email [%s]: ", last)
	}
	email, err := out.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	if email == "" {
		return last, nil
	}
	return email, nil
}

// loginError: неверные учетные данные показываются текстом сервера
func loginError(err error) error {
	var verr validation.Errors
	if errors.As(err, &verr) {
		return fmt.Errorf("invalid login form: %w", err)
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("login failed: %s", api.ErrorMessage(err))
	}
	return err
}

func (rt *runtime) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rt.opts.IO
			out.Println("=== Logout ===")

			if err := rt.app.sessions.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			out.Println("✓ Logout successful!")
			out.Println("Your local session has been deleted.")
			return nil
		},
	}
}

const statusTemplate = `=== Authentication Status ===

{{if .Session -}}
Status:  Authenticated
Email:   {{.Session.Email}}
{{- if .Session.DisplayName}}
Name:    {{.Session.DisplayName}}
{{- end}}
{{- if .Session.Role}}
Role:    {{.Session.Role}}
{{- end}}
Backend: {{.Backend}}
{{- if not .Session.Expiry.IsZero}}
Expires: {{.Session.Expiry.Format "2006-01-02T15:04:05Z07:00"}}
{{- end}}
{{- else -}}
Status:  Not authenticated
Backend: {{.Backend}}

Run 'havelock-admin login' to authenticate.
{{- end}}
`

var statusTmpl = template.Must(template.New("status").Parse(statusTemplate))

func (rt *runtime) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := rt.app
			s, err := a.sessions.Session(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to check authentication: %w", err)
			}

			data := struct {
				Session *session.Session
				Backend string
			}{Session: s, Backend: a.cfg.APIBaseURL}
			if err := statusTmpl.Execute(rt.opts.IO, data); err != nil {
				return fmt.Errorf("failed to render status: %w", err)
			}

			if s != nil && !s.Expiry.IsZero() {
				if remaining := time.Until(s.Expiry); remaining > 0 {
					rt.opts.IO.Printf("Time remaining: %s\n", remaining.Round(time.Second))
				}
			}
			return nil
		},
	}
}

// prompt возвращает значение флага или спрашивает его
func (rt *runtime) prompt(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	v, err := rt.opts.IO.ReadInput(label + ": ")
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return v, nil
}

func (rt *runtime) forgotPasswordCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Send a password reset code to the account email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteForgotPassword); err != nil {
				return err
			}
			rt.opts.IO.Println("=== Forgot Password ===")
			rt.opts.IO.Println()

			email, err := rt.prompt(email, "Email")
			if err != nil {
				return err
			}
			if err := rt.app.account.ForgotPassword(ctx, email); err != nil {
				return reportedIfNotified(err)
			}
			rt.opts.IO.Printf("Next: havelock-admin verify-otp --email %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (rt *runtime) verifyOTPCommand() *cobra.Command {
	var email, otp string
	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Verify the 6-digit code from the reset email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteVerifyOTP); err != nil {
				return err
			}
			rt.opts.IO.Println("=== Verify OTP ===")
			rt.opts.IO.Println()

			email, err := rt.prompt(email, "Email")
			if err != nil {
				return err
			}
			code, err := rt.prompt(otp, "OTP")
			if err != nil {
				return err
			}
			if err := rt.app.account.VerifyOTP(ctx, email, code); err != nil {
				return reportedIfNotified(err)
			}
			rt.opts.IO.Printf("Next: havelock-admin reset-password --email %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&otp, "otp", "", "6-digit code")
	return cmd
}

func (rt *runtime) resetPasswordCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password after OTP verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteResetPassword); err != nil {
				return err
			}
			out := rt.opts.IO
			out.Println("=== Reset Password ===")
			out.Println()

			email, err := rt.prompt(email, "Email")
			if err != nil {
				return err
			}
			newPassword, err := out.ReadPassword("New password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirm, err := out.ReadPassword("Confirm password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if err := rt.app.account.ResetPassword(ctx, email, newPassword, confirm); err != nil {
				return reportedIfNotified(err)
			}
			out.Println("Next: havelock-admin login")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (rt *runtime) changePasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.app.enter(ctx, nav.RouteSettings); err != nil {
				return err
			}
			out := rt.opts.IO
			out.Println("=== Change Password ===")
			out.Println()

			current, err := out.ReadPassword("Current password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			newPassword, err := out.ReadPassword("New password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirm, err := out.ReadPassword("Confirm new password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if err := rt.app.account.ChangePassword(ctx, current, newPassword, confirm); err != nil {
				return reportedIfNotified(err)
			}
			return nil
		},
	}
}

// reportedIfNotified: ошибку мутации уже показало уведомление,
// ошибку формы еще нет
func reportedIfNotified(err error) error {
	if errors.Is(err, validation.ErrInvalid) {
		return err
	}
	return reported(err)
}
