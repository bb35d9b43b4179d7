package handlers

import (
	"context"
	"encoding/base32"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"synctech/internal/middleware"
	"synctech/internal/models"
	"synctech/internal/render"
	"synctech/internal/session"
)

// totpIssuer is the account label shown in authenticator apps.
const totpIssuer = "Synctech"

// UserRepository is the account storage the sign-in flow needs.
// *store.UserStore implements it.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// Auth groups the admin sign-in handlers: password, then TOTP.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	users    UserRepository
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, users UserRepository) *Auth {
	return &Auth{renderer: renderer, sessions: sessions, users: users}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "login", &render.PageData{Title: "Sign In"})
}

func (a *Auth) loginError(w http.ResponseWriter, r *http.Request, status int, email, msg string) {
	a.renderer.PageStatus(w, r, "login", status, &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Error": msg, "Email": email},
	})
}

// LoginSubmit checks the password and starts a half-authenticated session.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := strings.ToLower(field(r, "email"))
	password := r.FormValue("password")

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		slog.ErrorContext(ctx, "login lookup failed", "error", err)
		a.loginError(w, r, http.StatusInternalServerError, email, "An unexpected error occurred.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, password) {
		slog.WarnContext(ctx, "login rejected", "email", email)
		a.loginError(w, r, http.StatusUnauthorized, email, "Invalid email or password.")
		return
	}

	// A fresh ID on every sign-in; any earlier session is dropped.
	if err := a.sessions.Destroy(ctx, w, r); err != nil {
		slog.WarnContext(ctx, "drop previous session failed", "error", err)
	}
	_, err = a.sessions.Create(ctx, w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		slog.ErrorContext(ctx, "session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user.Needs2FASetup() {
		http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/2fa/verify", http.StatusSeeOther)
}

// sessionUser resolves the signed-in account, redirecting to the login
// page when there is none.
func (a *Auth) sessionUser(w http.ResponseWriter, r *http.Request) (*session.Data, *models.User, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return nil, nil, false
	}
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, nil, false
	}
	if user == nil {
		a.sessions.Destroy(r.Context(), w, r)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return nil, nil, false
	}
	return sess, user, true
}

// enrollmentKey returns the pending TOTP key for user, creating and
// storing one when none exists yet. Reloading the setup page keeps the
// same secret so an already scanned code stays valid.
func (a *Auth) enrollmentKey(ctx context.Context, user *models.User) (*otp.Key, error) {
	if user.TOTPSecret != nil {
		return totp.Generate(totp.GenerateOpts{
			Issuer:      totpIssuer,
			AccountName: user.Email,
			Secret:      mustDecodeSecret(*user.TOTPSecret),
		})
	}
	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: user.Email})
	if err != nil {
		return nil, err
	}
	if err := a.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}
	return key, nil
}

var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// mustDecodeSecret turns a stored base32 secret back into raw bytes for
// totp.Generate. An undecodable secret yields nil, which makes Generate
// pick a fresh random one.
func mustDecodeSecret(secret string) []byte {
	raw, err := base32NoPad.DecodeString(strings.ToUpper(secret))
	if err != nil {
		return nil
	}
	return raw
}

func (a *Auth) setupPage(w http.ResponseWriter, r *http.Request, status int, key *otp.Key, errMsg string) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.ErrorContext(r.Context(), "qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data := map[string]any{
		"QRCode": base64.StdEncoding.EncodeToString(png),
		"Secret": key.Secret(),
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.PageStatus(w, r, "2fa_setup", status, &render.PageData{
		Title: "Set Up Two-Factor Authentication",
		Data:  data,
	})
}

// TwoFASetupPage shows the enrollment QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	_, user, ok := a.sessionUser(w, r)
	if !ok {
		return
	}
	if user.TOTPEnabled {
		http.Redirect(w, r, "/admin/2fa/verify", http.StatusSeeOther)
		return
	}
	key, err := a.enrollmentKey(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "totp enrollment failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.setupPage(w, r, http.StatusOK, key, "")
}

// TwoFAVerifyPage renders the code entry form.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "2fa_verify", &render.PageData{Title: "Two-Factor Authentication"})
}

// TwoFAVerifySubmit checks the TOTP code, finishing enrollment on first use.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, user, ok := a.sessionUser(w, r)
	if !ok {
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
		return
	}

	code := strings.ReplaceAll(field(r, "code"), " ", "")
	if !totp.Validate(code, *user.TOTPSecret) {
		slog.WarnContext(ctx, "totp code rejected", "user_id", user.ID)
		if !user.TOTPEnabled {
			key, err := a.enrollmentKey(ctx, user)
			if err != nil {
				slog.ErrorContext(ctx, "totp enrollment failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			a.setupPage(w, r, http.StatusUnprocessableEntity, key, "Invalid code. Please try again.")
			return
		}
		a.renderer.PageStatus(w, r, "2fa_verify", http.StatusUnprocessableEntity, &render.PageData{
			Title: "Two-Factor Authentication",
			Data:  map[string]any{"Error": "Invalid code. Please try again."},
		})
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(ctx, user.ID); err != nil {
			slog.ErrorContext(ctx, "enable totp failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(ctx, r, sess); err != nil {
		slog.ErrorContext(ctx, "session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	slog.InfoContext(ctx, "admin signed in", "user_id", user.ID)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
