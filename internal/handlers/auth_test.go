package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"synctech/internal/models"
	"synctech/internal/session"
)

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	findErr error
}

func newFakeUsers(t *testing.T, email, password string) (*fakeUsers, *models.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: string(hash), DisplayName: "Ada Admin"}
	return &fakeUsers{users: map[uuid.UUID]*models.User{u.ID: u}}, u
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].TOTPSecret = &secret
	return nil
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].TOTPEnabled = true
	return nil
}

func (f *fakeUsers) CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (f *fakeUsers) secret(id uuid.UUID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.users[id].TOTPSecret; s != nil {
		return *s
	}
	return ""
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newFixture(t)
	users, _ := newFakeUsers(t, "admin@synctech.local", "correct horse")
	auth := NewAuth(f.renderer, f.sessions, users)

	rec := httptest.NewRecorder()
	auth.LoginSubmit(rec, formRequest("POST", "/admin/login", url.Values{
		"email": {"Admin@Synctech.local"}, "password": {"wrong"},
	}, nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid email or password.") {
		t.Error("error message missing")
	}
	if !strings.Contains(body, `value="admin@synctech.local"`) {
		t.Error("email should be kept, lowercased")
	}
	if len(rec.Result().Cookies()) > 0 {
		t.Error("no session cookie should be set")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newFixture(t)
	users, _ := newFakeUsers(t, "admin@synctech.local", "pw")
	rec := httptest.NewRecorder()
	NewAuth(f.renderer, f.sessions, users).LoginSubmit(rec, formRequest("POST", "/admin/login", url.Values{
		"email": {"nobody@synctech.local"}, "password": {"pw"},
	}, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLoginLookupFailure(t *testing.T) {
	f := newFixture(t)
	users, _ := newFakeUsers(t, "admin@synctech.local", "pw")
	users.findErr = errors.New("db down")

	rec := httptest.NewRecorder()
	NewAuth(f.renderer, f.sessions, users).LoginSubmit(rec, formRequest("POST", "/admin/login", url.Values{
		"email": {"admin@synctech.local"}, "password": {"pw"},
	}, nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLoginPageRedirectsWhenSignedIn(t *testing.T) {
	f := newFixture(t)
	users, _ := newFakeUsers(t, "admin@synctech.local", "pw")
	rec := httptest.NewRecorder()
	NewAuth(f.renderer, f.sessions, users).LoginPage(rec, formRequest("GET", "/admin/login", nil, adminSession()))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/dashboard" {
		t.Errorf("got %d to %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestTwoFAPagesNeedSession(t *testing.T) {
	f := newFixture(t)
	users, _ := newFakeUsers(t, "admin@synctech.local", "pw")
	auth := NewAuth(f.renderer, f.sessions, users)

	for name, h := range map[string]http.HandlerFunc{
		"setup":  auth.TwoFASetupPage,
		"verify": auth.TwoFAVerifyPage,
		"submit": auth.TwoFAVerifySubmit,
	} {
		rec := httptest.NewRecorder()
		h(rec, formRequest("GET", "/admin/2fa", nil, nil))
		if rec.Header().Get("Location") != "/admin/login" {
			t.Errorf("%s: Location = %q", name, rec.Header().Get("Location"))
		}
	}
}

func TestTwoFASetupKeepsSecret(t *testing.T) {
	f := newFixture(t)
	users, u := newFakeUsers(t, "admin@synctech.local", "pw")
	auth := NewAuth(f.renderer, f.sessions, users)
	sess := &session.Data{UserID: u.ID, Email: u.Email}

	rec := httptest.NewRecorder()
	auth.TwoFASetupPage(rec, formRequest("GET", "/admin/2fa/setup", nil, sess))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	first := users.secret(u.ID)
	if first == "" || !strings.Contains(rec.Body.String(), first) {
		t.Fatal("secret should be stored and shown")
	}
	if !strings.Contains(rec.Body.String(), "data:image/png;base64,") {
		t.Error("QR code missing")
	}

	rec = httptest.NewRecorder()
	auth.TwoFASetupPage(rec, formRequest("GET", "/admin/2fa/setup", nil, sess))
	if got := users.secret(u.ID); got != first {
		t.Errorf("secret changed on reload: %q != %q", got, first)
	}
	if !strings.Contains(rec.Body.String(), first) {
		t.Error("reloaded page should show the same secret")
	}
}

func TestTwoFASetupRedirectsWhenEnrolled(t *testing.T) {
	f := newFixture(t)
	users, u := newFakeUsers(t, "admin@synctech.local", "pw")
	users.EnableTOTP(context.Background(), u.ID)

	rec := httptest.NewRecorder()
	NewAuth(f.renderer, f.sessions, users).TwoFASetupPage(rec, formRequest("GET", "/", nil, &session.Data{UserID: u.ID}))
	if rec.Header().Get("Location") != "/admin/2fa/verify" {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}
}

func TestTwoFAWrongCode(t *testing.T) {
	f := newFixture(t)
	users, u := newFakeUsers(t, "admin@synctech.local", "pw")
	auth := NewAuth(f.renderer, f.sessions, users)
	sess := &session.Data{UserID: u.ID}

	auth.TwoFASetupPage(httptest.NewRecorder(), formRequest("GET", "/", nil, sess))

	rec := httptest.NewRecorder()
	auth.TwoFAVerifySubmit(rec, formRequest("POST", "/admin/2fa/verify", url.Values{"code": {"000000x"}}, sess))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid code") {
		t.Error("error message missing")
	}
	if sess.TwoFADone {
		t.Error("session must not be marked verified")
	}
}

func TestSignInFlow(t *testing.T) {
	client := testValkey(t)
	f := newFixture(t)
	f.sessions = session.NewStore(client, false)
	users, u := newFakeUsers(t, "admin@synctech.local", "correct horse")
	auth := NewAuth(f.renderer, f.sessions, users)

	rec := httptest.NewRecorder()
	auth.LoginSubmit(rec, formRequest("POST", "/admin/login", url.Values{
		"email": {"admin@synctech.local"}, "password": {"correct horse"},
	}, nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/2fa/setup" {
		t.Fatalf("login: %d to %q", rec.Code, rec.Header().Get("Location"))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[len(cookies)-1].Name != session.CookieName {
		t.Fatal("session cookie missing")
	}
	cookie := cookies[len(cookies)-1]

	withCookie := func(r *http.Request) *http.Request {
		r.AddCookie(cookie)
		return r
	}
	sess, err := f.sessions.Get(context.Background(), withCookie(httptest.NewRequest("GET", "/", nil)))
	if err != nil || sess == nil || sess.TwoFADone {
		t.Fatalf("session after password = %+v, %v", sess, err)
	}

	auth.TwoFASetupPage(httptest.NewRecorder(), withCookie(formRequest("GET", "/admin/2fa/setup", nil, sess)))
	code, err := totp.GenerateCode(users.secret(u.ID), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	rec = httptest.NewRecorder()
	auth.TwoFAVerifySubmit(rec, withCookie(formRequest("POST", "/admin/2fa/verify", url.Values{"code": {code[:3] + " " + code[3:]}}, sess)))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("verify: %d to %q", rec.Code, rec.Header().Get("Location"))
	}

	stored, _ := f.sessions.Get(context.Background(), withCookie(httptest.NewRequest("GET", "/", nil)))
	if stored == nil || !stored.TwoFADone {
		t.Errorf("stored session = %+v", stored)
	}
	if got, _ := users.FindByID(context.Background(), u.ID); !got.TOTPEnabled {
		t.Error("TOTP should be enabled after the first valid code")
	}

	rec = httptest.NewRecorder()
	auth.Logout(rec, withCookie(formRequest("POST", "/admin/logout", nil, stored)))
	if after, _ := f.sessions.Get(context.Background(), withCookie(httptest.NewRequest("GET", "/", nil))); after != nil {
		t.Error("session should be gone after logout")
	}
}
