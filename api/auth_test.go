package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jainrajat254/projecthub-backend/api"
	"github.com/jainrajat254/projecthub-backend/pkg/models"
	"github.com/jainrajat254/projecthub-backend/pkg/repository/mock"
	"golang.org/x/crypto/bcrypt"
)

// fakeQueue records enqueued jobs instead of persisting them.
type fakeQueue struct {
	types []string
	err   error
}

func (q *fakeQueue) Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	q.types = append(q.types, typ)
	return int64(len(q.types)), nil
}

func withUser(r *http.Request, userID string) *http.Request {
	if userID == "" {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), api.CtxUserID, userID))
}

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	verifiedUser := func(id, email, password string) *models.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return &models.User{ID: id, Email: email, PasswordHash: string(hash), EmailVerified: true}
	}

	tests := []struct {
		name       string
		method     string
		path       string
		userID     string
		body       any
		prepare    func(m *mock.Mocks, q *fakeQueue)
		wantStatus int
		checkBody  func(t *testing.T, b []byte)
		check      func(t *testing.T, m *mock.Mocks, q *fakeQueue)
	}{
		{
			name:       "Signup_InvalidRequest",
			method:     http.MethodPost,
			path:       "/signup",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Email",
			method:     http.MethodPost,
			path:       "/signup",
			body:       map[string]string{"name": "Alice", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Password",
			method:     http.MethodPost,
			path:       "/signup",
			body:       map[string]string{"name": "Alice", "email": "alice@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_Success_NoTokenIssued",
			method:     http.MethodPost,
			path:       "/signup",
			body:       map[string]string{"name": "Alice", "email": "alice@example.com", "password": "s3cret"},
			wantStatus: http.StatusAccepted,
			checkBody: func(t *testing.T, b []byte) {
				if bytes.Contains(b, []byte(`"token"`)) {
					t.Fatalf("signup must not issue a token: %s", string(b))
				}
			},
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				if len(q.types) != 1 || q.types[0] != "email.verify" {
					t.Fatalf("expected one verification email, got %v", q.types)
				}
				if len(m.UserRepo.Users) != 1 {
					t.Fatalf("expected one stored user")
				}
				for _, u := range m.UserRepo.Users {
					if u.EmailVerified {
						t.Fatalf("new user must start unverified")
					}
					if u.VerifyToken == "" {
						t.Fatalf("new user missing verify token")
					}
				}
			},
		},
		{
			name:   "Signup_StorageError",
			method: http.MethodPost,
			path:   "/signup",
			body:   map[string]string{"name": "Dup", "email": "dup@example.com", "password": "pw"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.CreateErr = fmt.Errorf("unique constraint")
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "Verify_Success",
			method: http.MethodGet,
			path:   "/verify?token=tok-1",
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u1"] = &models.User{ID: "u1", Email: "a@b.c", VerifyToken: "tok-1"}
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				if !m.UserRepo.Users["u1"].EmailVerified {
					t.Fatalf("user not marked verified")
				}
			},
		},
		{
			name:       "Verify_UnknownToken",
			method:     http.MethodGet,
			path:       "/verify?token=nope",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Signin_MissingUser",
			method:     http.MethodPost,
			path:       "/signin",
			body:       map[string]string{"email": "missing@example.com", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Signin_WrongPassword",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"email": "c@example.com", "password": "wrongpw"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u3"] = verifiedUser("u3", "c@example.com", "rightpw")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Signin_UnverifiedEmail",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"email": "new@example.com", "password": "hunter2"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				u := verifiedUser("u4", "new@example.com", "hunter2")
				u.EmailVerified = false
				u.OnboardingComplete = true
				u.ProfileSetupComplete = true
				m.UserRepo.Users["u4"] = u
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "Signin_Success_FirstTime",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]any{"email": "bob@example.com", "password": "hunter2", "remember_me": true},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u2"] = verifiedUser("u2", "bob@example.com", "hunter2")
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token  string `json:"token"`
					Status string `json:"status"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
				if ar.Status != string(models.StatusFirstTimeUser) {
					t.Fatalf("expected first_time_user status, got %q", ar.Status)
				}
				tok, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
				if err != nil {
					t.Fatalf("parse token: %v", err)
				}
				claims := tok.Claims.(jwt.MapClaims)
				if claims["user_id"] != "u2" {
					t.Fatalf("wrong user_id claim: %v", claims["user_id"])
				}
				if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
					t.Fatalf("invalid exp claim")
				}
			},
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				if !m.UserRepo.Users["u2"].RememberMe {
					t.Fatalf("remember_me not persisted")
				}
			},
		},
		{
			name:   "Signin_Success_FullyOnboarded",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"email": "done@example.com", "password": "hunter2"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				u := verifiedUser("u5", "done@example.com", "hunter2")
				u.OnboardingComplete = true
				u.ProfileSetupComplete = true
				m.UserRepo.Users["u5"] = u
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"status":"authenticated"`)) {
					t.Fatalf("expected authenticated status, got %s", string(b))
				}
			},
		},
		{
			name:       "ResendVerification_UnknownUser",
			method:     http.MethodPost,
			path:       "/resend",
			body:       map[string]string{"email": "ghost@example.com"},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "ResendVerification_AlreadyVerified",
			method: http.MethodPost,
			path:   "/resend",
			body:   map[string]string{"email": "c@example.com"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u3"] = verifiedUser("u3", "c@example.com", "pw")
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "ResendVerification_Success",
			method: http.MethodPost,
			path:   "/resend",
			body:   map[string]string{"email": "a@b.c"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u1"] = &models.User{ID: "u1", Email: "a@b.c", VerifyToken: "old"}
			},
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				if len(q.types) != 1 || q.types[0] != "email.verify" {
					t.Fatalf("expected verification email, got %v", q.types)
				}
				if m.UserRepo.Users["u1"].VerifyToken == "old" {
					t.Fatalf("verify token not rotated")
				}
			},
		},
		{
			name:       "ResetPassword_UnknownEmail_StillAccepted",
			method:     http.MethodPost,
			path:       "/reset",
			body:       map[string]string{"email": "ghost@example.com"},
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				if len(q.types) != 0 {
					t.Fatalf("no email should be queued for unknown address")
				}
			},
		},
		{
			name:   "ResetPassword_KnownEmail",
			method: http.MethodPost,
			path:   "/reset",
			body:   map[string]string{"email": "c@example.com"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u3"] = verifiedUser("u3", "c@example.com", "pw")
			},
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				if len(q.types) != 1 || q.types[0] != "email.reset" {
					t.Fatalf("expected reset email, got %v", q.types)
				}
			},
		},
		{
			name:   "ConfirmReset_Success",
			method: http.MethodPost,
			path:   "/reset/confirm",
			body:   map[string]string{"token": "rt-1", "new_password": "newpass1"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u3"] = &models.User{ID: "u3", Email: "c@example.com", ResetToken: "rt-1"}
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				u := m.UserRepo.Users["u3"]
				if u.ResetToken != "" {
					t.Fatalf("reset token not consumed")
				}
				if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass1")) != nil {
					t.Fatalf("new password not installed")
				}
			},
		},
		{
			name:       "ConfirmReset_ShortPassword",
			method:     http.MethodPost,
			path:       "/reset/confirm",
			body:       map[string]string{"token": "rt-1", "new_password": "abc"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ChangePassword_Unauthenticated",
			method:     http.MethodPost,
			path:       "/change-password",
			body:       map[string]string{"old_password": "a", "new_password": "longenough"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "ChangePassword_WrongOldPassword",
			method: http.MethodPost,
			path:   "/change-password",
			userID: "u3",
			body:   map[string]string{"old_password": "wrong", "new_password": "longenough"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u3"] = verifiedUser("u3", "c@example.com", "rightpw")
			},
			wantStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("Incorrect old password")) {
					t.Fatalf("expected incorrect-old-password message, got %s", string(b))
				}
			},
		},
		{
			name:   "ChangePassword_Success",
			method: http.MethodPost,
			path:   "/change-password",
			userID: "u3",
			body:   map[string]string{"old_password": "rightpw", "new_password": "longenough"},
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u3"] = verifiedUser("u3", "c@example.com", "rightpw")
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("Password updated successfully")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name:   "Signout_ClearsRememberMe_KeepsFlags",
			method: http.MethodPost,
			path:   "/signout",
			userID: "u5",
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u5"] = &models.User{
					ID: "u5", Email: "done@example.com", EmailVerified: true,
					OnboardingComplete: true, ProfileSetupComplete: true, RememberMe: true,
				}
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, m *mock.Mocks, q *fakeQueue) {
				u := m.UserRepo.Users["u5"]
				if u.RememberMe {
					t.Fatalf("remember_me not cleared")
				}
				if !u.OnboardingComplete || !u.ProfileSetupComplete {
					t.Fatalf("onboarding flags must survive signout")
				}
			},
		},
		{
			name:       "Status_Unauthenticated",
			method:     http.MethodGet,
			path:       "/status",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"status":"unauthenticated"`)) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name:   "Status_ProfileSetupRequired",
			method: http.MethodGet,
			path:   "/status",
			userID: "u6",
			prepare: func(m *mock.Mocks, q *fakeQueue) {
				m.UserRepo.Users["u6"] = &models.User{
					ID: "u6", Email: "mid@example.com", EmailVerified: true, OnboardingComplete: true,
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"status":"profile_setup_required"`)) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			queue := &fakeQueue{}
			if tt.prepare != nil {
				tt.prepare(mocks, queue)
			}
			handler := api.NewAuthHandler(mocks.UserRepo, queue, secret, tokenDur)

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := withUser(httptest.NewRequest(tt.method, tt.path, bodyReader), tt.userID)
			w := httptest.NewRecorder()

			switch {
			case tt.path == "/signup":
				handler.Signup(w, req)
			case tt.path == "/signin":
				handler.Signin(w, req)
			case tt.path == "/resend":
				handler.ResendVerification(w, req)
			case tt.path == "/reset":
				handler.ResetPassword(w, req)
			case tt.path == "/reset/confirm":
				handler.ConfirmReset(w, req)
			case tt.path == "/change-password":
				handler.ChangePassword(w, req)
			case tt.path == "/signout":
				handler.Signout(w, req)
			case tt.path == "/status":
				handler.Status(w, req)
			case strings.HasPrefix(tt.path, "/verify"):
				handler.Verify(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
			if tt.check != nil {
				tt.check(t, mocks, queue)
			}
		})
	}
}
