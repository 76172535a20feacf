package session_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/bmsit/facultymeet/internal/app/features/session"
	userstore "github.com/bmsit/facultymeet/internal/app/store/users"
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/bmsit/facultymeet/internal/app/system/ratelimit"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/bmsit/facultymeet/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database, logins *ratelimit.LoginLimiter) *session.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return &session.Handler{
		Users:    userstore.New(db),
		Sessions: sm,
		Logins:   logins,
		Log:      zap.NewNop(),
	}
}

func loginRequest(email string) *http.Request {
	req := testutil.NewRequest(http.MethodPost, "/")
	req.Header.Set("X-Auth-Email", email)
	return req
}

func TestHandleLogin_UnknownIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, ratelimit.NewLoginLimiter())

	rec := testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, loginRequest("nobody@test.edu"))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleLogin_IdentityRateLimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute))

	// Failed attempts count against the identity window.
	for i := 0; i < 2; i++ {
		rec := testutil.NewRecorder()
		h.HandleLogin(rec.ResponseRecorder, loginRequest("nobody@test.edu"))
		rec.AssertStatus(t, http.StatusForbidden)
	}

	rec := testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, loginRequest("nobody@test.edu"))
	rec.AssertStatus(t, http.StatusTooManyRequests)

	// Other identities are unaffected.
	rec = testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, loginRequest("somebody@test.edu"))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleLogin_SuccessResetsIdentityWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := newHandler(t, db, ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute))

	f.CreateUser(ctx, "Prof. Rao", "rao@test.edu", "HOD")

	// More successful logins than the identity limit: each success clears
	// the window, so none is ever blocked.
	for i := 0; i < 4; i++ {
		rec := testutil.NewRecorder()
		h.HandleLogin(rec.ResponseRecorder, loginRequest("rao@test.edu"))
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, "HOD")
	}
}

func TestHandleLogin_DisabledAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	h := newHandler(t, db, ratelimit.NewLoginLimiter())

	store := userstore.New(db)
	if _, err := store.Create(ctx, models.User{
		FullName:    "Prof. Iyer",
		Email:       "iyer@test.edu",
		Designation: "Faculty",
		Status:      "disabled",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := testutil.NewRecorder()
	h.HandleLogin(rec.ResponseRecorder, loginRequest("iyer@test.edu"))
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "disabled")
}
