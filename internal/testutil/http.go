package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID          string
	Name        string
	Email       string
	Designation string
}

// AdminUser returns a TestUser with the ADMIN designation.
func AdminUser() TestUser {
	return TestUser{
		ID:          primitive.NewObjectID().Hex(),
		Name:        "Test Admin",
		Email:       "admin@test.edu",
		Designation: "ADMIN",
	}
}

// HODUser returns a TestUser with the HOD designation.
func HODUser() TestUser {
	return TestUser{
		ID:          primitive.NewObjectID().Hex(),
		Name:        "Test HOD",
		Email:       "hod@test.edu",
		Designation: "HOD",
	}
}

// FacultyUser returns a TestUser with the Faculty designation.
func FacultyUser() TestUser {
	return TestUser{
		ID:          primitive.NewObjectID().Hex(),
		Name:        "Test Faculty",
		Email:       "faculty@test.edu",
		Designation: "Faculty",
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Designation: user.Designation,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// AssertJSONContentType checks the response declares a JSON body.
func (r *ResponseRecorder) AssertJSONContentType(t interface{ Errorf(string, ...any) }) {
	ct := r.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type: got %q, want application/json", ct)
	}
}
