package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/service"
)

// fakeDirectory maps emails to roles; everyone else is a Student.
type fakeDirectory struct {
	roles map[string]model.Role
	err   error
}

func (f *fakeDirectory) RoleOf(_ context.Context, email string) (model.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	if role, ok := f.roles[email]; ok {
		return role, nil
	}
	return model.RoleStudent, nil
}

func rbacTestRouter(authService *service.AuthService, dir RoleDirectory, role model.Role) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", RequireAuth(authService), RequireRole(dir, role), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func doAuthed(t *testing.T, r *gin.Engine, authService *service.AuthService, email string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := authService.IssueToken(email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole_Allows(t *testing.T) {
	authService := newTestAuthService(time.Hour)
	dir := &fakeDirectory{roles: map[string]model.Role{"admin@example.com": model.RoleAdmin}}
	r := rbacTestRouter(authService, dir, model.RoleAdmin)

	w := doAuthed(t, r, authService, "admin@example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireRole_RejectsWrongRole(t *testing.T) {
	authService := newTestAuthService(time.Hour)
	dir := &fakeDirectory{roles: map[string]model.Role{"ines@example.com": model.RoleInstructor}}
	r := rbacTestRouter(authService, dir, model.RoleAdmin)

	w := doAuthed(t, r, authService, "ines@example.com")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

// An identity with no directory record resolves to Student and never
// passes a privileged guard.
func TestRequireRole_UnknownIdentityIsStudent(t *testing.T) {
	authService := newTestAuthService(time.Hour)
	dir := &fakeDirectory{roles: map[string]model.Role{}}
	r := rbacTestRouter(authService, dir, model.RoleAdmin)

	w := doAuthed(t, r, authService, "ghost@example.com")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireRole_DirectoryErrorFailsClosed(t *testing.T) {
	authService := newTestAuthService(time.Hour)
	dir := &fakeDirectory{err: errors.New("directory down")}
	r := rbacTestRouter(authService, dir, model.RoleAdmin)

	w := doAuthed(t, r, authService, "admin@example.com")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRequireRole_RequiresAuthFirst(t *testing.T) {
	authService := newTestAuthService(time.Hour)
	dir := &fakeDirectory{roles: map[string]model.Role{"admin@example.com": model.RoleAdmin}}
	r := rbacTestRouter(authService, dir, model.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
