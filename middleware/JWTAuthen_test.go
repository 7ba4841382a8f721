package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/model"
	"teamboard/repository/memory"
	"teamboard/services"
)

func newEngine(t *testing.T, users ...*model.User) (*gin.Engine, *services.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New().Repositories()
	for _, u := range users {
		if err := store.Users.Create(context.Background(), u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	tokens := services.NewTokenManager("secret", time.Hour)

	r := gin.New()
	auth := Authenticated(tokens, store.Users)
	r.GET("/me", append(auth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID, "userId": c.GetString("userId")})
	})...)
	r.GET("/admin", append(auth, AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })...)
	r.GET("/root", append(auth, SuperuserMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })...)
	return r, tokens
}

func get(r *gin.Engine, path, header string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAccessToken(t *testing.T) {
	r, tokens := newEngine(t, &model.User{ID: "u1", Email: "u1@example.com"})
	token, _, err := tokens.CreateAccessToken("u1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	cases := map[string]struct {
		header string
		want   int
	}{
		"missing":     {"", http.StatusUnauthorized},
		"no scheme":   {token, http.StatusUnauthorized},
		"wrong type":  {"Basic " + token, http.StatusUnauthorized},
		"garbage":     {"Bearer abc.def.ghi", http.StatusUnauthorized},
		"valid token": {"Bearer " + token, http.StatusOK},
	}
	for name, tc := range cases {
		if got := get(r, "/me", tc.header); got != tc.want {
			t.Errorf("%s: expected %d, got %d", name, tc.want, got)
		}
	}
}

func TestExpiredToken(t *testing.T) {
	r, _ := newEngine(t, &model.User{ID: "u1", Email: "u1@example.com"})
	expired := services.NewTokenManager("secret", -time.Minute)
	token, _, err := expired.CreateAccessToken("u1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if got := get(r, "/me", "Bearer "+token); got != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an expired token, got %d", got)
	}
}

func TestRoleMiddleware(t *testing.T) {
	r, tokens := newEngine(t,
		&model.User{ID: "plain", Email: "plain@example.com"},
		&model.User{ID: "admin", Email: "admin@example.com", IsAdmin: true},
		&model.User{ID: "root", Email: "root@example.com", IsSuperuser: true},
	)
	bearer := func(id string) string {
		token, _, _ := tokens.CreateAccessToken(id)
		return "Bearer " + token
	}

	if got := get(r, "/admin", bearer("plain")); got != http.StatusForbidden {
		t.Errorf("plain user on /admin: got %d", got)
	}
	if got := get(r, "/admin", bearer("admin")); got != http.StatusNoContent {
		t.Errorf("admin on /admin: got %d", got)
	}
	if got := get(r, "/admin", bearer("root")); got != http.StatusNoContent {
		t.Errorf("superuser on /admin: got %d", got)
	}
	if got := get(r, "/root", bearer("admin")); got != http.StatusForbidden {
		t.Errorf("admin on /root: got %d", got)
	}
	if got := get(r, "/root", bearer("root")); got != http.StatusNoContent {
		t.Errorf("superuser on /root: got %d", got)
	}
}
