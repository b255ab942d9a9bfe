package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"go-ppm-dashboard/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func newApp(auth *Auth) *fiber.App {
	app := fiber.New()
	app.Get("/open", auth.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString(Operator(c))
	})
	app.Post("/guarded", auth.RequireAuth(), RequirePrivilege(jwt.PrivProductCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(204)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	signer := jwt.NewSigner("secret", time.Hour)
	app := newApp(NewAuth(signer, true))

	viewer, _ := signer.GenerateToken("viewer", []string{jwt.PrivProductView})
	creator, _ := signer.GenerateToken("creator", []string{jwt.PrivProductCreate})

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"missing token", "GET", "/open", "", 401},
		{"bad format", "GET", "/open", "Token abc", 401},
		{"bad token", "GET", "/open", "Bearer abc", 401},
		{"valid token", "GET", "/open", "Bearer " + viewer, 200},
		{"missing privilege", "POST", "/guarded", "Bearer " + viewer, 403},
		{"has privilege", "POST", "/guarded", "Bearer " + creator, 204},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if resp.StatusCode != tt.want {
			t.Fatalf("%s: want=%d got=%d", tt.name, tt.want, resp.StatusCode)
		}
	}
}

func TestDisabledAuthGrantsEverything(t *testing.T) {
	app := newApp(NewAuth(jwt.NewSigner("", 0), false))
	resp, err := app.Test(httptest.NewRequest("POST", "/guarded", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("want=204 got=%d", resp.StatusCode)
	}
}
