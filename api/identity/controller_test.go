package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-labyrinth/domain"
	"github.com/beka-birhanu/vinom-labyrinth/infrastruture/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	user *dmn.User
}

func (f *fakeAuth) Register(_ context.Context, username, password string) error {
	switch {
	case username == "taken":
		return dmn.ErrUsernameTaken
	case password == "weak":
		return dmn.ErrWeakPassword
	}
	return nil
}

func (f *fakeAuth) SignIn(_ context.Context, username, password string) (*dmn.User, string, error) {
	if username != f.user.Username || password != "secret" {
		return nil, "", errors.New("invalid username or password")
	}
	return f.user, "signed-token", nil
}

func newEngine(handlers ...func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/v1")
	for _, h := range handlers {
		h(group)
	}
	return engine
}

func post(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIdentityServer(t *testing.T) {
	user := &dmn.User{ID: uuid.New(), Username: "walker"}
	engine := newEngine(NewIdentityServer(&fakeAuth{user: user}).RegisterPublic)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{name: "register", path: "/v1/auth/register", body: `{"username":"walker","password":"strong"}`, code: http.StatusCreated},
		{name: "register missing password", path: "/v1/auth/register", body: `{"username":"walker"}`, code: http.StatusBadRequest},
		{name: "register weak password", path: "/v1/auth/register", body: `{"username":"walker","password":"weak"}`, code: http.StatusBadRequest},
		{name: "register taken", path: "/v1/auth/register", body: `{"username":"taken","password":"strong"}`, code: http.StatusConflict},
		{name: "login wrong password", path: "/v1/auth/login", body: `{"username":"walker","password":"guess"}`, code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(engine, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}

	t.Run("login", func(t *testing.T) {
		w := post(engine, "/v1/auth/login", `{"username":"walker","password":"secret"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, AuthResponse{ID: user.ID.String(), Username: "walker", Token: "signed-token"}, resp)
	})
}

func TestAuthoriz(t *testing.T) {
	tokens := token.NewJwtService("test-secret", "labyrinth-test")
	owner := uuid.New()

	engine := newEngine(func(g *gin.RouterGroup) {
		g.Use(Authoriz(tokens))
		g.GET("/me", func(c *gin.Context) {
			id, ok := UserID(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, "%s", id)
		})
	})

	valid, err := tokens.Generate(map[string]interface{}{"userID": owner}, time.Minute)
	require.NoError(t, err)
	noUser, err := tokens.Generate(map[string]interface{}{"username": "walker"}, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "valid", header: "Bearer " + valid, code: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, code: http.StatusOK},
		{name: "missing header", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, code: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer garbage", code: http.StatusUnauthorized},
		{name: "token without user", header: "Bearer " + noUser, code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, owner.String(), w.Body.String())
			}
		})
	}
}
