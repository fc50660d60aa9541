package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallbooking/internal/config"
	"hallbooking/internal/model"
	"hallbooking/internal/utils"
)

func testCfg() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
}

type authEnv struct {
	e      *echo.Echo
	h      *AuthHandler
	users  *memUsers
	tokens *memTokens
}

func newAuthEnv() *authEnv {
	users := newMemUsers()
	tokens := newMemTokens()
	return &authEnv{
		e:      echo.New(),
		h:      NewAuthHandler(testCfg(), users, tokens),
		users:  users,
		tokens: tokens,
	}
}

func (env *authEnv) post(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func (env *authEnv) register(t *testing.T, name, login, password string) authResp {
	t.Helper()
	c, rec := env.post("/v1/auth/register",
		`{"name":"`+name+`","login":"`+login+`","password":"`+password+`"}`)
	require.NoError(t, env.h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var out authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegister(t *testing.T) {
	env := newAuthEnv()

	out := env.register(t, "Carla", "carla@example.com", "secret")
	assert.Equal(t, model.RoleCustomer, out.User.Role)
	assert.NotEmpty(t, out.Access.Token)
	assert.NotEmpty(t, out.Refresh.Token)

	// The access token is immediately usable and carries the identity.
	claims, err := utils.ParseAccessToken("test-secret", out.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, model.RoleCustomer, claims.Role)

	// Same active login again conflicts, whatever the letter case.
	c, rec := env.post("/v1/auth/register",
		`{"name":"Other","login":"CARLA@example.com","password":"pw"}`)
	require.NoError(t, env.h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	env := newAuthEnv()

	for _, body := range []string{
		`{"login":"a@b.c","password":"pw"}`,
		`{"name":"X","password":"pw"}`,
		`{"name":"X","login":"a@b.c"}`,
	} {
		c, rec := env.post("/v1/auth/register", body)
		require.NoError(t, env.h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestLogin(t *testing.T) {
	env := newAuthEnv()
	env.register(t, "Carla", "carla@example.com", "secret")

	c, rec := env.post("/v1/auth/login", `{"login":"carla@example.com","password":"secret"}`)
	require.NoError(t, env.h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = env.post("/v1/auth/login", `{"login":"carla@example.com","password":"wrong"}`)
	require.NoError(t, env.h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown account answers exactly like a wrong password.
	c, rec = env.post("/v1/auth/login", `{"login":"nobody@example.com","password":"secret"}`)
	require.NoError(t, env.h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh(t *testing.T) {
	env := newAuthEnv()
	out := env.register(t, "Carla", "carla@example.com", "secret")

	c, rec := env.post("/v1/auth/refresh", `{"refresh_token":"`+out.Refresh.Token+`"}`)
	require.NoError(t, env.h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Access tokenPart `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := utils.ParseAccessToken("test-secret", resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)

	// The refresh token is not rotated; it keeps working.
	c, rec = env.post("/v1/auth/refresh", `{"refresh_token":"`+out.Refresh.Token+`"}`)
	require.NoError(t, env.h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_Rejections(t *testing.T) {
	env := newAuthEnv()

	// Missing and unknown tokens are both a plain 401.
	c, rec := env.post("/v1/auth/refresh", `{}`)
	require.NoError(t, env.h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = env.post("/v1/auth/refresh", `{"refresh_token":"deadbeef"}`)
	require.NoError(t, env.h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_RevokedToken(t *testing.T) {
	env := newAuthEnv()
	out := env.register(t, "Carla", "carla@example.com", "secret")

	// Logout with the specific token in the body revokes just it; no
	// access token is needed for that.
	c, rec := env.post("/v1/auth/logout", `{"refresh_token":"`+out.Refresh.Token+`"}`)
	require.NoError(t, env.h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = env.post("/v1/auth/refresh", `{"refresh_token":"`+out.Refresh.Token+`"}`)
	require.NoError(t, env.h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Revoking an already revoked token still answers 200.
	c, rec = env.post("/v1/auth/logout", `{"refresh_token":"`+out.Refresh.Token+`"}`)
	require.NoError(t, env.h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_RevokesAllSessions(t *testing.T) {
	env := newAuthEnv()
	out := env.register(t, "Carla", "carla@example.com", "secret")

	c, rec := env.post("/v1/auth/login", `{"login":"carla@example.com","password":"secret"}`)
	require.NoError(t, env.h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var second authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	// Logout without a body needs the bearer token and kills every
	// session of the account.
	c, rec = env.post("/v1/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer "+second.Access.Token)
	require.NoError(t, env.h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, tok := range []string{out.Refresh.Token, second.Refresh.Token} {
		c, rec = env.post("/v1/auth/refresh", `{"refresh_token":"`+tok+`"}`)
		require.NoError(t, env.h.Refresh(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestLogout_NoIdentity(t *testing.T) {
	env := newAuthEnv()

	// Neither a refresh token nor a bearer token: nothing to revoke.
	c, rec := env.post("/v1/auth/logout", "")
	require.NoError(t, env.h.Logout(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_DeactivatedAccount(t *testing.T) {
	env := newAuthEnv()
	out := env.register(t, "Carla", "carla@example.com", "secret")

	require.NoError(t, env.users.Deactivate(t.Context(), out.User.ID))

	c, rec := env.post("/v1/auth/refresh", `{"refresh_token":"`+out.Refresh.Token+`"}`)
	require.NoError(t, env.h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
