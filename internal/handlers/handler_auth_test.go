package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SscSPs/utang_ledger/internal/dto"
	"github.com/SscSPs/utang_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	cfg := testConfig()
	container, _, err := newTestContainer(cfg)
	suite.Require().NoError(err)
	suite.router, err = newTestRouter(cfg, container)
	suite.Require().NoError(err)
}

func (suite *AuthHandlerTestSuite) register(email string) *http.Response {
	w := doJSON(suite.router, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email: email, Password: "password123", FirstName: "Ana",
	}, "")
	return w.Result()
}

func (suite *AuthHandlerTestSuite) login(email, password string) (int, dto.LoginResponse) {
	w := doJSON(suite.router, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Email: email, Password: password}, "")
	var resp dto.LoginResponse
	if w.Code == http.StatusOK {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func (suite *AuthHandlerTestSuite) TestRegister() {
	suite.Equal(http.StatusCreated, suite.register("ana@example.com").StatusCode)
	suite.Equal(http.StatusConflict, suite.register("ANA@example.com").StatusCode)

	w := doJSON(suite.router, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email: "bob@example.com", Password: "short",
	}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLoginAndMe() {
	suite.Require().Equal(http.StatusCreated, suite.register("ana@example.com").StatusCode)

	code, login := suite.login("ana@example.com", "password123")
	suite.Require().Equal(http.StatusOK, code)
	suite.NotEmpty(login.Token)
	suite.Equal("ana@example.com", login.User.Email)

	claims, err := utils.ParseAndValidateJWT(login.Token, testJWTSecret)
	suite.Require().NoError(err)
	suite.Equal(login.User.UserID, claims.Subject)
	suite.NotEmpty(claims.ID)

	w := doJSON(suite.router, http.MethodGet, "/api/v1/auth/me", nil, login.Token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &me))
	suite.Equal(login.User.UserID, me.UserID)
	suite.Equal("Ana", me.FirstName)
}

func (suite *AuthHandlerTestSuite) TestLogin_WrongCredentials() {
	suite.Require().Equal(http.StatusCreated, suite.register("ana@example.com").StatusCode)

	code, _ := suite.login("ana@example.com", "wrong-password")
	suite.Equal(http.StatusUnauthorized, code)

	code, _ = suite.login("nobody@example.com", "password123")
	suite.Equal(http.StatusUnauthorized, code)

	w := doJSON(suite.router, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "not-an-email"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLogout_RevokesToken() {
	suite.Require().Equal(http.StatusCreated, suite.register("ana@example.com").StatusCode)
	_, login := suite.login("ana@example.com", "password123")

	w := doJSON(suite.router, http.MethodPost, "/api/v1/auth/logout", nil, login.Token)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	w = doJSON(suite.router, http.MethodGet, "/api/v1/auth/me", nil, login.Token)
	suite.Equal(http.StatusUnauthorized, w.Code)
	w = doJSON(suite.router, http.MethodGet, "/api/v1/debts", nil, login.Token)
	suite.Equal(http.StatusUnauthorized, w.Code)

	// A fresh sign in still works.
	code, again := suite.login("ana@example.com", "password123")
	suite.Require().Equal(http.StatusOK, code)
	w = doJSON(suite.router, http.MethodGet, "/api/v1/auth/me", nil, again.Token)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AuthHandlerTestSuite) TestGoogleDisabled() {
	w := doJSON(suite.router, http.MethodPost, "/api/v1/auth/google", dto.GoogleIDTokenRequest{IDToken: "x"}, "")
	suite.Equal(http.StatusNotFound, w.Code)

	w = doJSON(suite.router, http.MethodGet, "/api/v1/auth/google/login", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AuthHandlerTestSuite) TestHealth() {
	w := doJSON(suite.router, http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func TestLogin_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimit = "2-M"
	container, _, err := newTestContainer(cfg)
	require.NoError(t, err)
	router, err := newTestRouter(cfg, container)
	require.NoError(t, err)

	body := dto.LoginRequest{Email: "ana@example.com", Password: "password123"}
	for i := 0; i < 2; i++ {
		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}
	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
