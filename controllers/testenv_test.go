package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"teamserver/broker"
	"teamserver/crypto"
	"teamserver/database"
	"teamserver/models"
	"teamserver/routes"
)

// env is a full server wired against an in-memory store and a disconnected
// gateway, exercised through the real router.
type env struct {
	t      *testing.T
	store  *database.Store
	keys   *crypto.ServerKeyPair
	router *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	store, err := database.Open(db)
	require.NoError(t, err)

	keys, err := crypto.GenerateServerKeyPair()
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := broker.NewGateway(nil, nil, log)

	return &env{
		t:      t,
		store:  store,
		keys:   keys,
		router: routes.SetupRouter(store, keys, gateway, log),
	}
}

// provisionOperator registers an operator with a fresh keypair and returns
// the signing key the operator-side tooling would hold.
func (e *env) provisionOperator(username, secret string) *[64]byte {
	e.t.Helper()
	verifyKey, signingKey, err := crypto.GenerateOperatorKeyPair()
	require.NoError(e.t, err)
	require.NoError(e.t, e.store.CreateOperator(&models.Operator{
		Username:    username,
		PublicKey:   verifyKey,
		LoginSecret: secret,
	}))
	return signingKey
}

// requestToken runs the challenge flow for an operator and returns the raw
// response.
func (e *env) requestToken(username, secret string, signingKey *[64]byte) *httptest.ResponseRecorder {
	e.t.Helper()
	blob, err := crypto.SignAndSeal([]byte(secret), signingKey, e.keys.Public)
	require.NoError(e.t, err)

	req := httptest.NewRequest(http.MethodGet, "/op/auth/token/request", nil)
	req.Header.Set("X-ID", username)
	req.Header.Set("X-Signature", blob)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// requestRaw hits the token request endpoint with exactly the given
// headers.
func (e *env) requestRaw(headers map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/op/auth/token/request", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// authenticate runs the challenge flow and returns the issued token,
// failing the test if authentication does not succeed.
func (e *env) authenticate(username, secret string, signingKey *[64]byte) string {
	e.t.Helper()
	w := e.requestToken(username, secret, signingKey)
	require.Equal(e.t, http.StatusOK, w.Code)
	body := decode(e.t, w)
	require.Equal(e.t, true, body["status"])
	token, ok := body["token"].(string)
	require.True(e.t, ok)
	return token
}

// do issues an authenticated request. A nil body sends no payload; anything
// else is marshalled to JSON.
func (e *env) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
