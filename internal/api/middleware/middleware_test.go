package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() { gin.SetMode(gin.TestMode) }

type staticRefresher struct {
	role models.Role
	err  error
}

func (r staticRefresher) Refresh(_ context.Context, id auth.Identity) (auth.Identity, error) {
	if r.err != nil {
		return auth.Identity{}, r.err
	}
	id.Role = r.role
	return id, nil
}

func newEngine(t *testing.T, refresh IdentityRefresher, extra ...gin.HandlerFunc) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	tm, err := auth.NewTokenManager("mw-secret", 0)
	require.NoError(t, err)

	r := gin.New()
	handlers := append([]gin.HandlerFunc{Protect(tm, refresh)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": id.Role, "id": id.UserID.Hex()})
	})
	r.GET("/x", handlers...)
	return r, tm
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect(t *testing.T) {
	r, tm := newEngine(t, nil)
	uid := primitive.NewObjectID()
	tok, err := tm.Issue(uid, "a@b.c", models.RoleUser)
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"missing bearer token"}`, w.Body.String())
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := do(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), uid.Hex())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok})
		w := do(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProtect_Refresh(t *testing.T) {
	r, tm := newEngine(t, staticRefresher{role: models.RoleCompany}, Authorize(models.RoleCompany))
	tok, err := tm.Issue(primitive.NewObjectID(), "a@b.c", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company"`)

	r, tm = newEngine(t, staticRefresher{err: utils.E(utils.CodeUnauthorized, "op", "account is disabled", nil)})
	tok, err = tm.Issue(primitive.NewObjectID(), "a@b.c", models.RoleUser)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "account is disabled")
}

func TestAuthorize(t *testing.T) {
	r, tm := newEngine(t, nil, Authorize(models.RoleCompany, models.RoleAdmin))

	for role, want := range map[models.Role]int{
		models.RoleUser:    http.StatusForbidden,
		models.RoleCompany: http.StatusOK,
		models.RoleAdmin:   http.StatusOK,
	} {
		tok, err := tm.Issue(primitive.NewObjectID(), "a@b.c", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		assert.Equal(t, want, do(r, req).Code, role)
	}
}

func TestIPLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/x", NewIPLimiter(2).Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := func(ip string) int {
		rq := httptest.NewRequest(http.MethodGet, "/x", nil)
		rq.RemoteAddr = ip + ":1234"
		return do(r, rq).Code
	}
	assert.Equal(t, http.StatusNoContent, req("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, req("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, req("10.0.0.2"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-1")
	w := do(r, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}
