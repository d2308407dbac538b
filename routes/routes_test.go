package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kariqs/netshop-api/controllers"
	"github.com/Kariqs/netshop-api/events"
	"github.com/Kariqs/netshop-api/initializers"
	"github.com/Kariqs/netshop-api/metrics"
	"github.com/Kariqs/netshop-api/middlewares"
	"github.com/Kariqs/netshop-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	keys []string
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type testServer struct {
	t        *testing.T
	engine   *gin.Engine
	uploader *fakeUploader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := initializers.OpenDB("sqlite", ":memory:", false)
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	initializers.DB = db
	initializers.Redis = nil
	initializers.Cfg.JWTSecret = "test-secret"

	uploader := &fakeUploader{}
	controllers.Setup(controllers.Deps{
		Publisher: events.NewLogPublisher(slog.New(slog.NewTextHandler(io.Discard, nil))),
		Images:    uploader,
		Metrics:   metrics.New(),
	})

	engine := gin.New()
	Register(engine)
	return &testServer{t: t, engine: engine, uploader: uploader}
}

type request struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func (s *testServer) do(r request) *httptest.ResponseRecorder {
	s.t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(s.t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.cookie != nil {
		req.AddCookie(r.cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) login(identifier, password string) string {
	s.t.Helper()
	w := s.do(request{method: http.MethodPost, path: "/auth/login", body: gin.H{"identifier": identifier, "password": password}})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode(s.t, w)["token"].(string)
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	_, err := controllers.CreateAccount(initializers.DB, models.SignupData{
		Username: "admin", Email: "admin@example.com", Password: "admin-password",
	}, "admin")
	require.NoError(s.t, err)
	return s.login("admin", "admin-password")
}

func (s *testServer) customerToken(username string) string {
	s.t.Helper()
	w := s.do(request{method: http.MethodPost, path: "/auth/signup", body: gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "customer-password",
	}})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(username+"@example.com", "customer-password")
}

// seedCatalog creates both categories and one product of each variant
// through the admin API and returns the product ids.
func (s *testServer) seedCatalog(admin string) (notebookID, phoneID uint) {
	s.t.Helper()
	var categoryIDs []uint
	for _, c := range []gin.H{{"name": "Notebooks", "slug": "notebooks"}, {"name": "Smartphones", "slug": "smartphones"}} {
		w := s.do(request{method: http.MethodPost, path: "/categories", body: c, token: admin})
		require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
		categoryIDs = append(categoryIDs, uint(decode(s.t, w)["id"].(float64)))
	}

	w := s.do(request{method: http.MethodPost, path: "/products/notebook", token: admin, body: gin.H{
		"categoryId": categoryIDs[0], "title": "ThinkPad X1", "slug": "thinkpad-x1", "price": "1999.99",
		"diagonal": "14", "displayType": "IPS", "processorFreq": "3.0 GHz", "ram": "16 GB",
		"video": "Iris Xe", "timeWithoutCharge": "12 h",
	}})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	notebookID = uint(decode(s.t, w)["product"].(map[string]any)["id"].(float64))

	w = s.do(request{method: http.MethodPost, path: "/products/smartphone", token: admin, body: gin.H{
		"categoryId": categoryIDs[1], "title": "Pixel 9", "slug": "pixel-9", "price": "500.00",
		"diagonal": "6.3", "displayType": "OLED", "resolution": "2424x1080", "accumVolume": "4700 mAh",
		"ram": "12 GB", "sd": false, "mainCamMp": "50", "frontalCamMp": "10.5",
	}})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	phoneID = uint(decode(s.t, w)["product"].(map[string]any)["id"].(float64))
	return notebookID, phoneID
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	body := gin.H{"name": "Notebooks", "slug": "notebooks"}

	w := s.do(request{method: http.MethodPost, path: "/categories", body: body})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(request{method: http.MethodPost, path: "/categories", body: body, token: s.customerToken("carol")})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(request{method: http.MethodPost, path: "/categories", body: body, token: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.seedCatalog(admin)

	t.Run("duplicate slug", func(t *testing.T) {
		w := s.do(request{method: http.MethodPost, path: "/categories", token: admin, body: gin.H{"name": "Smartphones", "slug": "smartphones"}})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unmapped category name", func(t *testing.T) {
		w := s.do(request{method: http.MethodPost, path: "/categories", token: admin, body: gin.H{"name": "Tablets", "slug": "tablets"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("home with priority", func(t *testing.T) {
		w := s.do(request{method: http.MethodGet, path: "/?priority=smartphone"})
		require.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		products := out["products"].([]any)
		require.Len(t, products, 2)
		assert.Equal(t, "smartphone", products[0].(map[string]any)["variant"])
		assert.Equal(t, "/products/smartphone/pixel-9", products[0].(map[string]any)["url"])

		counts := out["categories"].([]any)
		require.Len(t, counts, 2)
		for _, c := range counts {
			assert.Equal(t, 1.0, c.(map[string]any)["count"])
		}
	})

	t.Run("home with unknown priority", func(t *testing.T) {
		w := s.do(request{method: http.MethodGet, path: "/?priority=tablet"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("category detail", func(t *testing.T) {
		w := s.do(request{method: http.MethodGet, path: "/category/notebooks"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["products"].([]any), 1)

		w = s.do(request{method: http.MethodGet, path: "/category/tablets"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("product detail renders specification", func(t *testing.T) {
		w := s.do(request{method: http.MethodGet, path: "/products/smartphone/pixel-9"})
		require.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		html := out["specHtml"].(string)
		assert.Contains(t, html, "<td>Presence of sd card</td>")
		assert.NotContains(t, html, "Max sd memory")
		assert.Len(t, out["specification"].([]any), 8)

		w = s.do(request{method: http.MethodGet, path: "/products/tablet/pixel-9"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("categories list", func(t *testing.T) {
		w := s.do(request{method: http.MethodGet, path: "/categories"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["categories"].([]any), 2)
	})
}

func pngUpload(t *testing.T, w, h int) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, w, h))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "photo.PNG")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadProductImage(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.seedCatalog(admin)

	upload := func(w, h int) *httptest.ResponseRecorder {
		body, contentType := pngUpload(t, w, h)
		req := httptest.NewRequest(http.MethodPost, "/products/notebook/thinkpad-x1/image", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+admin)
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		return rec
	}

	rec := upload(300, 300)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.uploader.keys)

	rec = upload(800, 600)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, s.uploader.keys, 1)
	assert.Regexp(t, `^products/notebook/thinkpad-x1-.+\.png$`, s.uploader.keys[0])

	w := s.do(request{method: http.MethodGet, path: "/products/notebook/thinkpad-x1"})
	require.Equal(t, http.StatusOK, w.Code)
	product := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/"+s.uploader.keys[0], product["image"])
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAnonymousCart(t *testing.T) {
	s := newTestServer(t)
	_, phoneID := s.seedCatalog(s.adminToken())

	w := s.do(request{method: http.MethodPost, path: "/cart/items", body: gin.H{"variant": "smartphone", "productId": phoneID, "qty": 3}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	out := decode(t, w)
	assert.Equal(t, "1500", out["finalPrice"])
	assert.Equal(t, 1.0, out["totalProducts"])

	// the same cookie finds the same cart
	w = s.do(request{method: http.MethodGet, path: "/cart", cookie: cookie})
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].(map[string]any)["qty"])

	// a new visitor starts empty
	w = s.do(request{method: http.MethodGet, path: "/cart"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])

	w = s.do(request{method: http.MethodPatch, path: fmt.Sprintf("/cart/items/smartphone/%d", phoneID), body: gin.H{"qty": 0}, cookie: cookie})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(request{method: http.MethodPost, path: "/cart/items", body: gin.H{"variant": "notebook", "productId": 999}, cookie: cookie})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(request{method: http.MethodDelete, path: fmt.Sprintf("/cart/items/smartphone/%d", phoneID), cookie: cookie})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", decode(t, w)["finalPrice"])
}

func TestCheckoutAndOrderStatus(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	notebookID, phoneID := s.seedCatalog(admin)
	customer := s.customerToken("dave")

	w := s.do(request{method: http.MethodPost, path: "/checkout", token: customer, body: gin.H{
		"firstName": "Dave", "lastName": "Lister", "phone": "+4400000", "buyingType": "self",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	w = s.do(request{method: http.MethodPost, path: "/cart/items", token: customer, body: gin.H{"variant": "notebook", "productId": notebookID}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(request{method: http.MethodPost, path: "/cart/items", token: customer, body: gin.H{"variant": "smartphone", "productId": phoneID, "qty": 2}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2999.99", decode(t, w)["finalPrice"])

	w = s.do(request{method: http.MethodPost, path: "/checkout", token: customer, body: gin.H{
		"firstName": "Dave", "lastName": "Lister", "phone": "+4400000", "buyingType": "delivery",
		"address": "Red Dwarf, deck 16",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode(t, w)["order"].(map[string]any)
	orderID := uint(order["id"].(float64))
	assert.Equal(t, "new", order["status"])

	w = s.do(request{method: http.MethodGet, path: "/cart", token: customer})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"], "checkout starts a fresh cart")

	w = s.do(request{method: http.MethodGet, path: "/orders/mine", token: customer})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"].([]any), 1)

	w = s.do(request{method: http.MethodGet, path: fmt.Sprintf("/orders/%d", orderID), token: s.customerToken("kryten")})
	assert.Equal(t, http.StatusNotFound, w.Code, "other customers cannot see the order")

	statusPath := fmt.Sprintf("/orders/%d/status", orderID)
	w = s.do(request{method: http.MethodPatch, path: statusPath, token: customer, body: gin.H{"status": "completed"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(request{method: http.MethodPatch, path: statusPath, token: admin, body: gin.H{"status": "shipped"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(request{method: http.MethodPatch, path: statusPath, token: admin, body: gin.H{"status": "is_ready"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(request{method: http.MethodGet, path: fmt.Sprintf("/orders/%d", orderID), token: customer})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "is_ready", decode(t, w)["order"].(map[string]any)["status"])

	w = s.do(request{method: http.MethodGet, path: "/orders?status=is_ready", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Len(t, out["orders"].([]any), 1)
	assert.Equal(t, 1.0, out["metadata"].(map[string]any)["total"])
}
