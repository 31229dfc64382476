package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/internal/config"
	"estatehub/internal/filestore"
	"estatehub/internal/http/handlers"
	"estatehub/internal/http/httpserver"
	"estatehub/internal/repos"
)

type property struct {
	ID          string   `json:"id"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Price       *float64 `json:"price"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWith(t, func(*config.Config) {})
}

func newTestAppWith(t *testing.T, tweak func(*config.Config)) *fiber.App {
	t.Helper()
	cfg := &config.Config{DatabaseURL: ":memory:", UploadDir: t.TempDir()}
	tweak(cfg)

	db, err := repos.OpenDB(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	files, err := filestore.NewLocal(cfg.UploadDir)
	require.NoError(t, err)

	return httpserver.New(cfg, handlers.NewDeps(repos.NewSQLPropertyRepo(db), files))
}

type file struct {
	name string
	body []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, img *file) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if img != nil {
		fw, err := w.CreateFormFile("image", img.name)
		require.NoError(t, err)
		_, err = fw.Write(img.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func decodeProperty(t *testing.T, body []byte) property {
	t.Helper()
	var p property
	require.NoError(t, json.Unmarshal(body, &p), string(body))
	return p
}

func listProperties(t *testing.T, app *fiber.App) []property {
	t.Helper()
	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/properties", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []property
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func messageOf(t *testing.T, body []byte) string {
	t.Helper()
	var m struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &m), string(body))
	return m.Message
}

func TestPropertyLifecycle(t *testing.T) {
	app := newTestApp(t)
	jpeg := []byte("\xff\xd8\xff\xe0fake-jpeg")

	// create
	resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", map[string]string{
		"description": "Cozy cottage",
		"address":     "1 Main St",
		"price":       "250000",
	}, &file{name: "house.jpg", body: jpeg}))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created property
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Image)
	assert.Regexp(t, `^/uploads/[0-9]+\.jpg$`, *created.Image)
	assert.Equal(t, "Cozy cottage", *created.Description)
	assert.Equal(t, "1 Main St", *created.Address)
	assert.Equal(t, 250000.0, *created.Price)

	// image is served back
	resp, img := do(t, app, httptest.NewRequest(http.MethodGet, *created.Image, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, jpeg, img)
	assert.Equal(t, "image/jpeg", resp.Header.Get(fiber.HeaderContentType))

	// listed
	all := listProperties(t, app)
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])

	// partial update
	resp, body = do(t, app, multipartRequest(t, http.MethodPut, "/api/properties/"+created.ID, map[string]string{
		"price": "260000",
	}, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated property
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 260000.0, *updated.Price)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Image, updated.Image)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Address, updated.Address)

	// delete
	resp, body = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/properties/"+created.ID, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Property deleted", messageOf(t, body))
	assert.Empty(t, listProperties(t, app))

	resp, body = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/properties/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Property not found", messageOf(t, body))
}

func TestListEmptyIsArray(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/properties", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestListAfterCreates(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 3; i++ {
		resp, _ := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", map[string]string{"address": "x"}, nil))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	assert.Len(t, listProperties(t, app), 3)
}

func TestCreateWithoutImage(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", map[string]string{
		"description": "Plot of land",
	}, nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var p property
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Nil(t, p.Image)
	assert.NotContains(t, string(body), `"image"`)
}

func TestCreateURLEncoded(t *testing.T) {
	app := newTestApp(t)
	form := url.Values{"address": {"3 Elm Rd"}, "price": {"99.5"}}
	req := httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p property
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 99.5, *p.Price)
	assert.Equal(t, "3 Elm Rd", *p.Address)
	assert.Nil(t, p.Description)
}

func TestCreateBadPrice(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", map[string]string{
		"price": "a lot",
	}, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, messageOf(t, body), "price")
	assert.Empty(t, listProperties(t, app))
}

func TestUpdateUnknownAndMalformed(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, multipartRequest(t, http.MethodPut, "/api/properties/5b0e6a0c-3a5f-4c1e-9d36-3f9b2f0a1c2d", map[string]string{
		"price": "1",
	}, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Property not found", messageOf(t, body))
	assert.Empty(t, listProperties(t, app))

	resp, body = do(t, app, multipartRequest(t, http.MethodPut, "/api/properties/not-a-uuid", nil, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, messageOf(t, body))

	resp, _ = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/properties/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateReplacesImage(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", map[string]string{
		"description": "Barn",
	}, &file{name: "old.jpg", body: []byte("old")}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created property
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = do(t, app, multipartRequest(t, http.MethodPut, "/api/properties/"+created.ID, nil, &file{name: "new.png", body: []byte("new")}))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated property
	require.NoError(t, json.Unmarshal(body, &updated))
	require.NotNil(t, updated.Image)
	assert.Regexp(t, `^/uploads/[0-9]+\.png$`, *updated.Image)
	assert.Equal(t, created.Description, updated.Description)

	_, img := do(t, app, httptest.NewRequest(http.MethodGet, *updated.Image, nil))
	assert.Equal(t, "new", string(img))

	// the previous image stays on disk
	resp, img = do(t, app, httptest.NewRequest(http.MethodGet, *created.Image, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "old", string(img))
}

func TestUploadsNotFoundAndTraversal(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/uploads/1700000000000.jpg", "/uploads/..%2Fgo.mod", "/uploads/a/b.jpg", "/uploads/"} {
		resp, body := do(t, app, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
		assert.NotEmpty(t, messageOf(t, body), target)
	}
}

func TestUnknownRouteAndHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, messageOf(t, body))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestCreateOddExtensionIsServable(t *testing.T) {
	app := newTestApp(t)
	for _, name := range []string{"house.jpé", "photo.", "scan." + strings.Repeat("x", 40)} {
		resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", map[string]string{
			"address": "7 Rue",
		}, &file{name: name, body: []byte("bytes of " + name)}))
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		p := decodeProperty(t, body)
		require.NotNil(t, p.Image)
		assert.Regexp(t, `^/uploads/[0-9]+$`, *p.Image, name)

		resp, img := do(t, app, httptest.NewRequest(http.MethodGet, *p.Image, nil))
		require.Equal(t, http.StatusOK, resp.StatusCode, name)
		assert.Equal(t, "bytes of "+name, string(img))
		assert.Equal(t, fiber.MIMEOctetStream, resp.Header.Get(fiber.HeaderContentType))
	}
}

func TestJSONBodies(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, jsonRequest(http.MethodPost, "/api/properties", `{"description":"Loft","address":"9 Dock St","price":250000}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decodeProperty(t, body)
	assert.Equal(t, 250000.0, *created.Price)
	assert.Nil(t, created.Image)

	resp, body = do(t, app, jsonRequest(http.MethodPut, "/api/properties/"+created.ID, `{"price":260000}`))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decodeProperty(t, body)
	assert.Equal(t, 260000.0, *updated.Price)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Address, updated.Address)

	// string prices and nulls are read like form values
	resp, body = do(t, app, jsonRequest(http.MethodPut, "/api/properties/"+created.ID, `{"price":"2.7e5","address":null}`))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated = decodeProperty(t, body)
	assert.Equal(t, 270000.0, *updated.Price)
	assert.Equal(t, created.Address, updated.Address)

	resp, body = do(t, app, jsonRequest(http.MethodPut, "/api/properties/"+created.ID, `{"price":"cheap"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "price must be a number", messageOf(t, body))

	resp, body = do(t, app, jsonRequest(http.MethodPut, "/api/properties/"+created.ID, `{"price":`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid JSON body", messageOf(t, body))

	all := listProperties(t, app)
	require.Len(t, all, 1)
	assert.Equal(t, 270000.0, *all[0].Price)
}

func TestUnsupportedContentType(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader("price=1"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)

	resp, body := do(t, app, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.NotEmpty(t, messageOf(t, body))
	assert.Empty(t, listProperties(t, app))
}

func TestCreateScientificPrice(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", map[string]string{
		"price": "2.5e5",
	}, nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, 250000.0, *decodeProperty(t, body).Price)
}

func TestBodyLimitAnswersJSON(t *testing.T) {
	app := newTestAppWith(t, func(cfg *config.Config) { cfg.BodyLimit = 1024 })
	resp, body := do(t, app, multipartRequest(t, http.MethodPost, "/api/properties", nil, &file{
		name: "big.jpg",
		body: bytes.Repeat([]byte("x"), 8*1024),
	}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)
	assert.NotEmpty(t, messageOf(t, body))
}
