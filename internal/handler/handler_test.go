package handler

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/config"
	"github.com/rtnut/showcase-cms/internal/media"
	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/session"
	"github.com/rtnut/showcase-cms/internal/view"
)

type testApp struct {
	e        *echo.Echo
	banners  *fakeBanners
	products *fakeProducts
	factory  *fakeFactory
	messages *fakeMessages
	settings *fakeSettings
	files    *media.Store
	sessions *session.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	r, err := view.New()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	cfg := config.Default().Uploads
	cfg.Dir = t.TempDir()
	a := &testApp{
		e:        echo.New(),
		banners:  newFakeBanners(),
		products: newFakeProducts(),
		factory:  newFakeFactory(),
		messages: newFakeMessages(),
		settings: newFakeSettings(),
		files:    media.New(cfg),
		sessions: &session.Manager{
			Store:      session.NewMemoryStore(),
			Secret:     "test-secret",
			CookieName: "cms_session",
			TTL:        time.Hour,
		},
	}
	a.e.Renderer = r
	a.e.HTTPErrorHandler = ErrorHandler(true)

	pub := NewPublicHandler(a.banners, a.products, a.factory)
	ct := NewContactHandler(a.messages)
	auth := NewAuthHandler(fakeAuth{username: "admin", password: "admin123"}, a.sessions)
	adm := NewAdminHandler(a.banners, a.products, a.factory, a.messages, a.settings, a.files)

	a.e.GET("/", pub.Index)
	a.e.GET("/product/:id", pub.ProductDetail)
	a.e.GET("/factory", pub.Factory)
	a.e.GET("/contact", ct.Show)
	a.e.POST("/contact", ct.Submit)
	a.e.GET("/admin/login", auth.LoginForm)
	a.e.POST("/admin/login", auth.Login)
	a.e.GET("/admin/logout", auth.Logout)
	a.e.GET("/admin/dashboard", adm.Dashboard)
	a.e.GET("/admin/messages", adm.ListMessages)
	a.e.GET("/admin/banners", adm.ListBanners)
	a.e.POST("/admin/banners", adm.SaveBanner)
	a.e.GET("/admin/banners/delete/:id", adm.DeleteBanner)
	a.e.GET("/admin/products", adm.ListProducts)
	a.e.POST("/admin/products", adm.SaveProduct)
	a.e.GET("/admin/products/delete/:id", adm.DeleteProduct)
	a.e.GET("/admin/factory", adm.ListFactory)
	a.e.POST("/admin/factory", adm.SaveFactory)
	a.e.GET("/admin/colors", adm.Colors)
	a.e.POST("/admin/colors", adm.SaveColors)
	a.e.GET("/admin/footer", adm.Footer)
	a.e.POST("/admin/footer", adm.SaveFooter)
	return a
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req)
}

// postMultipart posts fields plus an optional file under fileField.
func (a *testApp) postMultipart(t *testing.T, path string, fields map[string]string, fileField, filename string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(body)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return a.do(req)
}

func (a *testApp) uploadCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(a.files.Dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	return len(entries)
}

// stored reports whether a path kept on a record names a file on disk.
func (a *testApp) stored(rel string) bool {
	_, err := os.Stat(filepath.Join(a.files.Dir, strings.TrimPrefix(rel, media.PathPrefix)))
	return err == nil
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 10))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, to string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302; body=%s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != to {
		t.Fatalf("location = %q, want %q", loc, to)
	}
}

func hasFlash(rec *httptest.ResponseRecorder) bool {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "cms_flash" && ck.Value != "" {
			return true
		}
	}
	return false
}

func TestContactRequiresFields(t *testing.T) {
	a := newTestApp(t)
	rec := a.postForm("/contact", url.Values{"name": {"  "}, "email": {"a@b.c"}, "content": {"hi"}})
	expectRedirect(t, rec, "/contact")
	if !hasFlash(rec) {
		t.Fatalf("expected a flash message")
	}
	if n := a.messages.count(); n != 0 {
		t.Fatalf("stored %d messages, want 0", n)
	}
}

func TestContactRejectsLongName(t *testing.T) {
	a := newTestApp(t)
	rec := a.postForm("/contact", url.Values{"name": {strings.Repeat("x", 51)}, "email": {"a@b.c"}, "content": {"hi"}})
	expectRedirect(t, rec, "/contact")
	if n := a.messages.count(); n != 0 {
		t.Fatalf("stored %d messages, want 0", n)
	}
}

func TestContactStoresUnreadMessage(t *testing.T) {
	a := newTestApp(t)
	rec := a.postForm("/contact", url.Values{
		"name":    {" Li Lei "},
		"email":   {"li@example.com"},
		"phone":   {""},
		"content": {"Do you ship abroad?"},
	})
	expectRedirect(t, rec, "/contact")
	msgs := a.messages.list()
	if len(msgs) != 1 {
		t.Fatalf("stored %d messages, want 1", len(msgs))
	}
	if msgs[0].Name != "Li Lei" || msgs[0].IsRead {
		t.Fatalf("unexpected message %+v", msgs[0])
	}
}

func TestIndexRendersContent(t *testing.T) {
	a := newTestApp(t)
	a.banners.create(&model.Banner{Title: "Spring sale", ImagePath: "uploads/a.png"})
	a.products.create(&model.Product{Title: "Walnut", Price: "9.90", ImagePath: "uploads/w.png"})
	rec := a.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Spring sale", "Walnut", "/uploads/w.png", model.DefaultFooter().Email} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestProductDetailUnknownRedirectsHome(t *testing.T) {
	a := newTestApp(t)
	expectRedirect(t, a.get("/product/42"), "/")
	expectRedirect(t, a.get("/product/abc"), "/")
}

func TestProductDetailShowsRelated(t *testing.T) {
	a := newTestApp(t)
	almond := &model.Product{Title: "Almond", Price: "1.00"}
	a.products.create(almond)
	for _, title := range []string{"Cashew", "Pecan", "Hazelnut", "Pistachio"} {
		a.products.create(&model.Product{Title: title, Price: "1.00"})
	}
	rec := a.get("/product/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Almond") || !strings.Contains(body, "Cashew") {
		t.Fatalf("missing product or related product")
	}
	if strings.Contains(body, "Pistachio") {
		t.Fatalf("more than three related products rendered")
	}
}

func TestLoginFlow(t *testing.T) {
	a := newTestApp(t)

	rec := a.postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("failed login status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid username or password.") {
		t.Fatalf("failed login did not show an error")
	}

	rec = a.postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	expectRedirect(t, rec, "/admin/dashboard")
	var sessionCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "cms_session" {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil || !sessionCookie.HttpOnly {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", sessionCookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/logout", nil)
	req.AddCookie(sessionCookie)
	expectRedirect(t, a.do(req), "/admin/login")

	// The old cookie no longer maps to a session.
	check := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	check.AddCookie(sessionCookie)
	c := a.e.NewContext(check, httptest.NewRecorder())
	if _, err := a.sessions.Current(c); err == nil {
		t.Fatalf("session still valid after logout")
	}
}

func TestDashboardCounts(t *testing.T) {
	a := newTestApp(t)
	a.messages.create(&model.Message{Name: "A", Email: "a@x", Content: "walnut question"})
	a.messages.create(&model.Message{Name: "B", Email: "b@x", Content: "two", IsRead: true})
	rec := a.get("/admin/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "walnut question") || !strings.Contains(body, "(1 unread)") {
		t.Fatalf("recent messages not listed")
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	a.messages.create(&model.Message{Name: "A", Email: "a@x", Content: "hello"})
	expectRedirect(t, a.get("/admin/messages?mark_read=1"), "/admin/messages")
	expectRedirect(t, a.get("/admin/messages?mark_read=1"), "/admin/messages")
	m, _ := a.messages.get(1)
	if !m.IsRead {
		t.Fatalf("message not marked read")
	}
	if rec := a.get("/admin/messages?mark_read=abc"); rec.Code != http.StatusOK {
		t.Fatalf("non-numeric mark_read status = %d, want 200", rec.Code)
	}
}

func TestBannerCreateAndDelete(t *testing.T) {
	a := newTestApp(t)
	rec := a.postMultipart(t, "/admin/banners", map[string]string{"title": "Hello", "sort": "2"}, "image", "hero.png", smallPNG(t))
	expectRedirect(t, rec, "/admin/banners")

	b, err := a.banners.get(1)
	if err != nil {
		t.Fatalf("banner not created: %v", err)
	}
	if b.PositionTop != model.DefaultPositionTop || b.ButtonPositionTop != model.DefaultButtonPositionTop {
		t.Fatalf("blank positions not defaulted: %+v", b)
	}
	if !strings.HasPrefix(b.ImagePath, media.PathPrefix) || !a.stored(b.ImagePath) {
		t.Fatalf("image not stored: %q", b.ImagePath)
	}

	expectRedirect(t, a.get("/admin/banners/delete/1"), "/admin/banners")
	if a.banners.count() != 0 {
		t.Fatalf("banner row not deleted")
	}
	if a.stored(b.ImagePath) {
		t.Fatalf("banner image not removed")
	}
}

func TestBannerCreateRequiresImage(t *testing.T) {
	a := newTestApp(t)
	rec := a.postMultipart(t, "/admin/banners", map[string]string{"title": "No image"}, "", "", nil)
	expectRedirect(t, rec, "/admin/banners?add=1")
	if a.banners.count() != 0 {
		t.Fatalf("banner created without an image")
	}
}

func TestBannerUpdateKeepsImage(t *testing.T) {
	a := newTestApp(t)
	a.banners.create(&model.Banner{Title: "Old", ImagePath: "uploads/keep.png", Sort: 1})
	rec := a.postMultipart(t, "/admin/banners", map[string]string{"banner_id": "1", "title": "New", "sort": "5"}, "", "", nil)
	expectRedirect(t, rec, "/admin/banners")
	b, _ := a.banners.get(1)
	if b.Title != "New" || b.Sort != 5 || b.ImagePath != "uploads/keep.png" {
		t.Fatalf("unexpected banner after update: %+v", b)
	}
	if a.banners.count() != 1 {
		t.Fatalf("update created a new row")
	}
}

func TestBannerRejectsMalformedID(t *testing.T) {
	a := newTestApp(t)
	rec := a.postMultipart(t, "/admin/banners", map[string]string{"banner_id": "x1", "title": "T"}, "image", "a.png", smallPNG(t))
	expectRedirect(t, rec, "/admin/banners")
	if a.banners.count() != 0 || a.uploadCount(t) != 0 {
		t.Fatalf("malformed id must not create anything")
	}
}

func TestBannerUpdateUnknownID(t *testing.T) {
	a := newTestApp(t)
	rec := a.postMultipart(t, "/admin/banners", map[string]string{"banner_id": "9", "title": "T"}, "image", "a.png", smallPNG(t))
	expectRedirect(t, rec, "/admin/banners")
	if a.banners.count() != 0 || a.uploadCount(t) != 0 {
		t.Fatalf("unknown id must not create anything")
	}
}

func TestDeleteMissingBannerRedirects(t *testing.T) {
	a := newTestApp(t)
	expectRedirect(t, a.get("/admin/banners/delete/77"), "/admin/banners")
}

func TestProductDisallowedTypeWritesNothing(t *testing.T) {
	a := newTestApp(t)
	rec := a.postMultipart(t, "/admin/products", map[string]string{"title": "Bad", "price": "3"}, "image", "evil.exe", []byte("MZ"))
	expectRedirect(t, rec, "/admin/products?add=1")
	if a.products.count() != 0 {
		t.Fatalf("product created with disallowed file")
	}
	if n := a.uploadCount(t); n != 0 {
		t.Fatalf("%d files written for disallowed upload", n)
	}
}

func TestProductPriceValidation(t *testing.T) {
	a := newTestApp(t)
	rec := a.postMultipart(t, "/admin/products", map[string]string{"title": "Nut", "price": "-1"}, "image", "n.png", smallPNG(t))
	expectRedirect(t, rec, "/admin/products?add=1")
	if a.products.count() != 0 || a.uploadCount(t) != 0 {
		t.Fatalf("invalid price must not store anything")
	}

	rec = a.postMultipart(t, "/admin/products", map[string]string{"title": "Nut", "price": "12.5"}, "image", "n.png", smallPNG(t))
	expectRedirect(t, rec, "/admin/products")
	p, err := a.products.get(1)
	if err != nil {
		t.Fatalf("product not created: %v", err)
	}
	if p.Price != "12.50" {
		t.Fatalf("price = %q, want 12.50", p.Price)
	}
}

func TestNormalizePrice(t *testing.T) {
	cases := map[string]string{
		"":            "0.00",
		"0":           "0.00",
		"007":         "7.00",
		"1.5":         "1.50",
		"99999999.99": "99999999.99",
	}
	for in, want := range cases {
		got, err := normalizePrice(in)
		if err != nil || got != want {
			t.Errorf("normalizePrice(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"-1", "1.234", "abc", "123456789", "1e3"} {
		if _, err := normalizePrice(bad); err == nil {
			t.Errorf("normalizePrice(%q) accepted", bad)
		}
	}
}

func TestProductListOrder(t *testing.T) {
	a := newTestApp(t)
	a.products.create(&model.Product{Title: "Third", Sort: 3})
	a.products.create(&model.Product{Title: "First", Sort: 1})
	a.products.create(&model.Product{Title: "Second", Sort: 1})
	rec := a.get("/admin/products")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	i1, i2, i3 := strings.Index(body, "First"), strings.Index(body, "Second"), strings.Index(body, "Third")
	if i1 < 0 || !(i1 < i2 && i2 < i3) {
		t.Fatalf("products not listed by sort then id")
	}
}

func TestProductEditUnknownShowsList(t *testing.T) {
	a := newTestApp(t)
	rec := a.get("/admin/products?edit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `name="product_id"`) {
		t.Fatalf("edit form rendered for unknown product")
	}
}

func TestFactoryVideoSkipsCompression(t *testing.T) {
	a := newTestApp(t)
	rec := a.postMultipart(t, "/admin/factory", map[string]string{"title": "Line", "type": "video"}, "file", "line.mp4", []byte("not really a video"))
	expectRedirect(t, rec, "/admin/factory")
	asset, err := a.factory.get(1)
	if err != nil {
		t.Fatalf("asset not created: %v", err)
	}
	if !asset.IsVideo() {
		t.Fatalf("type = %q, want video", asset.Type)
	}
	raw, err := os.ReadFile(filepath.Join(a.files.Dir, strings.TrimPrefix(asset.FilePath, media.PathPrefix)))
	if err != nil || string(raw) != "not really a video" {
		t.Fatalf("video not stored verbatim: %v", err)
	}
}

func TestFactoryTypeFixedOnUpdate(t *testing.T) {
	a := newTestApp(t)
	a.factory.create(&model.FactoryAsset{Title: "Hall", Type: model.KindImage, FilePath: "uploads/hall.png"})
	rec := a.postMultipart(t, "/admin/factory", map[string]string{"asset_id": "1", "title": "Hall 2", "type": "video"}, "file", "clip.mp4", []byte("v"))
	expectRedirect(t, rec, "/admin/factory?edit=1")
	asset, _ := a.factory.get(1)
	if asset.Type != model.KindImage || asset.Title != "Hall" {
		t.Fatalf("asset changed by rejected update: %+v", asset)
	}
}

func TestSaveColors(t *testing.T) {
	a := newTestApp(t)
	expectRedirect(t, a.postForm("/admin/colors", url.Values{"theme_color": {"red"}}), "/admin/colors")
	if a.settings.color != model.DefaultThemeColor {
		t.Fatalf("invalid color stored: %q", a.settings.color)
	}
	expectRedirect(t, a.postForm("/admin/colors", url.Values{"theme_color": {"#1A2b3c"}}), "/admin/colors")
	if a.settings.color != "#1A2b3c" {
		t.Fatalf("color = %q", a.settings.color)
	}
}

func TestSaveFooter(t *testing.T) {
	a := newTestApp(t)
	form := url.Values{"address": {"1 Nut Road"}, "phone": {"123"}, "wechat": {""}, "weibo": {""}, "email": {"x@y.z"}}
	expectRedirect(t, a.postForm("/admin/footer", form), "/admin/footer")
	want := model.FooterInfo{Address: "1 Nut Road", Phone: "123", Email: "x@y.z"}
	if a.settings.footer != want {
		t.Fatalf("footer = %+v, want %+v", a.settings.footer, want)
	}
	rec := a.get("/admin/footer")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "1 Nut Road") {
		t.Fatalf("footer form not prefilled")
	}
}

func TestParseIntent(t *testing.T) {
	if in, err := parseIntent(""); err != nil || in != (createIntent{}) {
		t.Fatalf("empty id: %v %v", in, err)
	}
	if in, err := parseIntent(" 12 "); err != nil || in != (updateIntent{ID: 12}) {
		t.Fatalf("numeric id: %v %v", in, err)
	}
	for _, bad := range []string{"0", "-3", "abc", "1.5"} {
		if _, err := parseIntent(bad); err == nil {
			t.Errorf("parseIntent(%q) accepted", bad)
		}
	}
}

func TestProductCreateFailureRemovesUpload(t *testing.T) {
	a := newTestApp(t)
	a.products.writeErr = errors.New("db down")
	rec := a.postMultipart(t, "/admin/products", map[string]string{"title": "Nut", "price": "1"}, "image", "n.png", smallPNG(t))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if n := a.uploadCount(t); n != 0 {
		t.Fatalf("%d orphaned uploads left after failed insert", n)
	}
}

func TestBannerUpdateFailureRemovesUpload(t *testing.T) {
	a := newTestApp(t)
	a.banners.create(&model.Banner{Title: "Old", ImagePath: "uploads/old.png"})
	a.banners.writeErr = errors.New("db down")
	rec := a.postMultipart(t, "/admin/banners", map[string]string{"banner_id": "1", "title": "New"}, "image", "new.png", smallPNG(t))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if n := a.uploadCount(t); n != 0 {
		t.Fatalf("%d orphaned uploads left after failed update", n)
	}
	b, _ := a.banners.get(1)
	if b.Title != "Old" || b.ImagePath != "uploads/old.png" {
		t.Fatalf("banner changed by failed update: %+v", b)
	}
}

func TestFactoryCreateFailureRemovesUpload(t *testing.T) {
	a := newTestApp(t)
	a.factory.writeErr = errors.New("db down")
	rec := a.postMultipart(t, "/admin/factory", map[string]string{"title": "Line", "type": "video"}, "file", "line.mp4", []byte("v"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if n := a.uploadCount(t); n != 0 {
		t.Fatalf("%d orphaned uploads left after failed insert", n)
	}
}

func TestContactStorageFailureIsFlashed(t *testing.T) {
	a := newTestApp(t)
	a.messages.writeErr = errors.New("db down")
	rec := a.postForm("/contact", url.Values{"name": {"A"}, "email": {"a@b.c"}, "content": {"hi"}})
	expectRedirect(t, rec, "/contact")
	if !hasFlash(rec) {
		t.Fatalf("expected a flash message")
	}
}
