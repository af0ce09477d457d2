package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Flash categories understood by the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
)

const (
	flashCookie  = "cms_flash"
	flashPending = "session.flashes"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// AddFlash queues a message for the next page the browser renders. Several
// calls within one request accumulate.
func AddFlash(c echo.Context, category, message string) {
	pending := pendingFlashes(c)
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(flashPending, pending)
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    encodeFlashes(pending),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns and clears every queued message, both those carried
// in by the request cookie and those added during this request.
func PopFlashes(c echo.Context) []Flash {
	out := pendingFlashes(c)
	c.Set(flashPending, []Flash(nil))
	if _, err := c.Cookie(flashCookie); err == nil || len(out) > 0 {
		c.SetCookie(&http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return out
}

// pendingFlashes seeds the per-request list from the incoming cookie on
// first use.
func pendingFlashes(c echo.Context) []Flash {
	if v, ok := c.Get(flashPending).([]Flash); ok {
		return v
	}
	var out []Flash
	if ck, err := c.Cookie(flashCookie); err == nil && ck.Value != "" {
		out = decodeFlashes(ck.Value)
	}
	c.Set(flashPending, out)
	return out
}

func encodeFlashes(fs []Flash) string {
	raw, err := json.Marshal(fs)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeFlashes(v string) []Flash {
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var fs []Flash
	if err := json.Unmarshal(raw, &fs); err != nil {
		return nil
	}
	return fs
}
