package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/session"
)

// ContactHandler serves the contact form and stores submissions.
type ContactHandler struct {
	MessageRepo MessageStore
}

func NewContactHandler(m MessageStore) *ContactHandler {
	if m == nil {
		panic("nil store passed to NewContactHandler")
	}
	return &ContactHandler{MessageRepo: m}
}

// Show handles GET /contact.
func (h *ContactHandler) Show(c echo.Context) error {
	return c.Render(http.StatusOK, "site/contact.html", nil)
}

// Submit handles POST /contact. Name, email and content are required after
// trimming; phone is optional. Storage failures are flashed, never raised.
func (h *ContactHandler) Submit(c echo.Context) error {
	m := model.Message{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Phone:   strings.TrimSpace(c.FormValue("phone")),
		Content: strings.TrimSpace(c.FormValue("content")),
	}
	if m.Name == "" || m.Email == "" || m.Content == "" {
		return flashRedirect(c, session.FlashDanger, "Please fill in your name, email and message.", "/contact")
	}
	if utf8.RuneCountInString(m.Name) > 50 || utf8.RuneCountInString(m.Email) > 100 || utf8.RuneCountInString(m.Phone) > 20 {
		return flashRedirect(c, session.FlashDanger, "Name, email or phone is too long.", "/contact")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.MessageRepo.Create(ctx, &m); err != nil {
		slog.Error("store contact message", "error", err)
		return flashRedirect(c, session.FlashDanger, "Sorry, your message could not be sent. Please try again later.", "/contact")
	}
	slog.Info("contact message received", "message_id", m.ID)
	return flashRedirect(c, session.FlashSuccess, "Thank you! Your message has been sent.", "/contact")
}
