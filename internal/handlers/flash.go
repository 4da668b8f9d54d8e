package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

// Flash levels, also used as CSS classes.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"

	flashCookieName = "tracker_flash"
)

var flashLevels = []string{FlashSuccess, FlashInfo, FlashError}

// Flash is a one-time message shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

// FlashStore keeps flash messages in a signed cookie.
type FlashStore struct {
	store *sessions.CookieStore
}

func NewFlashStore(secret []byte, secure bool) *FlashStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: store}
}

func (f *FlashStore) Add(c echo.Context, level, message string) {
	// A cookie that fails to decode still yields a fresh session.
	session, _ := f.store.Get(c.Request(), flashCookieName)
	session.AddFlash(message, level)
	if err := session.Save(c.Request(), c.Response()); err != nil {
		slog.Warn("failed to save flash message", "error", err, "level", level)
	}
}

// Pop returns the pending messages ordered by level and clears them.
func (f *FlashStore) Pop(c echo.Context) []Flash {
	session, err := f.store.Get(c.Request(), flashCookieName)
	if err != nil && session == nil {
		return nil
	}

	var flashes []Flash
	for _, level := range flashLevels {
		for _, value := range session.Flashes(level) {
			if message, ok := value.(string); ok {
				flashes = append(flashes, Flash{Level: level, Message: message})
			}
		}
	}

	if len(flashes) > 0 {
		if err := session.Save(c.Request(), c.Response()); err != nil {
			slog.Warn("failed to clear flash messages", "error", err)
		}
	}
	return flashes
}
