package ws

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

// NewUpgrader создает апгрейдер. В режиме разработки разрешены все origins,
// иначе только перечисленные и тот же хост, с которого открыта страница.
func NewUpgrader(allowedOrigins []string, development bool) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Для разработки разрешаем все
			if development {
				return true
			}
			return originAllowed(r, allowedOrigins)
		},
	}
}

func originAllowed(r *http.Request, allowedOrigins []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// не браузер
		return true
	}

	if slices.Contains(allowedOrigins, origin) {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
