package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// SecureHeaders ставит защитные заголовки. HSTS только в production.
func SecureHeaders(production bool) echo.MiddlewareFunc {
	cfg := echomw.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if production {
		cfg.HSTSMaxAge = 31536000
	}
	return echomw.SecureWithConfig(cfg)
}

// AllowedHosts отклоняет запросы с неизвестным заголовком Host.
// Пустой список пропускает все. Поддерживаются "*" и "*.example.com".
func AllowedHosts(hosts []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if len(hosts) == 0 {
			return next
		}
		return func(c echo.Context) error {
			if !hostAllowed(c.Request().Host, hosts) {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid host header")
			}
			return next(c)
		}
	}
}

func hostAllowed(host string, allowed []string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	for _, a := range allowed {
		a = strings.ToLower(a)
		switch {
		case a == "*":
			return true
		case strings.HasPrefix(a, "*."):
			if strings.HasSuffix(host, a[1:]) {
				return true
			}
		case a == host:
			return true
		}
	}
	return false
}
