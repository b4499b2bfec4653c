package pressfront

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pressfront/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.Site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Log.Warn("admin login failed", zap.String("ip", ip))
	return Render(c, a.Views.AdminLogin(a.Site(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminPurge(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Purge(c.Request().Context()); err != nil {
		return err
	}
	a.Log.Info("caches purged", zap.String("ip", c.RealIP()))
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=purged")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	entities, terms, routes := a.Store.Stats()
	stats := views.AdminStats{
		Entities: entities,
		Terms:    terms,
		Routes:   routes,
		Cache:    a.cacheBackend(),
		Source:   a.Config.SourceURL,
	}
	return Render(c, a.Views.AdminDashboard(a.Site(), stats, msg, CsrfToken(c)))
}
