package pressfront

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pressfront/htmlproc"
	"github.com/eringen/pressfront/i18n"
	"github.com/eringen/pressfront/resolve"
	"github.com/eringen/pressfront/source"
	"github.com/eringen/pressfront/views"
)

// handleRoute renders any WordPress link: a post type, a listing, or a
// search. The link is fetched synchronously before it is resolved.
func (a *App) handleRoute(c echo.Context) error {
	link := source.NormalizeLink(c.Request().URL.RequestURI())

	res, err := a.ResolveLink(c.Request().Context(), link)
	switch {
	case errors.Is(err, ErrUpstream):
		return echo.NewHTTPError(http.StatusBadGateway).SetInternal(err)
	case err != nil:
		return a.resolveError(c, routeKind(res.Route), err)
	case !res.Ready():
		return a.renderPending(c)
	case res.Search != nil:
		return a.handleSearch(c, link, res.Search)
	case res.Archive != nil:
		return a.handleArchive(c, link, res.Archive)
	}
	return a.handlePostType(c, link, res)
}

func routeKind(d source.RouteData) string {
	switch {
	case d.IsError:
		return "error"
	case d.IsSearch:
		return "search"
	case d.IsArchive:
		return "archive"
	}
	return "post"
}

func (a *App) handlePostType(c echo.Context, link string, res Resolution) error {
	post := a.presentPost(*res.Post, link, itemOptions{showMedia: a.Config.Featured.ShowOnPost})
	meta := a.postMeta(link, *res.Post, post)
	if err := Render(c, a.Views.Post(a.Site(), meta, post)); err != nil {
		return err
	}
	a.Metrics.page("post", http.StatusOK)
	a.dispatcher.Dispatch(res.FollowUps...)
	return nil
}

func (a *App) handleArchive(c echo.Context, link string, ar *resolve.ArchiveView) error {
	archive := a.presentArchive(ar, link, itemOptions{
		excerpt:   true,
		showMedia: a.Config.Featured.ShowOnList,
	})
	title := a.Config.Name
	if ar.Term != nil {
		title = archive.Heading
		p := i18n.Printer(a.Config.Language)
		if ar.Route.Type == source.TaxonomyTag {
			archive.Label = p.Sprintf(i18n.Tag)
		} else {
			archive.Label = p.Sprintf(i18n.Category)
		}
	}
	meta := a.archiveMeta(link, htmlproc.Text(title))
	if err := Render(c, a.Views.Archive(a.Site(), meta, archive)); err != nil {
		return err
	}
	a.Metrics.page("archive", http.StatusOK)
	return nil
}

func (a *App) handleSearch(c echo.Context, link string, s *resolve.SearchView) error {
	search := views.Search{Query: s.Query, Total: s.Total, Empty: s.Empty}
	if s.Archive != nil {
		search.Archive = a.presentArchive(s.Archive, link, itemOptions{excerpt: true})
	}
	meta := a.archiveMeta(link, "“"+s.Query+"”")
	meta.NoIndex = true
	if err := Render(c, a.Views.Search(a.Site(), meta, search)); err != nil {
		return err
	}
	a.Metrics.page("search", http.StatusOK)
	return nil
}

func (a *App) presentArchive(ar *resolve.ArchiveView, link string, opt itemOptions) views.Archive {
	items := make([]views.Post, len(ar.Items))
	for i, v := range ar.Items {
		items[i] = a.presentPost(v, link, opt)
	}
	out := views.Archive{
		Items:    items,
		PrevLink: ar.PrevLink,
		NextLink: ar.NextLink,
	}
	if ar.Term != nil {
		out.Heading = ar.Term.Name
	}
	return out
}

// resolveError maps resolver errors to pages. Missing entities and error
// routes are not found; anything else is a server error.
func (a *App) resolveError(c echo.Context, kind string, err error) error {
	var re *resolve.RouteError
	if errors.Is(err, resolve.ErrEntityMissing) || errors.As(err, &re) {
		a.Log.Debug("not found", zap.String("link", c.Request().URL.Path), zap.Error(err))
		return a.renderNotFound(c, kind)
	}
	return err
}

func (a *App) renderNotFound(c echo.Context, kind string) error {
	a.Metrics.page(kind, http.StatusNotFound)
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Site()))
}

func (a *App) renderPending(c echo.Context) error {
	a.Metrics.page("pending", http.StatusServiceUnavailable)
	c.Response().Header().Set("Retry-After", "5")
	c.Response().Header().Set("Cache-Control", "no-store")
	return RenderStatus(c, http.StatusServiceUnavailable, a.Views.Pending(a.Site()))
}

func (a *App) handleSitemap(c echo.Context) error {
	items, err := a.homeItems(c)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, items)
}

func (a *App) handleFeed(c echo.Context) error {
	items, err := a.homeItems(c)
	if err != nil {
		return err
	}
	return a.renderRSS(c, items)
}

// homeItems loads the first page of the home listing.
func (a *App) homeItems(c echo.Context) ([]resolve.View, error) {
	ctx := c.Request().Context()
	if err := a.Source.Fetch(ctx, "/"); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadGateway).SetInternal(err)
	}
	res, err := resolve.ResolveArchive("/", a.Store)
	if err != nil {
		return nil, err
	}
	if !res.Ready() {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable)
	}
	return res.Archive.Items, nil
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if a.Config.AdminEnabled() {
		b.WriteString("Disallow: /admin/\n")
	}
	b.WriteString("Disallow: /?s=\n")
	b.WriteString("\nSitemap: " + a.absURL("/sitemap.xml") + "\n")
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c, "unmatched")
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error("server error",
			zap.Int("status", code),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
		a.Metrics.page("error", code)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
