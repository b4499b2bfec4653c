package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// AdminLogin renders the admin password form.
func AdminLogin(site Site, showError bool, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<section class="admin section-container thin"><h1>Admin</h1>`)
		if showError {
			h.raw(`<p class="admin-error">Invalid password.</p>`)
		}
		h.raw(`<form method="post" action="/admin/login/"><input type="hidden" name="_csrf" value="`)
		h.text(csrfToken)
		h.raw(`"><label for="password">Password</label><input type="password" id="password" name="password" required autofocus>`)
		h.raw(`<button type="submit">Log in</button></form></section>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: "Admin", NoIndex: true}, body)
}

// AdminDashboard renders store statistics and the cache purge action.
func AdminDashboard(site Site, stats AdminStats, message, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<section class="admin section-container thin"><h1>Admin</h1>`)
		if message != "" {
			h.raw(`<p class="admin-message">`)
			h.text(message)
			h.raw(`</p>`)
		}
		h.raw(`<dl class="admin-stats">`)
		for _, row := range []struct{ k, v string }{
			{"Source", stats.Source},
			{"Cache", stats.Cache},
			{"Entities", strconv.Itoa(stats.Entities)},
			{"Terms", strconv.Itoa(stats.Terms)},
			{"Routes", strconv.Itoa(stats.Routes)},
		} {
			h.raw(`<dt>`)
			h.text(row.k)
			h.raw(`</dt><dd>`)
			h.text(row.v)
			h.raw(`</dd>`)
		}
		h.raw(`</dl>`)
		h.raw(`<form method="post" action="/admin/purge/"><input type="hidden" name="_csrf" value="`)
		h.text(csrfToken)
		h.raw(`"><button type="submit">Purge caches</button></form>`)
		h.raw(`<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="`)
		h.text(csrfToken)
		h.raw(`"><button type="submit">Log out</button></form></section>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: "Admin", NoIndex: true}, body)
}
