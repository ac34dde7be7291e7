package view

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Named routes shared by handlers and pages.
const (
	RouteSignIn     = "/signin"
	RouteSignUp     = "/signup"
	RouteGallery    = "/gallery"
	RouteLogout     = "/auth/logout"
	RouteOAuthLogin = "/oauth/login/"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.3"

// Flashes are one-shot notifications carried across a redirect.
type Flashes struct {
	Success []string
	Error   []string
}

// Empty reports whether there is nothing to show.
func (f Flashes) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0
}

// Page wraps content in the base document.
func Page(title string, flashes Flashes, content ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(title+" · Portal")),
				h.Script(h.Src(htmxSrc), g.Attr("defer")),
			),
			h.Body(
				h.Class("min-h-screen bg-gray-50"),
				FlashList(flashes),
				h.Main(
					h.Class("container mx-auto p-8"),
					g.Group(content),
				),
			),
		),
	)
}

// FlashList renders success and error notifications.
func FlashList(f Flashes) g.Node {
	if f.Empty() {
		return nil
	}
	return h.Div(
		h.ID("flashes"),
		g.Attr("aria-live", "polite"),
		g.Map(f.Success, func(msg string) g.Node {
			return h.Div(h.Class("flash flash-success"), g.Attr("role", "status"), g.Text(msg))
		}),
		g.Map(f.Error, func(msg string) g.Node {
			return h.Div(h.Class("flash flash-error"), g.Attr("role", "alert"), g.Text(msg))
		}),
	)
}
