package views

import (
	"github.com/a-h/templ"

	"github.com/rpupo63/portfolio-site/policy"
)

// Chrome is what every page needs to draw the navigation bar
type Chrome struct {
	Actor    policy.Actor
	LoginURL string
}

// Layout wraps page content in the shared document and navigation
func Layout(title string, chrome Chrome, content templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` | Portfolio</title>`)
		h.raw(`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">`)
		h.raw(`</head><body><nav class="navbar navbar-expand navbar-dark bg-dark mb-4"><div class="container">`)
		h.raw(`<a class="navbar-brand" href="/">Portfolio</a><ul class="navbar-nav">`)
		h.raw(`<li class="nav-item"><a class="nav-link" href="/">Projects</a></li>`)
		h.raw(`<li class="nav-item"><a class="nav-link" href="/about/">About</a></li>`)
		h.raw(`<li class="nav-item"><a class="nav-link" href="/contact/">Contact</a></li>`)
		if chrome.Actor.IsAnonymous() {
			h.raw(`<li class="nav-item"><a class="nav-link"`)
			h.href(chrome.LoginURL)
			h.raw(`>Log in</a></li>`)
		} else {
			h.raw(`<li class="nav-item"><a class="nav-link" href="/projects/add/">Add project</a></li>`)
			h.raw(`<li class="nav-item"><form method="post" action="/admin/logout/" class="d-inline">`)
			h.raw(`<button type="submit" class="btn btn-link nav-link">Log out `)
			h.text(chrome.Actor.Username)
			h.raw(`</button></form></li>`)
		}
		h.raw(`</ul></div></nav><main class="container">`)
		h.render(content)
		h.raw(`</main></body></html>`)
	})
}
