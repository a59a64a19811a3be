// Package views renders the HTML pages of the site as templ components.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/rpupo63/portfolio-site/forms"
)

// html accumulates markup and remembers the first write error
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

// href writes an href attribute; unsafe schemes are replaced by templ
func (h *html) href(url string) {
	h.attr("href", string(templ.URL(url)))
}

func (h *html) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func (h *html) fieldErrors(errs forms.Errors, field string) {
	if !errs.Has(field) {
		return
	}
	h.raw(`<ul class="errorlist"><li>`)
	h.text(errs.Get(field))
	h.raw(`</li></ul>`)
}

func (h *html) input(kind, name, value string, maxLength int, required bool) {
	h.raw(`<input class="form-control"`)
	h.attr("type", kind)
	h.attr("name", name)
	h.attr("id", "id_"+name)
	if value != "" {
		h.attr("value", value)
	}
	if maxLength > 0 {
		h.attr("maxlength", strconv.Itoa(maxLength))
	}
	if required {
		h.raw(" required")
	}
	h.raw(">")
}

func (h *html) label(name, text string) {
	h.raw(`<label`)
	h.attr("for", "id_"+name)
	h.raw(">")
	h.text(text)
	h.raw(`</label>`)
}
