package views

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/rpupo63/portfolio-site/forms"
)

func About() templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>About</h1>`)
		h.raw(`<p>I build backend services and web applications, and this site collects the projects I am proud of.</p>`)
		h.raw(`<p>Browse the projects by technology, or use the <a href="/contact/">contact form</a> to get in touch.</p>`)
	})
}

func Contact(in forms.ContactInput, errs forms.Errors) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>Contact</h1>`)
		h.raw(`<form method="post" action="/contact/">`)

		h.raw(`<div class="mb-3">`)
		h.label("name", "Name")
		h.input("text", "name", in.Name, forms.ContactNameMaxLength, true)
		h.fieldErrors(errs, "name")
		h.raw(`</div><div class="mb-3">`)
		h.label("email", "Email")
		h.input("email", "email", in.Email, 0, true)
		h.fieldErrors(errs, "email")
		h.raw(`</div><div class="mb-3">`)
		h.label("subject", "Subject")
		h.input("text", "subject", in.Subject, forms.ContactSubjectMaxLength, false)
		h.fieldErrors(errs, "subject")
		h.raw(`</div><div class="mb-3">`)
		h.label("message", "Message")
		h.raw(`<textarea class="form-control" name="message" id="id_message" rows="6" required>`)
		h.text(in.Message)
		h.raw(`</textarea>`)
		h.fieldErrors(errs, "message")
		h.raw(`</div>`)

		h.raw(`<button type="submit" class="btn btn-primary">Send</button></form>`)
	})
}

func Login(action, next, username string, errs forms.Errors) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>Log in</h1>`)
		h.fieldErrors(errs, "")
		h.raw(`<form method="post"`)
		h.attr("action", action)
		h.raw(`><input type="hidden" name="next"`)
		h.attr("value", next)
		h.raw(`><div class="mb-3">`)
		h.label("username", "Username")
		h.input("text", "username", username, 150, true)
		h.fieldErrors(errs, "username")
		h.raw(`</div><div class="mb-3">`)
		h.label("password", "Password")
		h.input("password", "password", "", 0, true)
		h.fieldErrors(errs, "password")
		h.raw(`</div><button type="submit" class="btn btn-primary">Log in</button></form>`)
	})
}

// ErrorPage is shown for 404s and unexpected failures
func ErrorPage(status int, message string) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>`)
		h.text(strconv.Itoa(status) + " " + http.StatusText(status))
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p><p><a href="/">Back to projects</a></p>`)
	})
}
