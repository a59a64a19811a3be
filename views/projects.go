package views

import (
	"net/url"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/forms"
	"github.com/rpupo63/portfolio-site/models"
)

// ProjectView is a project prepared for display
type ProjectView struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Link         string
	ImageURL     string
	Category     string
	Technologies []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p ProjectView) DetailURL() string {
	return "/projects/" + p.ID.String() + "/"
}

func technologyURL(name string) string {
	return "/technologies/" + url.PathEscape(name) + "/"
}

func projectCard(p ProjectView) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="col-md-4 mb-4"><div class="card h-100">`)
		if p.ImageURL != "" {
			h.raw(`<img class="card-img-top"`)
			h.attr("src", string(templ.URL(p.ImageURL)))
			h.attr("alt", p.Title)
			h.raw(`>`)
		}
		h.raw(`<div class="card-body"><h5 class="card-title">`)
		h.text(p.Title)
		h.raw(`</h5>`)
		if p.Category != "" {
			h.raw(`<h6 class="card-subtitle mb-2 text-muted">`)
			h.text(p.Category)
			h.raw(`</h6>`)
		}
		h.raw(`<p class="card-text">`)
		h.text(p.Description)
		h.raw(`</p>`)
		h.render(technologyBadges(p.Technologies))
		h.raw(`<a class="btn btn-primary"`)
		h.href(p.DetailURL())
		h.raw(`>Read more</a></div></div></div>`)
	})
}

func technologyBadges(names []string) templ.Component {
	return component(func(h *html) {
		if len(names) == 0 {
			return
		}
		h.raw(`<p class="technologies">`)
		for _, name := range names {
			h.raw(`<a class="badge bg-secondary me-1"`)
			h.href(technologyURL(name))
			h.raw(`>`)
			h.text(name)
			h.raw(`</a>`)
		}
		h.raw(`</p>`)
	})
}

// ProjectIndex lists every project as a card
func ProjectIndex(projects []ProjectView) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>Projects</h1>`)
		if len(projects) == 0 {
			h.raw(`<p class="empty">No projects yet.</p>`)
			return
		}
		h.raw(`<div class="row">`)
		for _, p := range projects {
			h.render(projectCard(p))
		}
		h.raw(`</div>`)
	})
}

// ProjectDetail shows a single project; edit and delete links appear for signed-in users
func ProjectDetail(p ProjectView, canEdit bool) templ.Component {
	return component(func(h *html) {
		h.raw(`<article class="project"><h1>`)
		h.text(p.Title)
		h.raw(`</h1>`)
		if p.ImageURL != "" {
			h.raw(`<img class="img-fluid mb-3"`)
			h.attr("src", string(templ.URL(p.ImageURL)))
			h.attr("alt", p.Title)
			h.raw(`>`)
		}
		if p.Category != "" {
			h.raw(`<p><strong>Category:</strong> `)
			h.text(p.Category)
			h.raw(`</p>`)
		}
		h.render(technologyBadges(p.Technologies))
		h.raw(`<p class="description">`)
		h.text(p.Description)
		h.raw(`</p>`)
		if p.Link != "" {
			h.raw(`<p><a class="btn btn-outline-primary" rel="noopener"`)
			h.href(p.Link)
			h.raw(`>View project</a></p>`)
		}
		h.raw(`<p class="text-muted small">Created `)
		h.text(p.CreatedAt.Format("January 2, 2006"))
		h.raw(` · Updated `)
		h.text(p.UpdatedAt.Format("January 2, 2006"))
		h.raw(`</p>`)
		if canEdit {
			h.raw(`<p><a class="btn btn-secondary"`)
			h.href(p.DetailURL() + "edit/")
			h.raw(`>Edit</a> <a class="btn btn-danger"`)
			h.href(p.DetailURL() + "delete/")
			h.raw(`>Delete</a></p>`)
		}
		h.raw(`</article>`)
	})
}

// TechnologyDetail lists the projects that use a technology
func TechnologyDetail(name string, projects []ProjectView) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>Projects using `)
		h.text(name)
		h.raw(`</h1>`)
		if len(projects) == 0 {
			h.raw(`<p class="empty">No projects use this technology yet.</p>`)
			return
		}
		h.raw(`<div class="row">`)
		for _, p := range projects {
			h.render(projectCard(p))
		}
		h.raw(`</div>`)
	})
}

// ProjectFormView carries everything needed to draw the create/edit form
type ProjectFormView struct {
	Heading      string
	Action       string
	Input        forms.ProjectInput
	Errors       forms.Errors
	Technologies []*models.Technology
	Categories   []*models.Category
	ImageURL     string
}

func (v ProjectFormView) selected(id uuid.UUID) bool {
	for _, ref := range v.Input.Technologies {
		if ref == id.String() {
			return true
		}
	}
	return false
}

func ProjectForm(v ProjectFormView) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>`)
		h.text(v.Heading)
		h.raw(`</h1>`)
		h.fieldErrors(v.Errors, "")
		h.raw(`<form method="post" enctype="multipart/form-data"`)
		h.attr("action", v.Action)
		h.raw(`>`)

		h.raw(`<div class="mb-3">`)
		h.label("title", "Title")
		h.input("text", "title", v.Input.Title, forms.TitleMaxLength, true)
		h.fieldErrors(v.Errors, "title")
		h.raw(`</div>`)

		h.raw(`<div class="mb-3">`)
		h.label("description", "Description")
		h.raw(`<textarea class="form-control" name="description" id="id_description" rows="6" required>`)
		h.text(v.Input.Description)
		h.raw(`</textarea>`)
		h.fieldErrors(v.Errors, "description")
		h.raw(`</div>`)

		h.raw(`<fieldset class="mb-3"><legend class="fs-6">Technologies</legend>`)
		for _, t := range v.Technologies {
			h.raw(`<div class="form-check"><input class="form-check-input" type="checkbox" name="technologies"`)
			h.attr("value", t.ID.String())
			h.attr("id", "id_technologies_"+t.ID.String())
			if v.selected(t.ID) {
				h.raw(" checked")
			}
			h.raw(`><label class="form-check-label"`)
			h.attr("for", "id_technologies_"+t.ID.String())
			h.raw(`>`)
			h.text(t.Name)
			h.raw(`</label></div>`)
		}
		h.fieldErrors(v.Errors, "technologies")
		h.raw(`</fieldset>`)

		h.raw(`<div class="mb-3">`)
		h.label("category", "Category")
		h.raw(`<select class="form-control" name="category" id="id_category"><option value="">---------</option>`)
		for _, c := range v.Categories {
			h.raw(`<option`)
			h.attr("value", c.ID.String())
			if v.Input.Category == c.ID.String() {
				h.raw(" selected")
			}
			h.raw(`>`)
			h.text(c.Name)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		h.fieldErrors(v.Errors, "category")
		h.raw(`</div>`)

		h.raw(`<div class="mb-3">`)
		h.label("image", "Image")
		if v.ImageURL != "" {
			h.raw(`<p>Currently: <a`)
			h.href(v.ImageURL)
			h.raw(`>`)
			h.text(v.ImageURL)
			h.raw(`</a> <input type="checkbox" name="image-clear" id="image-clear_id"> <label for="image-clear_id">Clear</label></p>`)
		}
		h.raw(`<input class="form-control" type="file" name="image" id="id_image" accept="image/*">`)
		h.fieldErrors(v.Errors, "image")
		h.raw(`</div>`)

		h.raw(`<div class="mb-3">`)
		h.label("link", "Link")
		h.input("url", "link", v.Input.Link, forms.LinkMaxLength, false)
		h.fieldErrors(v.Errors, "link")
		h.raw(`</div>`)

		h.raw(`<button type="submit" class="btn btn-primary">Save</button></form>`)
	})
}

// ProjectConfirmDelete asks before a project is removed
func ProjectConfirmDelete(p ProjectView) templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>Delete project</h1><p>Are you sure you want to delete "`)
		h.text(p.Title)
		h.raw(`"?</p><form method="post"`)
		h.attr("action", p.DetailURL()+"delete/")
		h.raw(`><button type="submit" class="btn btn-danger">Confirm</button> <a class="btn btn-secondary"`)
		h.href(p.DetailURL())
		h.raw(`>Cancel</a></form>`)
	})
}
