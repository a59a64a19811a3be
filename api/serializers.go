package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/rpupo63/portfolio-site/forms"
	"github.com/rpupo63/portfolio-site/models"
)

func (h projectHandler) serialize(r *http.Request, p *models.Project) ProjectResponse {
	response := ProjectResponse{
		URL:          absoluteURL(r, "/api/projects/"+p.ID.String()+"/"),
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Link:         p.Link,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Technologies: p.TechnologyNames(),
	}
	if p.Image != nil && *p.Image != "" {
		response.Image = lo.ToPtr(h.assets.URL(*p.Image))
	}
	if p.Category != nil {
		response.Category = lo.ToPtr(p.Category.Name)
	}
	return response
}

func serializeTechnology(t *models.Technology) NamedResponse {
	return NamedResponse{ID: t.ID, Name: t.Name}
}

func serializeCategory(c *models.Category) NamedResponse {
	return NamedResponse{ID: c.ID, Name: c.Name}
}

// absoluteURL builds a URL on the host the request was made to
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}

// inputFromStored expresses a stored project as API input, referencing by name
func inputFromStored(p *models.Project) forms.ProjectInput {
	input := forms.ProjectInput{
		Title:        p.Title,
		Description:  p.Description,
		Link:         lo.FromPtr(p.Link),
		Technologies: p.TechnologyNames(),
	}
	if p.Category != nil {
		input.Category = p.Category.Name
	}
	return input
}

// mergeProjectPatch overwrites the fields present in a PATCH body. A null
// category, link or technologies list clears the field.
func mergeProjectPatch(input forms.ProjectInput, fields map[string]json.RawMessage) (forms.ProjectInput, error) {
	targets := map[string]any{
		"title":        &input.Title,
		"description":  &input.Description,
		"technologies": &input.Technologies,
		"category":     &input.Category,
		"link":         &input.Link,
	}
	for name, raw := range fields {
		target, ok := targets[name]
		if !ok {
			continue
		}
		if string(raw) == "null" {
			switch name {
			case "category":
				input.Category = ""
			case "link":
				input.Link = ""
			case "technologies":
				input.Technologies = nil
			}
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return input, fmt.Errorf("field %s: %w", name, err)
		}
	}
	return input, nil
}
