package forms

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

const (
	TitleMaxLength = 100
	LinkMaxLength  = 200
	NameMaxLength  = 50
)

// ProjectLookup resolves references found in project input. Technology and
// Category return an errs not-found error when the reference is unknown.
type ProjectLookup interface {
	TitleExists(ctx context.Context, title string, exclude uuid.UUID) (bool, error)
	Technology(ctx context.Context, ref string) (*models.Technology, error)
	Category(ctx context.Context, ref string) (*models.Category, error)
}

// ProjectInput is the raw submission. Technologies and Category hold ids on the
// HTML form and names on the API.
type ProjectInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Category     string   `json:"category"`
	Link         string   `json:"link"`
	Image        *Upload  `json:"-"`
}

// ProjectData is validated input ready to be written to a project
type ProjectData struct {
	Title        string
	Description  string
	Technologies []models.Technology
	Category     *models.Category
	Link         *string
	Image        *Upload
}

// Apply copies the validated values onto a project
func (d ProjectData) Apply(p *models.Project) {
	p.Title = d.Title
	p.Description = d.Description
	p.Technologies = d.Technologies
	p.Category = d.Category
	p.CategoryID = nil
	if d.Category != nil {
		p.CategoryID = &d.Category.ID
	}
	p.Link = d.Link
}

// ValidateProject checks the input against the project rules. exclude is the
// project being edited (uuid.Nil on create) and is ignored by the title check.
// A non-nil error means a lookup failed, not that the input is invalid.
func ValidateProject(ctx context.Context, in ProjectInput, exclude uuid.UUID, lookup ProjectLookup) (ProjectData, Errors, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Link = strings.TrimSpace(in.Link)
	in.Technologies = lo.Uniq(lo.Compact(lo.Map(in.Technologies, func(ref string, _ int) string {
		return strings.TrimSpace(ref)
	})))

	data := ProjectData{
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
	}

	err := validation.ValidateStructWithContext(ctx, &in,
		validation.Field(&in.Title,
			validation.Required.Error(MsgRequired),
			validation.RuneLength(0, TitleMaxLength).Error(maxLength(TitleMaxLength)),
			validation.WithContext(func(ctx context.Context, value interface{}) error {
				taken, err := lookup.TitleExists(ctx, value.(string), exclude)
				if err != nil {
					return validation.NewInternalError(err)
				}
				if taken {
					return validation.NewError("validation_title_taken", alreadyExists("Project", "Title"))
				}
				return nil
			}),
		),
		validation.Field(&in.Description,
			validation.Required.Error(MsgRequired),
		),
		validation.Field(&in.Technologies,
			validation.WithContext(func(ctx context.Context, value interface{}) error {
				for _, ref := range value.([]string) {
					technology, err := lookup.Technology(ctx, ref)
					if errs.IsNotFound(err) {
						return validation.NewError("validation_invalid_choice", invalidChoice(ref))
					}
					if err != nil {
						return validation.NewInternalError(err)
					}
					data.Technologies = append(data.Technologies, *technology)
				}
				return nil
			}),
		),
		validation.Field(&in.Category,
			validation.WithContext(func(ctx context.Context, value interface{}) error {
				ref := value.(string)
				if ref == "" {
					return nil
				}
				category, err := lookup.Category(ctx, ref)
				if errs.IsNotFound(err) {
					return validation.NewError("validation_invalid_choice", MsgInvalidChoice)
				}
				if err != nil {
					return validation.NewInternalError(err)
				}
				data.Category = category
				return nil
			}),
		),
		validation.Field(&in.Link,
			validation.RuneLength(0, LinkMaxLength).Error(maxLength(LinkMaxLength)),
			is.URL.Error(MsgInvalidURL),
			validation.Match(httpScheme).Error(MsgInvalidURL),
		),
	)

	fieldErrs, lookupErr := split(err)
	if lookupErr != nil {
		return ProjectData{}, nil, lookupErr
	}
	if in.Image != nil {
		if msg := in.Image.Check(); msg != "" {
			if fieldErrs == nil {
				fieldErrs = Errors{}
			}
			fieldErrs["image"] = msg
		}
	}
	if fieldErrs.Any() {
		return ProjectData{}, fieldErrs, nil
	}

	if in.Link != "" {
		data.Link = lo.ToPtr(in.Link)
	}
	return data, nil, nil
}

// NameInput is the payload for creating or renaming a technology or category
type NameInput struct {
	Name string `json:"name"`
}

// NameExistsFunc reports whether the name is taken by a record other than exclude
type NameExistsFunc func(ctx context.Context, name string, exclude uuid.UUID) (bool, error)

// ValidateName checks a technology or category name; model is used in the duplicate message
func ValidateName(ctx context.Context, in NameInput, model string, exclude uuid.UUID, exists NameExistsFunc) (string, Errors, error) {
	in.Name = strings.TrimSpace(in.Name)

	err := validation.ValidateStructWithContext(ctx, &in,
		validation.Field(&in.Name,
			validation.Required.Error(MsgRequired),
			validation.RuneLength(0, NameMaxLength).Error(maxLength(NameMaxLength)),
			validation.WithContext(func(ctx context.Context, value interface{}) error {
				taken, err := exists(ctx, value.(string), exclude)
				if err != nil {
					return validation.NewInternalError(err)
				}
				if taken {
					return validation.NewError("validation_name_taken", alreadyExists(model, "Name"))
				}
				return nil
			}),
		),
	)

	fieldErrs, lookupErr := split(err)
	if lookupErr != nil {
		return "", nil, lookupErr
	}
	if fieldErrs.Any() {
		return "", fieldErrs, nil
	}
	return in.Name, nil, nil
}

// TitleTaken is reported when the unique index rejects a title that passed validation
func TitleTaken() Errors {
	return Errors{"title": alreadyExists("Project", "Title")}
}
