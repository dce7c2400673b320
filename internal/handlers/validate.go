package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"toolstore/internal/models"
	"toolstore/internal/slug"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// payload is an admin request body. normalize trims input and fills
// derived fields before validation.
type payload interface {
	normalize()
}

// validationError carries per-field failures.
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	return "validation failed"
}

// check normalizes and validates in.
func check(in payload) error {
	in.normalize()
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &validationError{fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "is too long (max " + fe.Param() + ")"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	}
	return "is invalid (" + fe.Tag() + ")"
}

// normalizeSlug derives the slug from fallback when s is blank and
// canonicalizes it either way.
func normalizeSlug(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		s = fallback
	}
	return slug.Generate(s)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,max=1024"`
}

func (in *loginInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
}

type categoryInput struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=100000"`
	ParentID    *models.ID `json:"parentId"`
	ImageURL    string     `json:"imageUrl,omitempty" validate:"max=2000"`
}

func (in *categoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = normalizeSlug(in.Slug, in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.ParentID != nil && in.ParentID.IsZero() {
		in.ParentID = nil
	}
}

type productInput struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Slug        string      `json:"slug" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=100000"`
	CategoryIDs []models.ID `json:"categoryIds" validate:"dive,required"`
	Images      []string    `json:"images" validate:"dive,required,max=2000"`
}

func (in *productInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = normalizeSlug(in.Slug, in.Name)
	in.Description = strings.TrimSpace(in.Description)
	for i := range in.Images {
		in.Images[i] = strings.TrimSpace(in.Images[i])
	}
}

type articleInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Slug     string `json:"slug" validate:"required,max=200"`
	Content  string `json:"content" validate:"required,max=100000"`
	ImageURL string `json:"imageUrl,omitempty" validate:"max=2000"`
}

func (in *articleInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = normalizeSlug(in.Slug, in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

type catalogueInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	FileURL  string `json:"fileUrl" validate:"required,max=2000"`
	ImageURL string `json:"imageUrl,omitempty" validate:"max=2000"`
}

func (in *catalogueInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.FileURL = strings.TrimSpace(in.FileURL)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

type serviceCenterInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"required,max=1000"`
	City    string `json:"city" validate:"max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	MapURL  string `json:"mapUrl,omitempty" validate:"omitempty,url,max=2000"`
}

func (in *serviceCenterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Phone = strings.TrimSpace(in.Phone)
	in.MapURL = strings.TrimSpace(in.MapURL)
}
