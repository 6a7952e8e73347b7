package usecases

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"mediascope/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("media_type", func(fl validator.FieldLevel) bool {
		return models.MediaType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("sort_key", func(fl validator.FieldLevel) bool {
		return models.SortKey(fl.Field().String()).Valid()
	})
	return v
}

func mediaTypeList() string {
	types := models.AllMediaTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid UUID"
	case "media_type":
		return "must be one of " + mediaTypeList()
	case "sort_key":
		return "is not a supported sort order"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// check validates each of vs and reports every failing field across all of
// them by its json name.
func check(vs ...any) error {
	fields := make(map[string]string)
	for _, v := range vs {
		err := validate.Struct(v)
		if err == nil {
			continue
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			fields["input"] = "is invalid"
			continue
		}
		for _, fe := range verrs {
			fields[fe.Field()] = reason(fe)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

type userRef struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type itemRef struct {
	MediaType  string `json:"media_type" validate:"required,media_type"`
	ExternalID string `json:"external_id" validate:"required,max=64"`
}

type userItemRef struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	MediaType  string `json:"media_type" validate:"required,media_type"`
	ExternalID string `json:"external_id" validate:"required,max=64"`
}

func newItemRef(mediaType, externalID string) itemRef {
	return itemRef{
		MediaType:  strings.ToLower(strings.TrimSpace(mediaType)),
		ExternalID: strings.TrimSpace(externalID),
	}
}

func (r itemRef) mediaType() models.MediaType { return models.MediaType(r.MediaType) }

func checkUserItem(userID, mediaType, externalID string) (itemRef, error) {
	ref := newItemRef(mediaType, externalID)
	return ref, check(userItemRef{UserID: userID, MediaType: ref.MediaType, ExternalID: ref.ExternalID})
}
