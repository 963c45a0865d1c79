package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const maxBodySize = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	// Both tags are package constants; registration cannot fail.
	_ = v.RegisterValidation("project_category", oneOf(models.ProjectCategories))
	_ = v.RegisterValidation("skill_icon", oneOf(models.SkillIcons))
	return v
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

// validationError reports the first failing field as a 400.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewInvalidFieldError("body", err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return errs.NewMissingRequiredFieldError(field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return errs.NewInvalidFieldError(field, fmt.Sprintf("must contain at least %s item(s)", fe.Param()))
		}
		return errs.NewInvalidFieldError(field, "must be at least "+fe.Param())
	case "max":
		return errs.NewInvalidFieldError(field, "must be at most "+fe.Param())
	case "project_category":
		return errs.NewInvalidFieldError(field, "must be one of "+strings.Join(models.ProjectCategories, ", "))
	case "skill_icon":
		return errs.NewInvalidFieldError(field, "must be one of "+strings.Join(models.SkillIcons, ", "))
	default:
		return errs.NewInvalidFieldError(field, "failed "+fe.Tag()+" check")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
