package console

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationErrors maps a form field name to the message shown next to it.
// Drafts that fail validation never reach the backend.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Has reports whether field failed.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name so messages line up with inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("amount", func(fl validator.FieldLevel) bool {
		_, err := parseAmount(fl.Field().String())
		return err == nil
	})
	must("count", func(fl validator.FieldLevel) bool {
		_, err := parseCount(fl.Field().String())
		return err == nil
	})
	must("category", func(fl validator.FieldLevel) bool {
		return warehouse.IsCategory(fl.Field().String())
	})
	must("shelfstatus", func(fl validator.FieldLevel) bool {
		return warehouse.ShelfStatus(fl.Field().String()).IsValid()
	})
	must("robotstatus", func(fl validator.FieldLevel) bool {
		return warehouse.RobotStatus(fl.Field().String()).IsValid()
	})
	return v
}

// validateDraft runs the struct rules on draft and flattens failures.
func validateDraft(draft any) ValidationErrors {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	out := ValidationErrors{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if _, seen := out[fe.Field()]; !seen {
				out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
			}
		}
		return out
	}
	out["_"] = "The form data is invalid."
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "max":
		return "Must be at most " + param + " characters."
	case "amount":
		return "Enter an amount of 0 or more, e.g. 19.99."
	case "count":
		return "Enter a whole number of 0 or more."
	case "category":
		return "Choose a category from the list."
	case "shelfstatus", "robotstatus":
		return "Choose a status from the list."
	default:
		return "Invalid value."
	}
}

var errNegative = errors.New("negative value")

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegative
	}
	return d, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}

// splitList turns "a, b,,c " into [a b c]. The result is never nil.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
