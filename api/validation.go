package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/tech-arch1tect/accounts/services/auth"
)

const (
	maxNameLength  = 127
	maxEmailLength = 254
)

// check builds a rule that reports code when valid returns false.
func check(code, message string, valid func(value string) bool) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if valid(s) {
			return nil
		}
		return &FieldError{Code: code, Message: message}
	})
}

var (
	required = check(CodeRequired, "This field is required.", func(s string) bool {
		return strings.TrimSpace(s) != ""
	})

	emailAddress = check(CodeInvalidEmail, "Enter a valid email address.", func(s string) bool {
		return is.Email.Validate(s) == nil
	})
)

func maxLength(n int) validation.Rule {
	return check(CodeTooLong, fmt.Sprintf("Ensure this field has no more than %d characters.", n), func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	})
}

// passwordPolicy rejects passwords the policy refuses. Attributes are read
// when the rule runs so they reflect the bound request.
func passwordPolicy(policy *auth.Policy, attributes ...*string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		values := make([]string, 0, len(attributes))
		for _, attr := range attributes {
			values = append(values, *attr)
		}
		return policy.Validate(s, values...)
	})
}

// toFieldErrors converts the result of validation.ValidateStruct. Errors that
// are not about request fields are returned unchanged.
func toFieldErrors(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := FieldErrors{}
	for _, field := range fields {
		fieldErr := errs[field]

		var policyErr *auth.PolicyError
		var coded *FieldError
		switch {
		case errors.As(fieldErr, &policyErr):
			for _, v := range policyErr.Violations {
				out.Add(field, v.Code, v.Message)
			}
		case errors.As(fieldErr, &coded):
			out.Add(field, coded.Code, coded.Message)
		default:
			out.Add(field, CodeInvalid, fieldErr.Error())
		}
	}
	return out
}
