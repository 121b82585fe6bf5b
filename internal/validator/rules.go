package validator

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// Password policy messages, shown verbatim on the registration form.
const (
	msgPasswordUpper  = "Password must contain at least one uppercase letter"
	msgPasswordLower  = "Password must contain at least one lowercase letter"
	msgPasswordLength = "Password must be at least 6 characters long"
)

func (v *Validator) registerCustomValidators() {
	_ = v.validate.RegisterValidation("notblank", validateNotBlank)
	_ = v.validate.RegisterValidation("category", validateCategory)
	_ = v.validate.RegisterValidation("posttype", validatePostType)
	_ = v.validate.RegisterValidation("password", validatePassword)
	_ = v.validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return domain.NotInFuture(t, v.now())
	})

	v.registerMessage("required", "{0} is required")
	v.registerMessage("notblank", "{0} is required")
	v.registerMessage("category", "{0} must be one of "+categoryList())
	v.registerMessage("posttype", "{0} must be Lost or Found")
	v.registerMessage("notfuture", "{0} cannot be in the future")
	v.registerMessage("url", "{0} must be a valid URL")

	_ = v.validate.RegisterTranslation("password", v.trans,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			s, _ := fe.Value().(string)
			return PasswordProblem(s)
		},
	)
}

func (v *Validator) registerMessage(tag, text string) {
	_ = v.validate.RegisterTranslation(tag, v.trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}

func validateCategory(fl validator.FieldLevel) bool {
	_, err := domain.ParseCategory(fl.Field().String())
	return err == nil
}

func validatePostType(fl validator.FieldLevel) bool {
	switch domain.PostType(fl.Field().String()) {
	case domain.PostTypeLost, domain.PostTypeFound:
		return true
	}
	return false
}

func validatePassword(fl validator.FieldLevel) bool {
	return PasswordProblem(fl.Field().String()) == ""
}

// PasswordProblem returns the first password policy violation, or "" when
// the password is acceptable. Rules are checked in the order the
// registration form reports them.
func PasswordProblem(password string) string {
	var upper, lower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	switch {
	case !upper:
		return msgPasswordUpper
	case !lower:
		return msgPasswordLower
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return msgPasswordLength
	}
	return ""
}

func categoryList() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
