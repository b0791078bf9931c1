// AngelaMos | 2026
// validation.go

package auth

import (
	"strings"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/validation"
)

const (
	RuleLogin          = "login"
	RuleRegister       = "register"
	RuleChangePassword = "change_password"
)

func RegisterRules(e *validation.Engine) {
	validation.Register[LoginRequest](e, RuleLogin)
	validation.Register[RegisterRequest](e, RuleRegister, func(in RegisterRequest) []core.FieldError {
		var fields []core.FieldError
		if strings.Contains(in.UserName, "@") {
			fields = append(fields, core.FieldError{
				Field:   "user_name",
				Rule:    "no_at_sign",
				Message: "user_name must not contain @",
			})
		}
		return append(fields, validation.PasswordStrength("password", in.Password)...)
	})
	validation.Register[ChangePasswordRequest](e, RuleChangePassword, func(in ChangePasswordRequest) []core.FieldError {
		return validation.PasswordStrength("new_password", in.NewPassword)
	})
}
