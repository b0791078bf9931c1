// AngelaMos | 2026
// validation.go

package user

import (
	"strings"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/validation"
)

const (
	RuleCreateUser  = "create_user"
	RuleUpdateUser  = "update_user"
	RulePageRequest = "page_request"
	RuleClaim       = "claim_assignment"
)

func RegisterRules(e *validation.Engine) {
	validation.Register[CreateUserRequest](e, RuleCreateUser, func(in CreateUserRequest) []core.FieldError {
		fields := userNameNotEmail(in.UserName)
		return append(fields, validation.PasswordStrength("password", in.Password)...)
	})
	validation.Register[UpdateUserRequest](e, RuleUpdateUser, func(in UpdateUserRequest) []core.FieldError {
		return userNameNotEmail(in.UserName)
	})
	validation.Register[core.PageRequest](e, RulePageRequest)
	validation.Register[ClaimAssignment](e, RuleClaim)
}

func userNameNotEmail(name string) []core.FieldError {
	if strings.Contains(name, "@") {
		return []core.FieldError{{
			Field:   "user_name",
			Rule:    "no_at_sign",
			Message: "user_name must not contain @",
		}}
	}
	return nil
}
