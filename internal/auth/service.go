// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/user-backend/internal/aspect"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/logging"
	"github.com/carterperez-dev/templates/user-backend/internal/validation"
)

const serviceType = "AuthService"

const (
	CounterRegister    = "register"
	CounterLogin       = "login"
	CounterLoginFailed = "login_failed"
)

// TokenCreator issues access tokens. *TokenIssuer satisfies it.
type TokenCreator interface {
	CreateToken(user UserInfo, claims []string) (*AccessToken, error)
}

// Counter records named events. *core.Redis satisfies it.
type Counter interface {
	Incr(ctx context.Context, name string) error
}

type Service struct {
	users   UserProvider
	tokens  TokenCreator
	rules   *Rules
	counter Counter
	sink    *logging.Sink

	register          *aspect.Operation[RegisterRequest, *UserInfo]
	login             *aspect.Operation[LoginRequest, *UserInfo]
	createAccessToken *aspect.Operation[*UserInfo, *AccessToken]
	changePassword    *aspect.Operation[ChangePasswordRequest, bool]
}

type serviceOptions struct {
	counter Counter
	class   []aspect.Aspect
}

type ServiceOption func(*serviceOptions)

func WithCounter(c Counter) ServiceOption {
	return func(o *serviceOptions) { o.counter = c }
}

// WithAspects adds class-level aspects to every auth operation.
func WithAspects(aspects ...aspect.Aspect) ServiceOption {
	return func(o *serviceOptions) { o.class = append(o.class, aspects...) }
}

// NewService registers the auth rule sets on engine and binds every
// operation to its aspect chain.
func NewService(
	users UserProvider,
	tokens TokenCreator,
	pipeline *aspect.Pipeline,
	engine *validation.Engine,
	opts ...ServiceOption,
) *Service {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}

	RegisterRules(engine)

	s := &Service{
		users:   users,
		tokens:  tokens,
		rules:   NewRules(users),
		counter: o.counter,
		sink:    pipeline.Sink(),
	}

	s.register = aspect.Register(pipeline, aspect.Spec{
		Type:    serviceType,
		Method:  "Register",
		Class:   o.class,
		Aspects: []aspect.Aspect{aspect.Validation(engine, RuleRegister)},
	}, s.doRegister)

	s.login = aspect.Register(pipeline, aspect.Spec{
		Type:    serviceType,
		Method:  "Login",
		Class:   o.class,
		Aspects: []aspect.Aspect{aspect.Validation(engine, RuleLogin)},
	}, s.doLogin)

	s.createAccessToken = aspect.Register(pipeline, aspect.Spec{
		Type:   serviceType,
		Method: "CreateAccessToken",
		Class:  o.class,
	}, s.doCreateAccessToken)

	s.changePassword = aspect.Register(pipeline, aspect.Spec{
		Type:    serviceType,
		Method:  "ChangePassword",
		Class:   o.class,
		Aspects: []aspect.Aspect{aspect.Validation(engine, RuleChangePassword)},
	}, s.doChangePassword)

	return s
}

// Register creates an account. A nil user with a nil error means the email
// is already taken.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	return s.register.Invoke(ctx, req)
}

// Login returns the account behind valid credentials or
// core.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*UserInfo, error) {
	return s.login.Invoke(ctx, req)
}

// CreateAccessToken issues a token carrying the user's current claims.
func (s *Service) CreateAccessToken(ctx context.Context, user UserInfo) (*AccessToken, error) {
	return s.createAccessToken.Invoke(ctx, &user)
}

func (s *Service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	_, err := s.changePassword.Invoke(ctx, req)
	return err
}

func (s *Service) doRegister(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	free, err := s.rules.CheckIfUserDoesNotExist(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, nil
	}

	hash, salt, err := core.CreatePasswordHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(ctx, NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(req.Email),
		UserName:     req.UserName,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.count(ctx, CounterRegister)
	return user, nil
}

func (s *Service) doLogin(ctx context.Context, req LoginRequest) (*UserInfo, error) {
	user, err := s.rules.UserToCheck(ctx, req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			s.count(ctx, CounterLoginFailed)
		}
		return nil, err
	}

	s.count(ctx, CounterLogin)
	return user, nil
}

func (s *Service) doCreateAccessToken(ctx context.Context, user *UserInfo) (*AccessToken, error) {
	if user == nil {
		return nil, fmt.Errorf("create access token: %w", core.ErrInvalidInput)
	}

	claims, err := s.users.GetClaims(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	token, err := s.tokens.CreateToken(*user, claims)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	return token, nil
}

func (s *Service) doChangePassword(ctx context.Context, req ChangePasswordRequest) (bool, error) {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return false, err
	}

	if !core.VerifyPasswordHash(req.CurrentPassword, user.PasswordHash, user.PasswordSalt) {
		return false, core.ErrInvalidCredentials
	}

	hash, salt, err := core.CreatePasswordHash(req.NewPassword)
	if err != nil {
		return false, fmt.Errorf("change password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) count(ctx context.Context, name string) {
	if s.counter == nil {
		return
	}
	if err := s.counter.Incr(ctx, name); err != nil {
		s.sink.WriteWarn(ctx, "counter update failed", "counter", name, "error", err)
	}
}
