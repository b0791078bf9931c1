// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/user-backend/internal/aspect"
	"github.com/carterperez-dev/templates/user-backend/internal/auth"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/validation"
)

const serviceType = "UserService"

type Service struct {
	store Store
	rules *Rules

	add            *aspect.Operation[CreateUserRequest, *UserResponse]
	create         *aspect.Operation[auth.NewUser, *User]
	update         *aspect.Operation[UpdateUserRequest, *UserResponse]
	deleteByID     *aspect.Operation[string, *DeletedUserResponse]
	deleteByMail   *aspect.Operation[string, *DeletedUserResponse]
	getByID        *aspect.Operation[string, *UserResponse]
	getByMail      *aspect.Operation[GetByMailQuery, *User]
	getByMailUser  *aspect.Operation[string, *UserResponse]
	getList        *aspect.Operation[core.PageRequest, core.Page[UserResponse]]
	activate       *aspect.Operation[string, bool]
	getClaims      *aspect.Operation[string, []OperationClaim]
	assignClaim    *aspect.Operation[ClaimAssignment, bool]
	revokeClaim    *aspect.Operation[ClaimAssignment, bool]
	listClaims     *aspect.Operation[struct{}, []OperationClaim]
	updatePassword *aspect.Operation[passwordChange, bool]
}

type passwordChange struct {
	UserID string
	Hash   []byte
	Salt   []byte
}

func (c passwordChange) LogValue() slog.Value {
	return slog.GroupValue(slog.String("user_id", c.UserID))
}

// NewService registers the user rule sets on engine and binds every
// operation to its aspect chain. class aspects apply to all operations.
func NewService(
	store Store,
	pipeline *aspect.Pipeline,
	engine *validation.Engine,
	class ...aspect.Aspect,
) *Service {
	RegisterRules(engine)

	s := &Service{
		store: store,
		rules: NewRules(store),
	}

	adminOnly := []aspect.Aspect{aspect.Secured(ClaimAdmin)}
	spec := func(method string, aspects ...aspect.Aspect) aspect.Spec {
		return aspect.Spec{
			Type:    serviceType,
			Method:  method,
			Class:   class,
			Aspects: aspects,
		}
	}

	s.add = aspect.Register(pipeline,
		spec("Add", aspect.Validation(engine, RuleCreateUser)), s.doAdd)
	s.create = aspect.Register(pipeline, spec("Create"), s.doCreate)
	s.update = aspect.Register(pipeline,
		spec("Update", aspect.Validation(engine, RuleUpdateUser)), s.doUpdate)
	s.deleteByID = aspect.Register(pipeline,
		spec("DeleteByID", adminOnly...), s.doDeleteByID)
	s.deleteByMail = aspect.Register(pipeline,
		spec("DeleteByMail", adminOnly...), s.doDeleteByMail)
	s.getByID = aspect.Register(pipeline, spec("GetByID"), s.doGetByID)
	s.getByMail = aspect.Register(pipeline, spec("GetByMail"), s.doGetByMail)
	s.getByMailUser = aspect.Register(pipeline, spec("GetByMailUser"), s.doGetByMailUser)
	s.getList = aspect.Register(pipeline,
		spec("GetList", aspect.Validation(engine, RulePageRequest), adminOnly[0]), s.doGetList)
	s.activate = aspect.Register(pipeline, spec("Activate"), s.doActivate)
	s.getClaims = aspect.Register(pipeline, spec("GetClaims"), s.doGetClaims)
	s.assignClaim = aspect.Register(pipeline,
		spec("AssignClaim", aspect.Validation(engine, RuleClaim), adminOnly[0]), s.doAssignClaim)
	s.revokeClaim = aspect.Register(pipeline,
		spec("RevokeClaim", aspect.Validation(engine, RuleClaim), adminOnly[0]), s.doRevokeClaim)
	s.listClaims = aspect.Register(pipeline,
		spec("ListOperationClaims", adminOnly...), s.doListClaims)
	s.updatePassword = aspect.Register(pipeline, spec("UpdatePassword"), s.doUpdatePassword)

	return s
}

// Add creates a user from a plain password and grants the default claim.
func (s *Service) Add(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	return s.add.Invoke(ctx, req)
}

func (s *Service) Update(ctx context.Context, req UpdateUserRequest) (*UserResponse, error) {
	return s.update.Invoke(ctx, req)
}

func (s *Service) DeleteByID(ctx context.Context, id string) (*DeletedUserResponse, error) {
	return s.deleteByID.Invoke(ctx, id)
}

func (s *Service) DeleteByMail(ctx context.Context, email string) (*DeletedUserResponse, error) {
	return s.deleteByMail.Invoke(ctx, email)
}

func (s *Service) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	return s.getByID.Invoke(ctx, id)
}

// GetByMail returns the stored entity, soft-deleted ones included when
// asked.
func (s *Service) GetByMail(ctx context.Context, q GetByMailQuery) (*User, error) {
	return s.getByMail.Invoke(ctx, q)
}

func (s *Service) GetByMailUser(ctx context.Context, email string) (*UserResponse, error) {
	return s.getByMailUser.Invoke(ctx, email)
}

func (s *Service) GetList(ctx context.Context, req core.PageRequest) (core.Page[UserResponse], error) {
	return s.getList.Invoke(ctx, req)
}

// Activate restores a soft-deleted account.
func (s *Service) Activate(ctx context.Context, email string) (bool, error) {
	return s.activate.Invoke(ctx, email)
}

func (s *Service) GetClaims(ctx context.Context, userID string) ([]OperationClaim, error) {
	return s.getClaims.Invoke(ctx, userID)
}

func (s *Service) AssignClaim(ctx context.Context, req ClaimAssignment) error {
	_, err := s.assignClaim.Invoke(ctx, req)
	return err
}

func (s *Service) RevokeClaim(ctx context.Context, req ClaimAssignment) error {
	_, err := s.revokeClaim.Invoke(ctx, req)
	return err
}

func (s *Service) ListOperationClaims(ctx context.Context) ([]OperationClaim, error) {
	return s.listClaims.Invoke(ctx, struct{}{})
}

func (s *Service) doAdd(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	hash, salt, err := core.CreatePasswordHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	u, err := s.insert(ctx, &User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		UserName:     req.UserName,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) doCreate(ctx context.Context, nu auth.NewUser) (*User, error) {
	return s.insert(ctx, &User{
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Email:        nu.Email,
		UserName:     nu.UserName,
		PasswordHash: nu.PasswordHash,
		PasswordSalt: nu.PasswordSalt,
	})
}

// insert stores u and grants it the default claim in one transaction.
func (s *Service) insert(ctx context.Context, u *User) (*User, error) {
	u.ID = uuid.New().String()
	u.Email = strings.ToLower(u.Email)
	u.Status = true

	err := s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}

		claim, err := tx.Claims().GetByName(ctx, ClaimUser)
		if err != nil {
			return fmt.Errorf("default claim: %w", err)
		}
		return tx.Claims().Assign(ctx, u.ID, claim.ID)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) doUpdate(ctx context.Context, req UpdateUserRequest) (*UserResponse, error) {
	u, err := s.rules.CheckIfExistsByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Email = strings.ToLower(req.Email)
	u.UserName = req.UserName

	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) doDeleteByID(ctx context.Context, id string) (*DeletedUserResponse, error) {
	u, err := s.rules.CheckIfExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.softDelete(ctx, u)
}

func (s *Service) doDeleteByMail(ctx context.Context, email string) (*DeletedUserResponse, error) {
	u, err := s.rules.CheckIfExistsByMail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.softDelete(ctx, u)
}

func (s *Service) softDelete(ctx context.Context, u *User) (*DeletedUserResponse, error) {
	deletedAt, err := s.store.Users().SoftDelete(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &DeletedUserResponse{ID: u.ID, Email: u.Email, DeletedAt: deletedAt}, nil
}

func (s *Service) doGetByID(ctx context.Context, id string) (*UserResponse, error) {
	u, err := s.rules.CheckIfExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) doGetByMail(ctx context.Context, q GetByMailQuery) (*User, error) {
	return s.store.Users().GetByEmail(ctx, q.Email, q.WithDeleted)
}

func (s *Service) doGetByMailUser(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.rules.CheckIfExistsByMail(ctx, email)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) doGetList(ctx context.Context, req core.PageRequest) (core.Page[UserResponse], error) {
	req.Normalize()

	users, total, err := s.store.Users().List(ctx, req)
	if err != nil {
		return core.Page[UserResponse]{}, err
	}

	return core.MapPage(core.NewPage(users, req, total), ToUserResponseValue), nil
}

func (s *Service) doActivate(ctx context.Context, email string) (bool, error) {
	u, err := s.store.Users().GetByEmail(ctx, email, true)
	if err != nil {
		return false, err
	}

	u.Activate()
	if err := s.store.Users().Update(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) doGetClaims(ctx context.Context, userID string) ([]OperationClaim, error) {
	return s.store.Claims().ForUser(ctx, userID)
}

func (s *Service) doAssignClaim(ctx context.Context, req ClaimAssignment) (bool, error) {
	if _, err := s.rules.CheckIfExistsByID(ctx, req.UserID); err != nil {
		return false, err
	}

	claim, err := s.store.Claims().GetByName(ctx, req.ClaimName)
	if err != nil {
		return false, err
	}

	if err := s.store.Claims().Assign(ctx, req.UserID, claim.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) doRevokeClaim(ctx context.Context, req ClaimAssignment) (bool, error) {
	claim, err := s.store.Claims().GetByName(ctx, req.ClaimName)
	if err != nil {
		return false, err
	}

	if err := s.store.Claims().Revoke(ctx, req.UserID, claim.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) doListClaims(ctx context.Context, _ struct{}) ([]OperationClaim, error) {
	return s.store.Claims().List(ctx)
}

func (s *Service) doUpdatePassword(ctx context.Context, c passwordChange) (bool, error) {
	if err := s.store.Users().UpdatePassword(ctx, c.UserID, c.Hash, c.Salt); err != nil {
		return false, err
	}
	return true, nil
}
