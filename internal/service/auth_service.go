package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/d60-Lab/sleep-social/internal/auth"
	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/repository"
	"github.com/d60-Lab/sleep-social/pkg/logger"
)

type SignupInput struct {
	Name                 string  `json:"name" validate:"required"`
	Email                string  `json:"email" validate:"required,email"`
	Password             string  `json:"password" validate:"required,min=6"`
	PasswordConfirmation *string `json:"password_confirmation,omitempty" validate:"omitempty,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// AuthService 注册、登录、令牌解析
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	// Authenticate 解析 bearer token 并加载仍然存在的用户
	Authenticate(ctx context.Context, token string) (*model.User, error)
	DeleteAccount(ctx context.Context, actor *model.User) error
}

type authService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	validate   *validator.Validate
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, bcryptCost int) AuthService {
	return &authService{users: users, tokens: tokens, validate: validator.New(), bcryptCost: bcryptCost}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = repository.NormalizeEmail(in.Email)

	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, NewValidationError(signupMessages(verrs)...)
		}
		return nil, err
	}

	// 唯一索引是最终防线，这里只是提前给出友好提示
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, NewValidationError(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, NewValidationError(msgEmailTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("user signed up", zap.String("user_id", u.ID))
	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !auth.VerifyPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, ok := s.tokens.Resolve(token)
	if !ok {
		return nil, ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *authService) DeleteAccount(ctx context.Context, actor *model.User) error {
	if err := s.users.Delete(ctx, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("delete user: %w", err)
	}
	logger.Info("user deleted", zap.String("user_id", actor.ID))
	return nil
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	token, err := s.tokens.IssueDefault(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: u.Summary()}, nil
}

const msgEmailTaken = "Email has already been taken"

var fieldLabels = map[string]string{
	"Name":                 "Name",
	"Email":                "Email",
	"Password":             "Password",
	"PasswordConfirmation": "Password confirmation",
}

func signupMessages(verrs validator.ValidationErrors) []string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, label+" can't be blank")
		case "email":
			msgs = append(msgs, label+" is invalid")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s is too short (minimum is %s characters)", label, fe.Param()))
		case "eqfield":
			msgs = append(msgs, label+" doesn't match "+fieldLabels[fe.Param()])
		default:
			msgs = append(msgs, label+" is invalid")
		}
	}
	return msgs
}
