package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
	pkgAuth "github.com/polkiloo/pos80/internal/pkg/auth"
)

const minPasswordLength = 4

// DefaultStaff lists the accounts created on first start.
var DefaultStaff = []model.User{
	{Login: "admin", Name: "Administrador", Role: model.RoleAdmin},
	{Login: "caixa", Name: "Caixa", Role: model.RoleCashier},
	{Login: "cozinha", Name: "Cozinha", Role: model.RoleKitchen},
	{Login: "entregador", Name: "Entregador", Role: model.RoleDelivery},
}

// AuthUseCase handles staff login and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	logger *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, logger: logger}
}

// SeedDefaults creates every missing default staff account with password.
func (u *AuthUseCase) SeedDefaults(ctx context.Context, password string) error {
	for _, staff := range DefaultStaff {
		_, err := u.users.GetByLogin(ctx, staff.Login)
		if err == nil {
			continue
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return err
		}

		hash, err := u.hasher.Hash(password)
		if err != nil {
			return err
		}
		staff.PasswordHash = hash
		if _, err := u.users.Create(ctx, staff); err != nil && !errors.Is(err, domainErrors.ErrAlreadyExists) {
			return err
		}
		u.logger.Info("default staff account created", slog.String("login", staff.Login), slog.String("role", string(staff.Role)))
	}
	return nil
}

// CreateUserInput carries the fields of a new staff account.
type CreateUserInput struct {
	Login    string
	Name     string
	Role     model.Role
	Password string
}

// CreateUser registers a staff account with a hashed password.
func (u *AuthUseCase) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	login := strings.ToLower(strings.TrimSpace(in.Login))
	name := strings.TrimSpace(in.Name)
	switch {
	case login == "":
		return nil, domainErrors.Validation("login", "must not be empty")
	case strings.ContainsAny(login, " \t"):
		return nil, domainErrors.Validation("login", "must not contain spaces")
	case name == "":
		return nil, domainErrors.Validation("name", "must not be empty")
	case !in.Role.Valid():
		return nil, domainErrors.Validation("role", fmt.Sprintf("unknown role %q", in.Role))
	case len(in.Password) < minPasswordLength:
		return nil, domainErrors.Validation("password", fmt.Sprintf("must have at least %d characters", minPasswordLength))
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	usr, err := u.users.Create(ctx, model.User{Login: login, Name: name, Role: in.Role, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	u.logger.Info("staff account created", slog.String("login", usr.Login), slog.String("role", string(usr.Role)))
	return usr, nil
}

// Authenticate validates credentials and returns a session token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(model.Actor{Login: usr.Login, Role: usr.Role})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the actor from provided token.
func (u *AuthUseCase) ParseToken(token string) (model.Actor, error) {
	if token == "" {
		return model.Actor{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
