package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/repository"
	"github.com/iliyamo/clothing-store/internal/utils"
)

// AuthService registers customers, exchanges credentials for access
// tokens and resolves tokens back to customers.
type AuthService struct {
	customers *repository.CustomerRepo
	secret    string
	ttl       time.Duration
	cost      int
}

// NewAuthService binds the service to the customer store and the token
// and hashing settings in cfg.
func NewAuthService(customers *repository.CustomerRepo, cfg config.Config) *AuthService {
	return &AuthService{
		customers: customers,
		secret:    cfg.JWTSecret,
		ttl:       time.Duration(cfg.AccessTTLMin) * time.Minute,
		cost:      cfg.BcryptCost,
	}
}

// Registration holds the fields of a new account.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a customer with the customer role and returns its id.
// A taken email is reported as ErrConflict.
func (s *AuthService) Register(ctx context.Context, in Registration) (uint64, error) {
	return s.create(ctx, in, model.RoleCustomer)
}

func (s *AuthService) create(ctx context.Context, in Registration, role model.Role) (uint64, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return 0, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	id, err := s.customers.Create(ctx, repository.NewCustomer{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Role:      role,
	}, s.cost)
	if errors.Is(err, repository.ErrEmailExists) {
		return 0, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

func missingFields(in Registration) []string {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}

// Login verifies the credentials and issues an access token whose subject
// is the customer's email.  An unknown email and a wrong password both
// return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (utils.AccessToken, error) {
	c, err := s.customers.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.BurnPasswordCheck(password)
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return utils.AccessToken{}, fmt.Errorf("load customer: %w", err)
	}
	if !utils.VerifyPassword(c.PasswordHash, password) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	return utils.NewAccessToken(s.secret, c.Email, s.ttl)
}

// Resolve validates a raw access token and returns the customer it names.
// Any token problem, or a subject that no longer exists, is ErrSession.
func (s *AuthService) Resolve(ctx context.Context, raw string) (model.Customer, error) {
	email, err := utils.ParseAccessToken(s.secret, raw)
	if err != nil {
		return model.Customer{}, ErrSession
	}
	c, err := s.customers.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Customer{}, ErrSession
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("load customer: %w", err)
	}
	return c, nil
}

// RequireAdmin returns c unchanged when it holds the admin role and
// ErrForbidden otherwise.
func RequireAdmin(c model.Customer) (model.Customer, error) {
	if !c.IsAdmin() {
		return model.Customer{}, ErrForbidden
	}
	return c, nil
}
