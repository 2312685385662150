package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/repository"
)

// CustomerService holds the administrative operations on accounts.
type CustomerService struct {
	customers *repository.CustomerRepo
	auth      *AuthService
	log       *zap.Logger
}

func NewCustomerService(customers *repository.CustomerRepo, auth *AuthService, log *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, auth: auth, log: log}
}

// Delete removes a customer.  Customers with orders are kept and
// ErrConflict is returned; an unknown id is not an error.
func (s *CustomerService) Delete(ctx context.Context, id uint64) error {
	removed, err := s.customers.Delete(ctx, id)
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%w: customer %d has orders", ErrConflict, id)
	}
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if removed {
		s.log.Info("customer deleted", zap.Uint64("customer_id", id))
	}
	return nil
}

// EnsureAdmin creates an admin account, or promotes the existing account
// with the same email.  It reports whether a new account was created.
// The password of an existing account is left unchanged.
func (s *CustomerService) EnsureAdmin(ctx context.Context, in Registration) (uint64, bool, error) {
	existing, err := s.customers.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if err := s.customers.SetRole(ctx, existing.ID, model.RoleAdmin); err != nil {
			return 0, false, fmt.Errorf("promote customer: %w", err)
		}
		s.log.Info("customer promoted to admin", zap.Uint64("customer_id", existing.ID))
		return existing.ID, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return 0, false, fmt.Errorf("load customer: %w", err)
	}
	id, err := s.auth.create(ctx, in, model.RoleAdmin)
	if err != nil {
		return 0, false, err
	}
	s.log.Info("admin created", zap.Uint64("customer_id", id))
	return id, true, nil
}
