package account

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mngconsole/internal/core/apperror"
	appctx "mngconsole/internal/core/context"
	"mngconsole/internal/core/idgen"
	"mngconsole/internal/core/tx"
	"mngconsole/internal/domain"
	"mngconsole/pkg/logger"
)

// ServiceConfig holds account service configuration.
type ServiceConfig struct {
	PasswordMinLength int
	BcryptCost        int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 8,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// Service provides account management and authentication.
type Service struct {
	*domain.EntityService[*Account]
	repo       Repository
	jwtService *JWTService
	config     ServiceConfig
	now        func() time.Time
}

// NewService creates a new account service.
func NewService(repo Repository, ids idgen.Allocator, txm tx.ReadOnlyManager, jwtService *JWTService, config ServiceConfig) *Service {
	svc := &Service{
		EntityService: domain.NewEntityService(domain.EntityServiceConfig[*Account]{
			Repo:       repo,
			TxManager:  txm,
			IDs:        ids,
			EntityName: "account",
		}),
		repo:       repo,
		jwtService: jwtService,
		config:     config,
		now:        time.Now,
	}

	svc.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	svc.Hooks().On(domain.BeforeUpdate, func(ctx context.Context, a *Account) error {
		now := svc.now()
		a.UpdDate = &now
		return nil
	})
	svc.Hooks().On(domain.BeforeDelete, func(ctx context.Context, a *Account) error {
		if appctx.GetAccountID(ctx) == a.AccountID {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "cannot delete the signed-in account").
				WithDetail("accountId", a.AccountID)
		}
		return nil
	})

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, a *Account) error {
	exists, err := s.repo.ExistsByAccountID(ctx, a.AccountID)
	if err != nil {
		return fmt.Errorf("check account id: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("account", "accountId", a.AccountID)
	}
	a.RegDate = s.now()
	return nil
}

func (s *Service) hashPassword(raw string) (string, error) {
	if len(raw) < s.config.PasswordMinLength {
		return "", apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), s.config.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// GetByAccountID retrieves an account by login id.
func (s *Service) GetByAccountID(ctx context.Context, accountID string) (*Account, error) {
	a, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("account", accountID)
		}
		return nil, err
	}
	return a, nil
}

// Save creates the account when it has no Seq, otherwise updates the account
// with the same accountId. An empty rawPassword on update keeps the stored hash.
func (s *Service) Save(ctx context.Context, a *Account, rawPassword string) (*Account, error) {
	if a.Seq == 0 {
		hash, err := s.hashPassword(rawPassword)
		if err != nil {
			return nil, err
		}
		a.Password = hash
		if err := s.EntityService.Save(ctx, a); err != nil {
			return nil, err
		}
		return a, nil
	}

	existing, err := s.Get(ctx, a.Seq)
	if err != nil {
		return nil, err
	}
	if existing.AccountID != a.AccountID {
		return nil, apperror.NewValidation("accountId cannot be changed").WithDetail("field", "accountId")
	}

	a.RegDate = existing.RegDate
	a.Password = existing.Password
	if rawPassword != "" {
		if a.Password, err = s.hashPassword(rawPassword); err != nil {
			return nil, err
		}
	}
	if err := s.EntityService.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteByAccountID removes the account with the login id.
func (s *Service) DeleteByAccountID(ctx context.Context, accountID string) error {
	a, err := s.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, a.Seq)
}

// EnsureDefaultAccount creates def when there are no accounts at all.
// It reports whether an account was created.
func (s *Service) EnsureDefaultAccount(ctx context.Context, def DefaultAccount) (bool, error) {
	n, err := s.Count(ctx, domain.ListFilter{})
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	a := &Account{
		AccountID:  def.AccountID,
		Name:       def.Name,
		HpNum:      def.HpNum,
		Address:    def.Address,
		AddrDetail: def.AddrDetail,
		PostNum:    def.PostNum,
		Enabled:    true,
	}
	if _, err := s.Save(ctx, a, def.Password); err != nil {
		return false, fmt.Errorf("create default account: %w", err)
	}

	logger.Warn(ctx, "default account created; change its password", "account_id", a.AccountID)
	return true, nil
}

// Authenticate checks the password and issues an access token.
func (s *Service) Authenticate(ctx context.Context, accountID, password string) (*LoginResult, error) {
	invalid := apperror.NewUnauthorized("invalid account id or password")

	a, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)); err != nil {
		logger.Info(ctx, "login failed", "account_id", accountID)
		return nil, invalid
	}
	if err := a.CanLogin(); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(a)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, Account: a}, nil
}

// ValidateToken delegates to the JWT service. Used by the Auth middleware.
func (s *Service) ValidateToken(token string) (*appctx.AccountContext, error) {
	return s.jwtService.ValidateToken(token)
}
