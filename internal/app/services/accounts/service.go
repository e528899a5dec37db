package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/waveline/microblog/internal/app/domain/account"
	"github.com/waveline/microblog/internal/app/services"
	"github.com/waveline/microblog/internal/app/storage"
	"github.com/waveline/microblog/pkg/logger"
)

// ErrUnauthorized reports a login attempt with no matching credentials.
var ErrUnauthorized = errors.New("unauthorized")

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 4

// Service manages account registration and login.
type Service struct {
	store storage.AccountStore
	log   *logger.Logger
}

// New constructs an account service.
func New(store storage.AccountStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("accounts")
	}
	return &Service{store: store, log: log}
}

// Register validates the candidate and inserts it. The duplicate-username
// check is a lookup followed by an insert; the insert is the authority, so
// a concurrent registration that slips past the lookup still comes back as
// a rejection via the store's conflict error.
func (s *Service) Register(ctx context.Context, acct account.Account) (account.Account, error) {
	if strings.TrimSpace(acct.Username) == "" {
		return account.Account{}, services.Rejectf("username is required")
	}
	if len(acct.Password) < MinPasswordLength {
		return account.Account{}, services.Rejectf("password must be at least %d characters", MinPasswordLength)
	}

	_, err := s.store.GetAccountByUsername(ctx, acct.Username)
	if err == nil {
		return account.Account{}, services.Rejectf("username %q is taken", acct.Username)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return account.Account{}, err
	}

	created, err := s.store.CreateAccount(ctx, acct)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return account.Account{}, services.Rejectf("username %q is taken", acct.Username)
		}
		return account.Account{}, err
	}

	s.log.WithField("account_id", created.ID).
		WithField("username", created.Username).
		Info("account registered")
	return created, nil
}

// Login returns the stored account when username and password match exactly,
// and ErrUnauthorized otherwise. Passwords are compared as stored.
func (s *Service) Login(ctx context.Context, acct account.Account) (account.Account, error) {
	found, err := s.store.GetAccountByCredentials(ctx, acct.Username, acct.Password)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return account.Account{}, ErrUnauthorized
		}
		return account.Account{}, err
	}
	return found, nil
}
