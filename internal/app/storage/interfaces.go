package storage

import (
	"context"
	"errors"

	"github.com/waveline/microblog/internal/app/domain/account"
	"github.com/waveline/microblog/internal/app/domain/message"
)

// ErrNotFound reports that the requested row does not exist. Both store
// implementations return it so callers can distinguish absence from
// storage failure with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrConflict reports that an insert violated a uniqueness constraint.
// The account service relies on it so a registration that loses the
// lookup-then-insert race is rejected like any other duplicate username.
var ErrConflict = errors.New("conflict")

// AccountStore persists account records.
type AccountStore interface {
	CreateAccount(ctx context.Context, acct account.Account) (account.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (account.Account, error)
	GetAccountByCredentials(ctx context.Context, username, password string) (account.Account, error)
	AccountExists(ctx context.Context, id int64) (bool, error)
}

// MessageStore persists message records.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg message.Message) (message.Message, error)
	GetMessage(ctx context.Context, id int64) (message.Message, error)
	ListMessages(ctx context.Context) ([]message.Message, error)
	ListMessagesByAccount(ctx context.Context, accountID int64) ([]message.Message, error)
	UpdateMessageText(ctx context.Context, id int64, text string) error
	DeleteMessage(ctx context.Context, id int64) error
}
