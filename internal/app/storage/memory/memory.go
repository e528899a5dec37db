package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/waveline/microblog/internal/app/domain/account"
	"github.com/waveline/microblog/internal/app/domain/message"
	"github.com/waveline/microblog/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu            sync.RWMutex
	nextAccountID int64
	nextMessageID int64
	accounts      map[int64]account.Account
	byUsername    map[string]int64
	messages      map[int64]message.Message
}

var _ storage.AccountStore = (*Store)(nil)
var _ storage.MessageStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextAccountID: 1,
		nextMessageID: 1,
		accounts:      make(map[int64]account.Account),
		byUsername:    make(map[string]int64),
		messages:      make(map[int64]message.Message),
	}
}

// AccountStore implementation -------------------------------------------------

func (s *Store) CreateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[acct.Username]; exists {
		return account.Account{}, fmt.Errorf("%w: username %q", storage.ErrConflict, acct.Username)
	}

	acct.ID = s.nextAccountID
	s.nextAccountID++
	s.accounts[acct.ID] = acct
	s.byUsername[acct.Username] = acct.ID
	return acct, nil
}

func (s *Store) GetAccountByUsername(_ context.Context, username string) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return account.Account{}, storage.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) GetAccountByCredentials(_ context.Context, username, password string) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return account.Account{}, storage.ErrNotFound
	}
	acct := s.accounts[id]
	if acct.Password != password {
		return account.Account{}, storage.ErrNotFound
	}
	return acct, nil
}

func (s *Store) AccountExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.accounts[id]
	return ok, nil
}

// MessageStore implementation -------------------------------------------------

func (s *Store) CreateMessage(_ context.Context, msg message.Message) (message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = s.nextMessageID
	s.nextMessageID++
	s.messages[msg.ID] = msg
	return msg, nil
}

func (s *Store) GetMessage(_ context.Context, id int64) (message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return message.Message{}, storage.ErrNotFound
	}
	return msg, nil
}

func (s *Store) ListMessages(_ context.Context) ([]message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]message.Message, 0, len(s.messages))
	for _, msg := range s.messages {
		result = append(result, msg)
	}
	sortMessages(result)
	return result, nil
}

func (s *Store) ListMessagesByAccount(_ context.Context, accountID int64) ([]message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]message.Message, 0)
	for _, msg := range s.messages {
		if msg.PostedBy == accountID {
			result = append(result, msg)
		}
	}
	sortMessages(result)
	return result, nil
}

func (s *Store) UpdateMessageText(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return storage.ErrNotFound
	}
	msg.Text = text
	s.messages[id] = msg
	return nil
}

func (s *Store) DeleteMessage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

func sortMessages(msgs []message.Message) {
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID < msgs[j].ID })
}
