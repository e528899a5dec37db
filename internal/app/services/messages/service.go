package messages

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/waveline/microblog/internal/app/domain/message"
	"github.com/waveline/microblog/internal/app/services"
	"github.com/waveline/microblog/internal/app/storage"
	"github.com/waveline/microblog/pkg/logger"
)

// Service manages message posting, retrieval, patching and deletion.
type Service struct {
	accounts storage.AccountStore
	store    storage.MessageStore
	log      *logger.Logger
}

// New constructs a message service.
func New(accounts storage.AccountStore, store storage.MessageStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("messages")
	}
	return &Service{accounts: accounts, store: store, log: log}
}

// Post validates the candidate and inserts it. The author must exist at the
// time of the check; nothing at the storage layer enforces it afterwards.
func (s *Service) Post(ctx context.Context, msg message.Message) (message.Message, error) {
	if err := validateText(msg.Text); err != nil {
		return message.Message{}, err
	}

	exists, err := s.accounts.AccountExists(ctx, msg.PostedBy)
	if err != nil {
		return message.Message{}, err
	}
	if !exists {
		return message.Message{}, services.Rejectf("posted_by %d does not reference an account", msg.PostedBy)
	}

	created, err := s.store.CreateMessage(ctx, msg)
	if err != nil {
		return message.Message{}, err
	}

	s.log.WithField("message_id", created.ID).
		WithField("posted_by", created.PostedBy).
		Info("message posted")
	return created, nil
}

// GetAll returns every stored message. An empty slice is a valid result.
func (s *Service) GetAll(ctx context.Context) ([]message.Message, error) {
	return s.store.ListMessages(ctx)
}

// GetByID returns a single message or storage.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (message.Message, error) {
	return s.store.GetMessage(ctx, id)
}

// GetByAuthor returns the messages posted by the given account.
func (s *Service) GetByAuthor(ctx context.Context, accountID int64) ([]message.Message, error) {
	return s.store.ListMessagesByAccount(ctx, accountID)
}

// Remove reads the message and then deletes it, returning the removed row.
// A missing message reports storage.ErrNotFound without attempting delete.
func (s *Service) Remove(ctx context.Context, id int64) (message.Message, error) {
	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return message.Message{}, err
	}

	if err := s.store.DeleteMessage(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return message.Message{}, err
	}

	s.log.WithField("message_id", id).Info("message deleted")
	return msg, nil
}

// PatchText replaces the message text and returns the stored row re-read
// after the update. The read and the write are separate statements; the
// window between them carries no isolation guarantee.
func (s *Service) PatchText(ctx context.Context, id int64, text string) (message.Message, error) {
	if _, err := s.store.GetMessage(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return message.Message{}, services.Rejectf("message %d does not exist", id)
		}
		return message.Message{}, err
	}
	if err := validateText(text); err != nil {
		return message.Message{}, err
	}

	if err := s.store.UpdateMessageText(ctx, id, text); err != nil {
		return message.Message{}, err
	}

	updated, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return message.Message{}, err
	}

	s.log.WithField("message_id", id).Info("message text updated")
	return updated, nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return services.Rejectf("message_text is required")
	}
	if utf8.RuneCountInString(text) >= message.MaxTextLength {
		return services.Rejectf("message_text must be under %d characters", message.MaxTextLength)
	}
	return nil
}
