package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/waveline/microblog/internal/app/domain/account"
	"github.com/waveline/microblog/internal/app/domain/message"
	"github.com/waveline/microblog/internal/app/storage"
)

func TestCreateAccountConflict(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.CreateAccount(ctx, account.Account{Username: "alice", Password: "pw1234"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := store.CreateAccount(ctx, account.Account{Username: "alice", Password: "other"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMessageOrdering(t *testing.T) {
	store := New()
	ctx := context.Background()

	acct, _ := store.CreateAccount(ctx, account.Account{Username: "alice", Password: "pw1234"})
	for _, text := range []string{"first", "second", "third"} {
		if _, err := store.CreateMessage(ctx, message.Message{PostedBy: acct.ID, Text: text}); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	msgs, err := store.ListMessages(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Text != "first" || msgs[2].Text != "third" {
		t.Fatalf("expected insertion order, got %v", msgs)
	}
}
