package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/waveline/microblog/internal/app/domain/account"
	"github.com/waveline/microblog/internal/app/services"
	"github.com/waveline/microblog/internal/app/storage/memory"
)

func TestRegisterAndLogin(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, account.Account{Username: "alice", Password: "pw1234"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated account id")
	}
	if created.Username != "alice" {
		t.Fatalf("expected username alice, got %q", created.Username)
	}

	second, err := svc.Register(ctx, account.Account{Username: "bob", Password: "hunter2"})
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	if second.ID == created.ID {
		t.Fatalf("expected distinct ids, both %d", second.ID)
	}

	acct, err := svc.Login(ctx, account.Account{Username: "alice", Password: "pw1234"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if acct.ID != created.ID {
		t.Fatalf("expected account %d, got %d", created.ID, acct.ID)
	}
}

func TestRegisterRejections(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, account.Account{Username: "taken", Password: "pw1234"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	cases := []struct {
		name string
		acct account.Account
	}{
		{"blank username", account.Account{Username: "", Password: "pw1234"}},
		{"whitespace username", account.Account{Username: "   ", Password: "pw1234"}},
		{"short password", account.Account{Username: "carol", Password: "pw1"}},
		{"empty password", account.Account{Username: "carol", Password: ""}},
		{"duplicate username", account.Account{Username: "taken", Password: "pw5678"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.acct)
			if !services.IsValidation(err) {
				t.Fatalf("expected validation rejection, got %v", err)
			}
		})
	}
}

func TestLoginUnauthorized(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, account.Account{Username: "alice", Password: "pw1234"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name string
		acct account.Account
	}{
		{"wrong password", account.Account{Username: "alice", Password: "wrong"}},
		{"unknown username", account.Account{Username: "mallory", Password: "pw1234"}},
		{"empty credentials", account.Account{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.acct)
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}
