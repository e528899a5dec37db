package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/waveline/microblog/internal/app/domain/account"
	"github.com/waveline/microblog/internal/app/domain/message"
	"github.com/waveline/microblog/internal/app/storage"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCreateAccountReturnsGeneratedID(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO account").
		WithArgs("alice", "pw1234").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(7))

	acct, err := store.CreateAccount(context.Background(), account.Account{Username: "alice", Password: "pw1234"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if acct.ID != 7 {
		t.Fatalf("expected id 7, got %d", acct.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateAccountUniqueViolation(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO account").
		WithArgs("alice", "pw1234").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateAccount(context.Background(), account.Account{Username: "alice", Password: "pw1234"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetAccountByUsernameNotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT account_id, username, password").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetAccountByUsername(context.Background(), "ghost")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountExists(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT account_id FROM account").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(1))
	mock.ExpectQuery("SELECT account_id FROM account").
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	exists, err := store.AccountExists(context.Background(), 1)
	if err != nil || !exists {
		t.Fatalf("expected exists, got %v %v", exists, err)
	}
	exists, err = store.AccountExists(context.Background(), 2)
	if err != nil || exists {
		t.Fatalf("expected absent, got %v %v", exists, err)
	}
}

func TestCreateMessageReturnsGeneratedID(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO message").
		WithArgs(int64(1), "hi", int64(1000)).
		WillReturnRows(sqlmock.NewRows([]string{"message_id"}).AddRow(3))

	msg, err := store.CreateMessage(context.Background(), message.Message{PostedBy: 1, Text: "hi", PostedAt: 1000})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if msg.ID != 3 {
		t.Fatalf("expected id 3, got %d", msg.ID)
	}
}

func TestGetMessageNotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT message_id, posted_by, message_text, time_posted_epoch").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetMessage(context.Background(), 404)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMessageTextNoRows(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("UPDATE message SET message_text").
		WithArgs(int64(404), "new text").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateMessageText(context.Background(), 404, "new text")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMessageNoRows(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("DELETE FROM message").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteMessage(context.Background(), 404)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMessagesByAccount(t *testing.T) {
	store, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"message_id", "posted_by", "message_text", "time_posted_epoch"}).
		AddRow(1, 1, "first", 100).
		AddRow(2, 1, "second", 200)
	mock.ExpectQuery("SELECT message_id, posted_by, message_text, time_posted_epoch").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	msgs, err := store.ListMessagesByAccount(context.Background(), 1)
	if err != nil {
		t.Fatalf("list by account: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Fatalf("unexpected result: %v", msgs)
	}
}

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := New(db)
	ctx := context.Background()

	username := fmt.Sprintf("it-user-%d", time.Now().UnixNano())
	acct, err := store.CreateAccount(ctx, account.Account{Username: username, Password: "pw1234"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	msg, err := store.CreateMessage(ctx, message.Message{PostedBy: acct.ID, Text: "integration", PostedAt: 1000})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if err := store.UpdateMessageText(ctx, msg.ID, "updated"); err != nil {
		t.Fatalf("update message: %v", err)
	}
	got, err := store.GetMessage(ctx, msg.ID)
	if err != nil || got.Text != "updated" {
		t.Fatalf("get message: %v %v", got, err)
	}

	if err := store.DeleteMessage(ctx, msg.ID); err != nil {
		t.Fatalf("delete message: %v", err)
	}
}
