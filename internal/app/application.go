package app

import (
	"context"
	"fmt"

	"github.com/waveline/microblog/internal/app/services/accounts"
	"github.com/waveline/microblog/internal/app/services/messages"
	"github.com/waveline/microblog/internal/app/storage"
	"github.com/waveline/microblog/internal/app/storage/memory"
	"github.com/waveline/microblog/internal/app/system"
	"github.com/waveline/microblog/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Accounts storage.AccountStore
	Messages storage.MessageStore
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Accounts *accounts.Service
	Messages *messages.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Accounts == nil {
		stores.Accounts = mem
	}
	if stores.Messages == nil {
		stores.Messages = mem
	}

	manager := system.NewManager()

	acctService := accounts.New(stores.Accounts, log)
	msgService := messages.New(stores.Accounts, stores.Messages, log)

	for _, name := range []string{"accounts", "messages"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	return &Application{
		manager:  manager,
		log:      log,
		Accounts: acctService,
		Messages: msgService,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
