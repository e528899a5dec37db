// Package app composes the microblog services into a running application.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── domain/             # Domain models (pure data structures)
//	│   ├── account/        # Account model
//	│   └── message/        # Message model
//	├── storage/            # Storage interfaces and implementations
//	│   ├── interfaces.go   # AccountStore and MessageStore
//	│   ├── memory/         # In-memory implementation for tests
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/           # Business rules and orchestration
//	│   ├── accounts/       # Registration and login
//	│   └── messages/       # Posting, retrieval, patching, deletion
//	├── httpapi/            # HTTP handlers and routing
//	├── system/             # Lifecycle management
//	└── metrics/            # Prometheus collectors
//
// Services hold no state of their own beyond injected store handles; the
// stores own the persistent representation. Dependency flow runs from
// cmd/server through this package down to storage.
package app
