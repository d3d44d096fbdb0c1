package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strayline/casevault/internal/database/postgres"
	"github.com/strayline/casevault/internal/eventlog"
	"github.com/strayline/casevault/internal/repository"
)

// Repositories aggregates every storage-layer dependency the services need.
type Repositories struct {
	Users     repository.User
	Ledger    repository.Ledger
	Inventory repository.Inventory
	Stats     repository.Stats
	EventLog  eventlog.Repository
}

// InitializeRepositories wires the PostgreSQL repositories onto one shared pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:     postgres.NewUserRepository(dbPool),
		Ledger:    postgres.NewLedgerRepository(dbPool),
		Inventory: postgres.NewInventoryRepository(dbPool),
		Stats:     postgres.NewStatsRepository(dbPool),
		EventLog:  postgres.NewEventLogRepository(dbPool),
	}
}
