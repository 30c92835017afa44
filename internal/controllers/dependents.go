package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hamzakamil/personelplus/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

type Controllers struct {
	AuthController       *AuthController
	CompanyController    *CompanyController
	EmployeeController   *EmployeeController
	DepartmentController *DepartmentController
	WorkplaceController  *WorkplaceController
	ChainController      *ChainController
	AdvanceController    *AdvanceController
	PrerecordController  *PrerecordController
}

// NewControllers wires the controller set. The chain controller is shared:
// org-graph mutations trigger re-resolution through it, and the advance
// controller resolves on cache miss.
func NewControllers(deps *Dependens) *Controllers {
	chains := NewChainController(deps)

	return &Controllers{
		AuthController:       NewAuthController(deps),
		CompanyController:    NewCompanyController(deps, chains),
		EmployeeController:   NewEmployeeController(deps, chains),
		DepartmentController: NewDepartmentController(deps, chains),
		WorkplaceController:  NewWorkplaceController(deps, chains),
		ChainController:      chains,
		AdvanceController:    NewAdvanceController(deps, chains),
		PrerecordController:  NewPrerecordController(deps, chains),
	}
}

// DB is the subset of pgxpool.Pool the controllers use. Begin is needed by the
// workflow engine for row-locking transactions.
type DB interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Redis interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Dependens struct {
	DB       DB
	Redis    Redis
	Logger   *slog.Logger
	Config   *config.Config
	Admins   AdminChecker
	Notifier Notifier
}
