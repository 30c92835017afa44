package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hamzakamil/personelplus/internal/config"
	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockDB represents a mock database connection.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Rows), callArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Row)
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

func (m *MockDB) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return args.Get(0).(pgx.Tx), args.Error(1)
}

// MockRow represents a mock database row.
type MockRow struct {
	mock.Mock
	data []interface{}
	err  error
}

// NewMockRow creates a new MockRow instance.
func NewMockRow(data []interface{}, err error) *MockRow {
	return &MockRow{
		data: data,
		err:  err,
	}
}

// Scan scans the row data into the provided destinations.
func (m *MockRow) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}

	for i, val := range m.data {
		if i >= len(dest) {
			break
		}

		switch d := dest[i].(type) {
		case *uint64:
			if v, ok := val.(uint64); ok {
				*d = v
			} else if v, ok := val.(*uint64); ok && v != nil {
				*d = *v
			}
		case *int:
			if v, ok := val.(int); ok {
				*d = v
			}
		case *int64:
			if v, ok := val.(int64); ok {
				*d = v
			}
		case *float64:
			if v, ok := val.(float64); ok {
				*d = v
			}
		case *string:
			if v, ok := val.(string); ok {
				*d = v
			} else if v, ok := val.(*string); ok && v != nil {
				*d = *v
			}
		case *bool:
			if v, ok := val.(bool); ok {
				*d = v
			}
		case *time.Time:
			if v, ok := val.(time.Time); ok {
				*d = v
			}
		case **uint64:
			if v, ok := val.(*uint64); ok {
				*d = v
			}
		case **string:
			if v, ok := val.(*string); ok {
				*d = v
			}
		case **time.Time:
			if v, ok := val.(*time.Time); ok {
				*d = v
			}
		case *[]entity.ChainEntry:
			if v, ok := val.([]entity.ChainEntry); ok {
				*d = v
			}
		case *entity.PrerecordPayload:
			if v, ok := val.(entity.PrerecordPayload); ok {
				*d = v
			}
		case *interface{}:
			*d = val
		}
	}

	return nil
}

// MockRows represents mock database rows for Query results. Scanning is
// positional, like MockRow.
type MockRows struct {
	mock.Mock
	rows       [][]interface{}
	pos        int
	err        error
	fieldDescs []pgconn.FieldDescription
}

func NewMockRows(rows [][]interface{}, err error, fieldDescs []pgconn.FieldDescription) *MockRows {
	return &MockRows{
		rows:       rows,
		pos:        -1,
		err:        err,
		fieldDescs: fieldDescs,
	}
}

func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription {
	return m.fieldDescs
}

func (m *MockRows) Next() bool {
	m.pos++
	return m.pos < len(m.rows)
}

func (m *MockRows) Close() {}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	if m.pos >= len(m.rows) {
		return nil
	}

	row := NewMockRow(m.rows[m.pos], nil)

	return row.Scan(dest...)
}

func (m *MockRows) Err() error {
	return m.err
}

func (m *MockRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("")
}

func (m *MockRows) Values() ([]interface{}, error) {
	if m.pos >= len(m.rows) {
		return nil, nil
	}
	return m.rows[m.pos], nil
}

func (m *MockRows) RawValues() [][]byte {
	return nil
}

func (m *MockRows) Conn() *pgx.Conn {
	return nil
}

// MockTx scripts a transaction. QueryRow consumes queued rows in order, Exec
// consumes queued command tags (defaulting to one affected row) and records
// every statement for assertions. Begin returns the same transaction.
type MockTx struct {
	QueuedRows []*MockRow
	QueuedTags []pgconn.CommandTag
	ExecErr    error

	ExecSQL    []string
	ExecArgs   [][]interface{}
	Committed  bool
	RolledBack bool
}

func (t *MockTx) Begin(_ context.Context) (pgx.Tx, error) {
	return t, nil
}

func (t *MockTx) Commit(_ context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback(_ context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

func (t *MockTx) QueryRow(_ context.Context, _ string, _ ...interface{}) pgx.Row {
	if len(t.QueuedRows) == 0 {
		return NewMockRow(nil, pgx.ErrNoRows)
	}

	row := t.QueuedRows[0]
	t.QueuedRows = t.QueuedRows[1:]

	return row
}

func (t *MockTx) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	t.ExecSQL = append(t.ExecSQL, sql)
	t.ExecArgs = append(t.ExecArgs, args)

	if t.ExecErr != nil {
		return pgconn.CommandTag{}, t.ExecErr
	}

	if len(t.QueuedTags) == 0 {
		return NewMockCommandTag(1), nil
	}

	tag := t.QueuedTags[0]
	t.QueuedTags = t.QueuedTags[1:]

	return tag, nil
}

func (t *MockTx) Query(_ context.Context, _ string, _ ...interface{}) (pgx.Rows, error) {
	return NewMockRows(nil, nil, nil), nil
}

func (t *MockTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *MockTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults {
	return nil
}

func (t *MockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (t *MockTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *MockTx) Conn() *pgx.Conn {
	return nil
}

// MockRedis represents a mock Redis client.
type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)

	if statusCmd, ok := args.Get(0).(*redis.StatusCmd); ok {
		return statusCmd
	}

	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")

	return cmd
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)

	if stringCmd, ok := args.Get(0).(*redis.StringCmd); ok {
		return stringCmd
	}

	return redis.NewStringCmd(ctx)
}

func (m *MockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)

	if intCmd, ok := args.Get(0).(*redis.IntCmd); ok {
		return intCmd
	}

	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)

	return cmd
}

// MockAdminChecker answers the admin predicate from a fixed set.
type MockAdminChecker struct {
	Admins map[uint64]bool
	Err    error
}

func (m *MockAdminChecker) IsCompanyAdmin(_ context.Context, employeeID, _ uint64) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}

	return m.Admins[employeeID], nil
}

// RecordingNotifier captures published events for assertions.
type RecordingNotifier struct {
	Events []string
}

func (n *RecordingNotifier) Publish(event string, _ map[string]any) {
	n.Events = append(n.Events, event)
}

func NewMockCommandTag(rowsAffected int64) pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", rowsAffected))
}

// Test helper functions.
func CreateTestDependencies(mockDB *MockDB, mockRedis *MockRedis) *Dependens {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret-key"
	cfg.Redis.AccessTokenTTL = time.Hour
	cfg.Redis.RefreshTokenTTL = time.Hour * 24
	cfg.Approval.AdminRoles = []string{"admin", "hr"}

	return &Dependens{
		DB:       mockDB,
		Redis:    mockRedis,
		Logger:   logger,
		Config:   cfg,
		Admins:   &MockAdminChecker{Admins: map[uint64]bool{}},
		Notifier: &RecordingNotifier{},
	}
}

// Test data helpers.
func CreateTestEmployee() entity.Employee {
	email := "test@example.com"
	password := "hashedpassword"
	departmentID := uint64(1)
	position := "Developer"
	now := time.Now()

	return entity.Employee{
		ID:           1,
		CompanyID:    1,
		FirstName:    "John",
		LastName:     "Doe",
		Email:        &email,
		Password:     &password,
		Role:         "employee",
		IsActive:     true,
		DepartmentID: &departmentID,
		Position:     &position,
		Status:       "active",
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
}

func CreateTestChain() []entity.ChainEntry {
	return []entity.ChainEntry{
		{ApproverID: 10, Role: entity.ChainRoleManager, Status: entity.EntryStatusPending},
		{ApproverID: 20, Role: entity.ChainRoleDepartmentHead, Status: entity.EntryStatusPending},
	}
}

func StringPtr(s string) *string {
	return &s
}

func Uint64Ptr(u uint64) *uint64 {
	return &u
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
