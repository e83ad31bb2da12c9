package core

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// ---------- Mock DB ----------

// mockDB implements the DB interface for testing.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// ---------- Mock Row ----------

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

// ---------- Mock Rows ----------

// mockRows implements pgx.Rows for testing.
// It iterates through a list of scan functions, one per row.
type mockRows struct {
	callIndex int
	scanFuncs []func(dest ...any) error
	err       error
}

func newMockRows(scanFuncs ...func(dest ...any) error) *mockRows {
	return &mockRows{scanFuncs: scanFuncs}
}

func (m *mockRows) Next() bool {
	return m.callIndex < len(m.scanFuncs)
}

func (m *mockRows) Scan(dest ...any) error {
	if m.callIndex < len(m.scanFuncs) {
		fn := m.scanFuncs[m.callIndex]
		m.callIndex++
		return fn(dest...)
	}
	return nil
}

func (m *mockRows) Err() error                                   { return m.err }
func (m *mockRows) Close()                                       {}
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// ---------- Mock Engine ----------

// mockEngine implements Provisioner and Chatter for testing.
type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Provision(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) SendChat(ctx context.Context, tenantID, apiKey, message string, settings json.RawMessage) (string, error) {
	args := m.Called(ctx, tenantID, apiKey, message, settings)
	return args.String(0), args.Error(1)
}

// scanTenantRow returns a mockRow that fills the full tenant column set.
func scanTenantRow(fill func(t *tenantScan)) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		ts := &tenantScan{}
		fill(ts)
		*(dest[0].(*string)) = ts.id
		*(dest[1].(*string)) = ts.email
		*(dest[2].(*string)) = ts.passwordHash
		*(dest[3].(*string)) = ts.apiKey
		*(dest[4].(*string)) = ts.plan
		*(dest[5].(*bool)) = ts.isActive
		*(dest[6].(**string)) = ts.stripeCustomer
		*(dest[7].(**string)) = ts.workflowID
		*(dest[8].(*json.RawMessage)) = ts.settings
		return nil
	}}
}

type tenantScan struct {
	id, email, passwordHash, apiKey, plan string
	isActive                              bool
	stripeCustomer, workflowID            *string
	settings                              json.RawMessage
}
