package handler

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// handlerMockDB implements core.DB for handler tests.
type handlerMockDB struct {
	mock.Mock
}

func (m *handlerMockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *handlerMockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *handlerMockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// mockRow implements pgx.Row for handler tests.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

// mockReconfigurer implements Reconfigurer.
type mockReconfigurer struct {
	mock.Mock
}

func (m *mockReconfigurer) Reconfigure(ctx context.Context, workflowID string, settings map[string]any) error {
	args := m.Called(ctx, workflowID, settings)
	return args.Error(0)
}

// mockDemoChatter implements DemoChatter.
type mockDemoChatter struct {
	mock.Mock
}

func (m *mockDemoChatter) SendDemoChat(ctx context.Context, url, message string) (string, error) {
	args := m.Called(ctx, url, message)
	return args.String(0), args.Error(1)
}

// mockChatter implements the relay's engine dependency.
type mockChatter struct {
	mock.Mock
}

func (m *mockChatter) SendChat(ctx context.Context, tenantID, apiKey, message string, settings json.RawMessage) (string, error) {
	args := m.Called(ctx, tenantID, apiKey, message, settings)
	return args.String(0), args.Error(1)
}

// scanTenant fills the full tenant column set from a fixed value list.
func scanTenant(id, email, hash, apiKey, plan string, active bool, workflowID *string, settings string) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = email
		*(dest[2].(*string)) = hash
		*(dest[3].(*string)) = apiKey
		*(dest[4].(*string)) = plan
		*(dest[5].(*bool)) = active
		*(dest[6].(**string)) = nil
		*(dest[7].(**string)) = workflowID
		*(dest[8].(*json.RawMessage)) = json.RawMessage(settings)
		return nil
	}}
}

// mockProvisioner implements core.Provisioner.
type mockProvisioner struct {
	mock.Mock
}

func (m *mockProvisioner) Provision(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// mockCheckout implements CheckoutCreator.
type mockCheckout struct {
	mock.Mock
}

func (m *mockCheckout) CreateSession(ctx context.Context, tenantID, email, plan string) (string, error) {
	args := m.Called(ctx, tenantID, email, plan)
	return args.String(0), args.Error(1)
}

// mockRows implements pgx.Rows, one scan function per row.
type mockRows struct {
	callIndex int
	scanFuncs []func(dest ...any) error
}

func (m *mockRows) Next() bool {
	return m.callIndex < len(m.scanFuncs)
}

func (m *mockRows) Scan(dest ...any) error {
	fn := m.scanFuncs[m.callIndex]
	m.callIndex++
	return fn(dest...)
}

func (m *mockRows) Err() error                                   { return nil }
func (m *mockRows) Close()                                       {}
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }
