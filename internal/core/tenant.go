package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/chatrelay/internal/model"
	"github.com/edvin/chatrelay/internal/platform"
)

type TenantService struct {
	db DB
}

func NewTenantService(db DB) *TenantService {
	return &TenantService{db: db}
}

// Register creates a tenant for a new email with a fresh api key. The tenant
// starts on the basic plan, active, with no billing linkage and no workflow.
func (s *TenantService) Register(ctx context.Context, email, password string) (*model.Tenant, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM tenants WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	tenant := &model.Tenant{
		ID:           platform.NewID(),
		Email:        email,
		PasswordHash: hash,
		APIKey:       platform.NewAPIKey(),
		Plan:         model.PlanBasic,
		IsActive:     true,
		Settings:     json.RawMessage(`{}`),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO tenants (id, email, password_hash, api_key, plan, is_active, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tenant.ID, tenant.Email, tenant.PasswordHash, tenant.APIKey, tenant.Plan,
		tenant.IsActive, tenant.Settings, tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert tenant: %w", err)
	}

	return tenant, nil
}

// VerifyLogin authenticates a dashboard login. Unknown email, wrong password,
// and deactivated account all produce the same ErrUnauthorized.
func (s *TenantService) VerifyLogin(ctx context.Context, email, password string) (*model.Tenant, error) {
	tenant, err := s.getBy(ctx, "email = $1", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !tenant.IsActive || !VerifyPassword(password, tenant.PasswordHash) {
		return nil, ErrUnauthorized
	}
	return tenant, nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	return s.getBy(ctx, "id = $1", id)
}

func (s *TenantService) GetByEmail(ctx context.Context, email string) (*model.Tenant, error) {
	return s.getBy(ctx, "email = $1", email)
}

// Authenticate resolves the tenant for a relay call. The id, the api key,
// and the active flag are checked in a single query; any miss is the same
// ErrUnauthorized so callers cannot enumerate tenants.
func (s *TenantService) Authenticate(ctx context.Context, id, apiKey string) (*model.Tenant, error) {
	tenant, err := s.getBy(ctx, "id = $1 AND api_key = $2 AND is_active = true", id, apiKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return tenant, nil
}

// ActivateSubscription records a completed checkout: plan and billing
// linkage, keyed by the checkout's customer email. Returns the matched
// tenant's id, or ok=false when no tenant has that email. This update
// commits independently of any later provisioning outcome.
func (s *TenantService) ActivateSubscription(ctx context.Context, email, customerRef, plan string) (string, bool, error) {
	var id string
	err := s.db.QueryRow(ctx,
		`UPDATE tenants SET plan = $1, stripe_customer = $2, is_active = true, updated_at = now()
		 WHERE email = $3 RETURNING id`,
		plan, customerRef, email,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("activate subscription for %s: %w", email, err)
	}
	return id, true, nil
}

// BindWorkflow stores the provisioned workflow reference. Only the
// provisioning success path writes this field.
func (s *TenantService) BindWorkflow(ctx context.Context, tenantID, workflowID string) error {
	_, err := s.db.Exec(ctx,
		"UPDATE tenants SET workflow_id = $1, updated_at = now() WHERE id = $2",
		workflowID, tenantID,
	)
	if err != nil {
		return fmt.Errorf("bind workflow for tenant %s: %w", tenantID, err)
	}
	return nil
}

// CancelSubscription deactivates the tenant bound to a billing reference and
// drops it to the default tier. Applying it twice leaves the same state, and
// the workflow binding is deliberately kept: a replayed webhook must not
// trigger destructive deprovisioning.
func (s *TenantService) CancelSubscription(ctx context.Context, customerRef string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE tenants SET plan = $1, is_active = false, updated_at = now() WHERE stripe_customer = $2`,
		model.PlanBasic, customerRef,
	)
	if err != nil {
		return fmt.Errorf("cancel subscription for %s: %w", customerRef, err)
	}
	return nil
}

// RotateAPIKey replaces the relay credential and returns the new value. The
// old key stops authenticating on the next relay lookup.
func (s *TenantService) RotateAPIKey(ctx context.Context, tenantID string) (string, error) {
	key := platform.NewAPIKey()
	tag, err := s.db.Exec(ctx,
		"UPDATE tenants SET api_key = $1, updated_at = now() WHERE id = $2",
		key, tenantID,
	)
	if err != nil {
		return "", fmt.Errorf("rotate api key for tenant %s: %w", tenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrNotFound
	}
	return key, nil
}

// UpdateSettings replaces the tenant's settings document.
func (s *TenantService) UpdateSettings(ctx context.Context, tenantID string, settings json.RawMessage) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE tenants SET settings = $1, updated_at = now() WHERE id = $2",
		settings, tenantID,
	)
	if err != nil {
		return fmt.Errorf("update settings for tenant %s: %w", tenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TenantService) getBy(ctx context.Context, where string, args ...any) (*model.Tenant, error) {
	var t model.Tenant
	err := s.db.QueryRow(ctx,
		`SELECT id, email, password_hash, api_key, plan, is_active, stripe_customer, workflow_id, settings, created_at, updated_at
		 FROM tenants WHERE `+where, args...,
	).Scan(&t.ID, &t.Email, &t.PasswordHash, &t.APIKey, &t.Plan, &t.IsActive,
		&t.StripeCustomer, &t.WorkflowID, &t.Settings, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}
