package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/chatrelay/internal/billing"
	"github.com/edvin/chatrelay/internal/model"
)

// Provisioner is the slice of the automation engine the billing flow needs.
type Provisioner interface {
	Provision(ctx context.Context, tenantID string) (string, error)
}

type BillingService struct {
	db      DB
	tenants *TenantService
	engine  Provisioner
	logger  zerolog.Logger
}

func NewBillingService(db DB, tenants *TenantService, engine Provisioner, logger zerolog.Logger) *BillingService {
	return &BillingService{db: db, tenants: tenants, engine: engine, logger: logger}
}

// Process applies one verified billing event. Duplicate deliveries are
// claimed through the billing_events table and acknowledged without
// reapplying; a claim whose processing fails is released again, so the
// provider's redelivery of that event gets a fresh attempt instead of the
// duplicate no-op. The subscription state change always commits before
// provisioning is attempted, and a provisioning failure is logged but never
// surfaced: the provider would otherwise retry an event whose billing effect
// already happened.
func (s *BillingService) Process(ctx context.Context, event *billing.Event) error {
	claimed, err := s.claim(ctx, model.BillingEvent{ID: event.ID, Type: event.Type})
	if err != nil {
		return fmt.Errorf("claim billing event %s: %w", event.ID, err)
	}
	if !claimed {
		s.logger.Info().Str("event_id", event.ID).Msg("duplicate billing event ignored")
		return nil
	}

	if err := s.apply(ctx, event); err != nil {
		s.release(ctx, event.ID)
		return err
	}
	return nil
}

func (s *BillingService) apply(ctx context.Context, event *billing.Event) error {
	switch event.Type {
	case billing.EventCheckoutCompleted:
		return s.handleCheckout(ctx, event)
	case billing.EventSubscriptionDeleted:
		if err := s.tenants.CancelSubscription(ctx, event.CustomerRef); err != nil {
			return err
		}
		s.logger.Info().Str("customer", event.CustomerRef).Msg("subscription cancelled")
		return nil
	default:
		s.logger.Debug().Str("type", event.Type).Msg("unhandled billing event type")
		return nil
	}
}

func (s *BillingService) handleCheckout(ctx context.Context, event *billing.Event) error {
	plan := event.Plan
	if !model.ValidPlan(plan) {
		s.logger.Warn().Str("event_id", event.ID).Str("plan", plan).Msg("unrecognized plan in checkout event, storing basic")
		plan = model.PlanBasic
	}

	tenantID, ok, err := s.tenants.ActivateSubscription(ctx, event.CustomerEmail, event.CustomerRef, plan)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn().Str("email", event.CustomerEmail).Msg("checkout for unknown tenant email")
		return nil
	}

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.WorkflowID != nil {
		// Plan change for an already provisioned tenant, nothing to build.
		s.logger.Info().Str("tenant_id", tenantID).Str("plan", plan).Msg("subscription updated")
		return nil
	}

	workflowID, err := s.engine.Provision(ctx, tenantID)
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("workflow provisioning failed")
		return nil
	}
	if err := s.tenants.BindWorkflow(ctx, tenantID, workflowID); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("workflow_id", workflowID).Msg("workflow binding failed")
		return nil
	}

	s.logger.Info().Str("tenant_id", tenantID).Str("workflow_id", workflowID).Msg("tenant provisioned")
	return nil
}

// claim reserves an event id. Returns false when a previous delivery already
// claimed it.
func (s *BillingService) claim(ctx context.Context, rec model.BillingEvent) (bool, error) {
	tag, err := s.db.Exec(ctx,
		"INSERT INTO billing_events (id, type, created_at) VALUES ($1, $2, now()) ON CONFLICT (id) DO NOTHING",
		rec.ID, rec.Type,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// release undoes a claim whose processing failed. A release that itself
// fails leaves the event permanently claimed, so it is logged loudly.
func (s *BillingService) release(ctx context.Context, eventID string) {
	if _, err := s.db.Exec(ctx, "DELETE FROM billing_events WHERE id = $1", eventID); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("billing event claim not released")
	}
}
