package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/stefando/m2mTokenClaims/internal/management"
	"github.com/stefando/m2mTokenClaims/internal/metrics"
	"github.com/stefando/m2mTokenClaims/internal/workflow"
)

// OrgCodeProperty is the application property that links an application to its organization
const OrgCodeProperty = "org_code"

// ManagementAPI is the part of the management API the enricher reads
type ManagementAPI interface {
	ApplicationProperties(ctx context.Context, clientID string) ([]management.Property, error)
	Organizations(ctx context.Context) ([]management.Organization, error)
}

// APIFactory returns a management API client authenticated for the event's environment
type APIFactory func(ctx context.Context, event TriggerEvent) (ManagementAPI, error)

// FromFactory adapts a management.Factory, scoping each client to the event's domain
func FromFactory(f *management.Factory) APIFactory {
	return func(ctx context.Context, event TriggerEvent) (ManagementAPI, error) {
		client, err := f.ForDomain(ctx, event.Context.Domains.KindeDomain)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Enricher adds organization claims to M2M tokens
type Enricher struct {
	settings workflow.Settings
	newAPI   APIFactory
	logger   *zap.Logger
}

// NewEnricher checks the workflow is registered with the capabilities it needs
func NewEnricher(settings workflow.Settings, newAPI APIFactory, logger *zap.Logger) (*Enricher, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Require(workflow.BindingM2MToken, workflow.BindingFetch); err != nil {
		return nil, err
	}
	if newAPI == nil {
		return nil, errors.New("management API factory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		settings: settings,
		newAPI:   newAPI,
		logger:   logger,
	}, nil
}

// Settings returns the workflow registration the enricher runs under
func (e *Enricher) Settings() workflow.Settings {
	return e.settings
}

// Enrich looks up the application's organization and writes the three claims on set.
// On error set is left untouched.
func (e *Enricher) Enrich(ctx context.Context, event TriggerEvent, set *TokenClaimSet) error {
	if set == nil {
		return ErrNoClaimSet
	}
	_, err := e.enrich(ctx, e.logger, event, set)
	return err
}

// Handle runs one invocation end to end and applies the failure policy
func (e *Enricher) Handle(ctx context.Context, inv Invocation) (Result, error) {
	log := e.logger.With(
		zap.String("invocation_id", uuid.NewString()),
		zap.String("client_id", inv.Context.Application.ClientID),
		zap.String("trigger", inv.Context.Workflow.Trigger),
	)
	start := time.Now()

	set, err := NewTokenClaimSet(inv.Token)
	if err != nil {
		// A malformed request is rejected whatever the failure policy
		metrics.ObserveEnrichment(string(OutcomeInvalidRequest), time.Since(start))
		log.Warn("Rejected invocation", zap.Error(err))
		return Result{}, err
	}

	claims, err := e.enrich(ctx, log, inv.TriggerEvent, set)
	outcome := Classify(err)
	metrics.ObserveEnrichment(string(outcome), time.Since(start))

	switch {
	case err == nil:
		log.Info("Added organization claims to M2M token",
			zap.String("org_code", claims.OrgCode),
			zap.Duration("took", time.Since(start)))
		return Result{Token: set.JSON(), Claims: &claims}, nil
	case !e.settings.StopsOnFailure():
		log.Warn("Enrichment failed, issuing token without custom claims",
			zap.String("outcome", string(outcome)), zap.Error(err))
		return Result{Token: inv.Token}, nil
	case outcome == OutcomeFailure:
		log.Error("Enrichment failed, stopping token issuance", zap.Error(err))
	default:
		log.Warn("Enrichment rejected, stopping token issuance",
			zap.String("outcome", string(outcome)), zap.Error(err))
	}
	return Result{}, err
}

func (e *Enricher) enrich(ctx context.Context, log *zap.Logger, event TriggerEvent, set *TokenClaimSet) (M2MTokenClaims, error) {
	api, err := e.newAPI(ctx, event)
	if err != nil {
		return M2MTokenClaims{}, fmt.Errorf("creating management API client: %w", err)
	}

	clientID := event.Context.Application.ClientID
	properties, err := api.ApplicationProperties(ctx, clientID)
	if err != nil {
		return M2MTokenClaims{}, fmt.Errorf("fetching application properties: %w", err)
	}

	orgCode, ok := findProperty(properties, OrgCodeProperty)
	if !ok || !orgCode.Truthy() {
		return M2MTokenClaims{}, ErrMissingConfig
	}

	organizations, err := api.Organizations(ctx)
	if err != nil {
		return M2MTokenClaims{}, fmt.Errorf("fetching organizations: %w", err)
	}

	org, matches := findOrganization(organizations, orgCode.Value)
	if matches == 0 {
		return M2MTokenClaims{}, &OrganizationNotFoundError{Code: orgCode.Value.String()}
	}
	if matches > 1 {
		log.Warn("Several organizations share a code, using the first",
			zap.String("org_code", org.Code), zap.Int("matches", matches))
	}

	claims := M2MTokenClaims{
		ApplicationID: clientID,
		OrgName:       org.Name,
		OrgCode:       org.Code,
	}
	if err := set.Apply(claims); err != nil {
		return M2MTokenClaims{}, err
	}
	return claims, nil
}

func findProperty(properties []management.Property, key string) (management.Property, bool) {
	for _, p := range properties {
		if p.Key == key {
			return p, true
		}
	}
	return management.Property{}, false
}

// findOrganization returns the first organization whose code equals value and
// how many organizations matched. Only string values can equal a code.
func findOrganization(organizations []management.Organization, value gjson.Result) (management.Organization, int) {
	if value.Type != gjson.String {
		return management.Organization{}, 0
	}

	var first management.Organization
	matches := 0
	for _, o := range organizations {
		if o.Code != value.Str {
			continue
		}
		if matches == 0 {
			first = o
		}
		matches++
	}
	return first, matches
}
