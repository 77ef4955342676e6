package workflow

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FailureAction tells the host what to do when the workflow fails
type FailureAction string

const (
	// FailureActionStop aborts token issuance
	FailureActionStop FailureAction = "stop"
	// FailureActionContinue issues the token without the workflow's changes
	FailureActionContinue FailureAction = "continue"
)

// Trigger identifies the host event that invokes a workflow
type Trigger string

// TriggerM2MTokenGeneration fires right before an M2M access token is issued
const TriggerM2MTokenGeneration Trigger = "m2m:token_generation"

// Binding names a host capability the workflow needs
type Binding string

const (
	BindingM2MToken Binding = "kinde.m2mToken" // modify the M2M access token
	BindingFetch    Binding = "kinde.fetch"    // call the management API
	BindingEnv      Binding = "kinde.env"      // read environment variables
	BindingURL      Binding = "url"            // read url params
)

// Errors returned by Validate and Require
var (
	ErrInvalidSettings   = errors.New("invalid workflow settings")
	ErrBindingNotGranted = errors.New("binding not granted")
)

// FailurePolicy is the host-side reaction to an unhandled workflow failure
type FailurePolicy struct {
	Action FailureAction `json:"action"`
}

// BindingOptions is empty for every binding this workflow uses
type BindingOptions struct{}

// Settings is the declarative registration the host consumes at deployment time
type Settings struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	FailurePolicy FailurePolicy              `json:"failurePolicy"`
	Trigger       Trigger                    `json:"trigger"`
	Bindings      map[Binding]BindingOptions `json:"bindings"`
}

// M2MTokenGeneration registers the M2M custom claims workflow
var M2MTokenGeneration = Settings{
	ID:   "m2mTokenGeneration",
	Name: "M2M custom claims",
	FailurePolicy: FailurePolicy{
		Action: FailureActionStop,
	},
	Trigger: TriggerM2MTokenGeneration,
	Bindings: map[Binding]BindingOptions{
		BindingM2MToken: {},
		BindingFetch:    {},
		BindingEnv:      {},
		BindingURL:      {},
	},
}

// Validate checks the settings are something the host would accept
func (s Settings) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSettings)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSettings)
	}
	if s.Trigger != TriggerM2MTokenGeneration {
		return fmt.Errorf("%w: unsupported trigger %q", ErrInvalidSettings, s.Trigger)
	}
	switch s.FailurePolicy.Action {
	case FailureActionStop, FailureActionContinue:
	default:
		return fmt.Errorf("%w: unsupported failure action %q", ErrInvalidSettings, s.FailurePolicy.Action)
	}
	return nil
}

// Has reports whether the binding is declared
func (s Settings) Has(b Binding) bool {
	_, ok := s.Bindings[b]
	return ok
}

// Require returns ErrBindingNotGranted listing every binding that is not declared
func (s Settings) Require(bindings ...Binding) error {
	var missing []string
	for _, b := range bindings {
		if !s.Has(b) {
			missing = append(missing, string(b))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrBindingNotGranted, strings.Join(missing, ", "))
}

// StopsOnFailure reports whether a failure must abort token issuance
func (s Settings) StopsOnFailure() bool {
	return s.FailurePolicy.Action != FailureActionContinue
}
