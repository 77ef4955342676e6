package claims

import (
	"errors"
	"fmt"
)

// ErrMissingConfig means the application has no usable org_code property
//
//nolint:stylecheck // the message is surfaced verbatim by the host
var ErrMissingConfig = errors.New("Missing org_code application property")

// ErrInvalidToken means the invocation's token payload is not a json object
var ErrInvalidToken = errors.New("token payload must be a json object")

// ErrNoClaimSet is returned when Enrich is given no claim set to write to
var ErrNoClaimSet = errors.New("token claim set is required")

// OrganizationNotFoundError means no organization has the application's org_code
type OrganizationNotFoundError struct {
	Code string
}

func (e *OrganizationNotFoundError) Error() string {
	return fmt.Sprintf("No organization found with code '%s'.", e.Code)
}

// Outcome classifies an invocation result for logs, metrics and status codes
type Outcome string

const (
	OutcomeSuccess              Outcome = "success"
	OutcomeMissingConfig        Outcome = "missing_config"
	OutcomeOrganizationNotFound Outcome = "organization_not_found"
	OutcomeInvalidRequest       Outcome = "invalid_request"
	OutcomeFailure              Outcome = "failure"
)

// Classify maps an Enrich error to its Outcome
func Classify(err error) Outcome {
	var notFound *OrganizationNotFoundError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrMissingConfig):
		return OutcomeMissingConfig
	case errors.As(err, &notFound):
		return OutcomeOrganizationNotFound
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrNoClaimSet):
		return OutcomeInvalidRequest
	default:
		return OutcomeFailure
	}
}
