package claims

import "encoding/json"

// TriggerEvent is the context the host passes when an M2M token is about to be issued
type TriggerEvent struct {
	Context EventContext  `json:"context"`
	Request *EventRequest `json:"request,omitempty"`
}

// EventContext carries the trigger details
type EventContext struct {
	Application Application    `json:"application"`
	Domains     Domains        `json:"domains"`
	Workflow    WorkflowInfo   `json:"workflow"`
	Auth        AuthContext    `json:"auth"`
	URL         map[string]any `json:"url,omitempty"`
}

// Application identifies the M2M application requesting the token
type Application struct {
	ClientID string `json:"clientId"`
}

// Domains lists the host's domains for this environment
type Domains struct {
	KindeDomain string `json:"kindeDomain"`
}

// WorkflowInfo names the trigger that fired
type WorkflowInfo struct {
	Trigger string `json:"trigger"`
}

// AuthContext describes the token being issued
type AuthContext struct {
	Audience []string `json:"audience,omitempty"`
}

// EventRequest describes the inbound token request
type EventRequest struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// Invocation is what both hosting surfaces receive: the event and, optionally,
// the current token payload to enrich
type Invocation struct {
	TriggerEvent
	Token json.RawMessage `json:"token,omitempty"`
}

// Result is returned to the host after a successful invocation
type Result struct {
	// Token is the enriched token payload
	Token json.RawMessage `json:"token"`
	// Claims are the claims this workflow set, nil when nothing was set
	Claims *M2MTokenClaims `json:"claims,omitempty"`
}
