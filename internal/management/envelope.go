package management

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformedResponse is returned when a management API body is not the JSON we expect
var ErrMalformedResponse = errors.New("malformed management API response")

// Property is one application property. Value keeps the raw JSON value so callers
// can tell "" from 0 from false from null.
type Property struct {
	Key   string
	Value gjson.Result
}

// Truthy reports whether the value would pass an "if (value)" check
func (p Property) Truthy() bool {
	switch p.Value.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return p.Value.Float() != 0
	case gjson.String:
		return p.Value.Str != ""
	default:
		return p.Value.Exists()
	}
}

// Organization is the part of an organization record the claims need
type Organization struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// EnvelopeShape tells which response envelope carried the organizations list
type EnvelopeShape int

const (
	EnvelopeEmpty    EnvelopeShape = iota // neither list present
	EnvelopeNested                        // {"data":{"organizations":[...]}}
	EnvelopeTopLevel                      // {"organizations":[...]}
)

func (s EnvelopeShape) String() string {
	switch s {
	case EnvelopeNested:
		return "nested"
	case EnvelopeTopLevel:
		return "top-level"
	default:
		return "empty"
	}
}

// OrganizationsEnvelope is the normalized organizations response
type OrganizationsEnvelope struct {
	Shape         EnvelopeShape
	Organizations []Organization
}

// ParseProperties reads {"properties":[{key,value}]}. A missing or null list is empty.
func ParseProperties(body []byte) ([]Property, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []Property{}, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: properties body is not valid json", ErrMalformedResponse)
	}
	list := gjson.GetBytes(body, "properties")
	if !present(list) {
		return []Property{}, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: properties is %s, not a list", ErrMalformedResponse, list.Type)
	}

	items := list.Array()
	properties := make([]Property, 0, len(items))
	for _, item := range items {
		properties = append(properties, Property{
			Key:   item.Get("key").String(),
			Value: item.Get("value"),
		})
	}
	return properties, nil
}

// ParseOrganizations accepts either envelope the organizations endpoint has been seen to use.
// The nested list wins when both are present. Records whose code is not a string are
// skipped since no org_code can equal them.
func ParseOrganizations(body []byte) (OrganizationsEnvelope, error) {
	envelope := OrganizationsEnvelope{Shape: EnvelopeEmpty, Organizations: []Organization{}}
	if len(bytes.TrimSpace(body)) == 0 {
		return envelope, nil
	}
	if !gjson.ValidBytes(body) {
		return envelope, fmt.Errorf("%w: organizations body is not valid json", ErrMalformedResponse)
	}

	var list gjson.Result
	if nested := gjson.GetBytes(body, "data.organizations"); present(nested) {
		envelope.Shape, list = EnvelopeNested, nested
	} else if top := gjson.GetBytes(body, "organizations"); present(top) {
		envelope.Shape, list = EnvelopeTopLevel, top
	} else {
		return envelope, nil
	}
	if !list.IsArray() {
		return envelope, fmt.Errorf("%w: %s organizations is %s, not a list", ErrMalformedResponse, envelope.Shape, list.Type)
	}

	for _, item := range list.Array() {
		code := item.Get("code")
		if code.Type != gjson.String {
			continue
		}
		envelope.Organizations = append(envelope.Organizations, Organization{
			Code: code.Str,
			Name: item.Get("name").String(),
		})
	}
	return envelope, nil
}

// present mirrors "?? []": only missing and null values fall through
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}
