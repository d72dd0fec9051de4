// Package lookup validates NPI numbers, resolves them against the NPPES
// registry, and normalizes the result into a dashboard-ready envelope.
package lookup

import (
	"encoding/json"
	"fmt"
)

// Kind classifies why a lookup failed.
type Kind string

const (
	// KindInvalidFormat means the caller-supplied key is not 10 decimal digits.
	KindInvalidFormat Kind = "invalid_format"
	// KindTransportError means the registry could not be reached or its body could not be read.
	KindTransportError Kind = "transport_error"
	// KindUpstreamError means the registry answered with a non-200 status.
	KindUpstreamError Kind = "upstream_error"
	// KindNotFound means the registry answered 200 with no matching provider.
	KindNotFound Kind = "not_found"
)

// OutcomeSuccess labels a lookup that produced a Record.
const OutcomeSuccess = "success"

// Defaults applied when the registry omits a field.
const (
	CredentialDefault = "N/A"
	UnknownDefault    = "Unknown"
	StatusActive      = "Active"
)

const (
	detailInvalid     = "Invalid NPI format. Must be 10 digits."
	detailTransport   = "Connection to CMS Registry Failed"
	detailNotFound    = "NPI Not Found in CMS Registry"
	detailUpstreamFmt = "CMS Registry Error: %d"
)

// Key is an NPI that passed Validate.
type Key string

// Record is a normalized provider.
type Record struct {
	FirstName   string `json:"firstName" yaml:"firstName"`
	LastName    string `json:"lastName" yaml:"lastName"`
	Credential  string `json:"credential" yaml:"credential"`
	Specialty   string `json:"specialty" yaml:"specialty"`
	State       string `json:"state" yaml:"state"`
	NPI         string `json:"npi" yaml:"npi"`
	Status      string `json:"status" yaml:"status"`
	LastUpdated string `json:"lastUpdated" yaml:"lastUpdated"`
}

// Failure is a classified lookup failure. It is returned as data, never raised.
type Failure struct {
	Kind   Kind
	Detail string
	NPI    string
	// StatusCode is the upstream HTTP status for KindUpstreamError, zero otherwise.
	StatusCode int
}

func (f *Failure) Error() string {
	return fmt.Sprintf("lookup [%s]: %s (npi=%q)", f.Kind, f.Detail, f.NPI)
}

func invalidFormat(raw string) *Failure {
	return &Failure{Kind: KindInvalidFormat, Detail: detailInvalid, NPI: raw}
}

func transportError(key Key) *Failure {
	return &Failure{Kind: KindTransportError, Detail: detailTransport, NPI: string(key)}
}

func upstreamError(key Key, statusCode int) *Failure {
	return &Failure{
		Kind:       KindUpstreamError,
		Detail:     fmt.Sprintf(detailUpstreamFmt, statusCode),
		NPI:        string(key),
		StatusCode: statusCode,
	}
}

func notFound(key Key) *Failure {
	return &Failure{Kind: KindNotFound, Detail: detailNotFound, NPI: string(key)}
}

// Envelope is the uniform response for a lookup. Exactly one of Record and
// Failure is set.
type Envelope struct {
	Record  *Record
	Failure *Failure
}

// OK reports whether the lookup produced a Record.
func (e Envelope) OK() bool {
	return e.Failure == nil && e.Record != nil
}

// Outcome returns OutcomeSuccess or the failure kind, for logs and metrics.
func (e Envelope) Outcome() string {
	if e.OK() {
		return OutcomeSuccess
	}
	if e.Failure == nil {
		return string(KindTransportError)
	}
	return string(e.Failure.Kind)
}

type successBody struct {
	Error  bool `json:"error" yaml:"error"`
	Record `yaml:",inline"`
}

type failureBody struct {
	Error  bool   `json:"error" yaml:"error"`
	Detail string `json:"detail" yaml:"detail"`
	NPI    string `json:"npi" yaml:"npi"`
}

// body returns the wire shape: the record fields with error=false, or
// error=true with detail and npi.
func (e Envelope) body() any {
	if e.OK() {
		return successBody{Error: false, Record: *e.Record}
	}
	f := e.Failure
	if f == nil {
		f = &Failure{Kind: KindTransportError, Detail: detailTransport}
	}
	return failureBody{Error: true, Detail: f.Detail, NPI: f.NPI}
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.body())
}

// MarshalYAML implements yaml.Marshaler with the same shape as MarshalJSON.
func (e Envelope) MarshalYAML() (any, error) {
	return e.body(), nil
}
