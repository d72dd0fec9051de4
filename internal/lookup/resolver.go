package lookup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/credentialguard/pkg/nppes"
)

// Resolver turns a validated Key into a Record by querying the NPPES registry
// exactly once. It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	client nppes.Client
}

// NewResolver creates a Resolver backed by the given registry client.
func NewResolver(client nppes.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve performs one registry search and classifies the outcome. Every
// error from the client is converted into a Failure; nothing escapes.
func (r *Resolver) Resolve(ctx context.Context, key Key) (*Record, *Failure) {
	start := time.Now()
	log := zap.L().With(zap.String("npi", string(key)))

	resp, err := r.client.Search(ctx, string(key))
	elapsed := time.Since(start)
	if err != nil {
		if se, ok := nppes.IsStatusError(err); ok {
			log.Warn("lookup: registry returned error status",
				zap.Int("status_code", se.StatusCode),
				zap.Duration("duration", elapsed),
			)
			return nil, upstreamError(key, se.StatusCode)
		}
		log.Warn("lookup: registry unreachable",
			zap.Error(err),
			zap.Duration("duration", elapsed),
		)
		return nil, transportError(key)
	}

	if resp == nil || len(resp.Results) == 0 {
		log.Debug("lookup: npi not found", zap.Duration("duration", elapsed))
		return nil, notFound(key)
	}

	// Only the first match is used; the registry keys results by NPI.
	rec := normalize(key, resp.Results[0])
	log.Debug("lookup: resolved provider", zap.Duration("duration", elapsed))
	return rec, nil
}

// normalize maps a raw registry entry onto a Record. Each field defaults
// independently of the others.
func normalize(key Key, res nppes.Result) *Record {
	rec := &Record{
		FirstName:   res.Basic.FirstName,
		LastName:    res.Basic.LastName,
		Credential:  orDefault(res.Basic.Credential, CredentialDefault),
		Specialty:   UnknownDefault,
		State:       UnknownDefault,
		NPI:         string(key),
		Status:      StatusActive,
		LastUpdated: orDefault(res.Basic.LastUpdated, UnknownDefault),
	}
	if len(res.Taxonomies) > 0 {
		rec.Specialty = orDefault(res.Taxonomies[0].Desc, UnknownDefault)
	}
	if len(res.Addresses) > 0 {
		rec.State = orDefault(res.Addresses[0].State, UnknownDefault)
	}
	return rec
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
