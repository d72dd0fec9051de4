package main

import (
	"github.com/sells-group/credentialguard/internal/config"
	"github.com/sells-group/credentialguard/internal/lookup"
	"github.com/sells-group/credentialguard/internal/metrics"
	"github.com/sells-group/credentialguard/pkg/nppes"
)

// lookupEnv holds the wired lookup pipeline.
type lookupEnv struct {
	Service *lookup.Service
	Metrics *metrics.Metrics
}

// initLookup builds the registry client, resolver, and service from config.
// Metrics are attached only when withMetrics is set.
func initLookup(c *config.Config, withMetrics bool) *lookupEnv {
	client := nppes.NewClient(
		nppes.WithBaseURL(c.NPPES.BaseURL),
		nppes.WithVersion(c.NPPES.Version),
		nppes.WithTimeout(c.NPPES.Timeout()),
	)

	env := &lookupEnv{}
	var opts []lookup.ServiceOption
	if withMetrics {
		env.Metrics = metrics.New()
		opts = append(opts, lookup.WithObserver(env.Metrics))
	}
	env.Service = lookup.NewService(lookup.NewResolver(client), opts...)
	return env
}
