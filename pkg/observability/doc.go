/*
Package observability turns workflow lifecycle hooks into logs and Prometheus metrics,
and serves them over HTTP.

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := metrics.Hooks().Merge(observability.LoggingHooks(logger))
	eng := tokenforge.New(client, tokenforge.WithLifecycleHooks(hooks))

NewHandler exposes /metrics and /healthz; Serve runs it until the context ends.
*/
package observability
