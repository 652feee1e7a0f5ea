// Package middleware provides HTTP middleware for the SusScope API server.
//
// It includes request logging in W3C Extended Log Format, with media and
// health check requests filtered by configuration, Prometheus request
// metrics with bounded path cardinality, and X-Request-ID tagging so a log
// line can be matched to the response a client saw.
package middleware
