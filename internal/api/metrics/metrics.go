// Package metrics defines and registers the custom Prometheus metrics of the
// e-commerce auth API. HTTP request metrics come from echoprometheus; the
// counters here describe authentication and authorization outcomes.
//
// All metrics are registered with the default registry at package init via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "account_disabled", "invalid_request" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration requests.
// Label:
//   - result: "success", "invalid", "duplicate" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration requests, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts forgot-password requests.
// Label:
//   - result: "success", "not_found", "invalid" or "error"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer tokens seen by the authentication filter.
// Label:
//   - result: "valid", "expired", "malformed"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisionsTotal counts path rule decisions.
// Labels:
//   - rule: the matched rule prefix, or "default"
//   - decision: "allow", "unauthorized" or "forbidden"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of authorization decisions, by rule and decision.",
	},
	[]string{"rule", "decision"},
)
