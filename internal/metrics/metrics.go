package metrics

import "github.com/haguru/jiraiya/internal/interfaces"

var (
	SignupDurationSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets  = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	PostDurationSecondsBuckets   = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
)

const (
	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of errors during signup requests"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"
	LoginRequestsTotal        = "login_requests_total"
	LoginRequestsTotalHelp    = "Total number of login requests received"
	LoginSuccessTotal         = "login_success_total"
	LoginSuccessTotalHelp     = "Total number of successful login requests"
	LoginFailedTotal          = "login_failed_total"
	LoginFailedTotalHelp      = "Total number of failed login requests"
	LoginDurationSeconds      = "login_duration_seconds"
	LoginDurationSecondsHelp  = "Duration of login requests in seconds"
	LoginRateLimitedTotal     = "login_rate_limited_total"
	LoginRateLimitedTotalHelp = "Total number of login requests that were rate limited"

	// post operations are labelled by operation and outcome
	PostOperationsTotal      = "post_operations_total"
	PostOperationsTotalHelp  = "Total number of post operations by operation and outcome"
	PostDurationSeconds      = "post_duration_seconds"
	PostDurationSecondsHelp  = "Duration of post operations in seconds"
	AuthFailuresTotal        = "auth_failures_total"
	AuthFailuresTotalHelp    = "Total number of requests rejected as unauthenticated"
	HTTPRequestsInFlight     = "http_requests_in_flight"
	HTTPRequestsInFlightHelp = "Number of HTTP requests currently being served"
	LabelOperation           = "operation"
	LabelOutcome             = "outcome"
)

// Values of the outcome label.
const (
	OutcomeSuccess    = "success"
	OutcomeNotFound   = "not_found"
	OutcomeForbidden  = "forbidden"
	OutcomeBadRequest = "bad_request"
	OutcomeError      = "error"
)

// RegisterAPIMetrics registers every metric the HTTP API reports on m.
func RegisterAPIMetrics(m interfaces.Metrics) {
	m.RegisterCounter(SignupRequestsTotal, SignupRequestsTotalHelp)
	m.RegisterCounter(SignupSuccessTotal, SignupSuccessTotalHelp)
	m.RegisterCounter(SignupErrorsTotal, SignupErrorsTotalHelp)
	m.RegisterHistogram(SignupDurationSeconds, SignupDurationSecondsHelp, SignupDurationSecondsBuckets)

	m.RegisterCounter(LoginRequestsTotal, LoginRequestsTotalHelp)
	m.RegisterCounter(LoginSuccessTotal, LoginSuccessTotalHelp)
	m.RegisterCounter(LoginFailedTotal, LoginFailedTotalHelp)
	m.RegisterCounter(LoginRateLimitedTotal, LoginRateLimitedTotalHelp)
	m.RegisterHistogram(LoginDurationSeconds, LoginDurationSecondsHelp, LoginDurationSecondsBuckets)

	m.RegisterCounterVec(PostOperationsTotal, PostOperationsTotalHelp, []string{LabelOperation, LabelOutcome})
	m.RegisterHistogramVec(PostDurationSeconds, PostDurationSecondsHelp, PostDurationSecondsBuckets, []string{LabelOperation})
	m.RegisterCounter(AuthFailuresTotal, AuthFailuresTotalHelp)

	m.RegisterGauge(HTTPRequestsInFlight, HTTPRequestsInFlightHelp)
}
