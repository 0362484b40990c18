package observability

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	MSalesRecorded       MetricKey = "sales_recorded_total"
	MPaymentsRecorded    MetricKey = "payments_recorded_total"
	MQuotaRejections     MetricKey = "quota_rejections_total"
	MOversellRejections  MetricKey = "oversell_rejections_total"
)
