package constants

const (
	ServiceName = "Q Solutions API"

	// InitialStatus пишется вместе с каждой новой заявкой.
	InitialStatus = "Request Received"

	// APIKeyHeader несет общий ключ администратора.
	APIKeyHeader = "X-API-KEY"

	EnvProduction  = "production"
	EnvDevelopment = "development"
)
