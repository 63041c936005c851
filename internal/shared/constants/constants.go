package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	ContentTypeJSON = "application/json"

	ContextKeyRequestID = "request_id"
	ContextKeyUPN       = "upn"
	ContextKeyObjectID  = "object_id"
	ContextKeyRoles     = "roles"
)
