package config

// EnvPrefix is the envconfig prefix shared by all configuration variables.
const EnvPrefix = "WAKELNI"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv     = "WAKELNI_APP_ENV"
	EnvPort       = "WAKELNI_APP_PORT"
	EnvDBDSN      = "WAKELNI_DB_DSN"
	EnvDBHost     = "WAKELNI_DB_HOST"
	EnvDBUser     = "WAKELNI_DB_USER"
	EnvDBName     = "WAKELNI_DB_NAME"
	EnvRedisURL   = "WAKELNI_REDIS_URL"
	EnvJWTSecret  = "WAKELNI_JWT_SECRET"
	EnvJWTIssuer  = "WAKELNI_JWT_ISSUER"
	EnvJWTExpMins = "WAKELNI_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
