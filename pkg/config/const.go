package config

// EnvPrefix is applied by envconfig when processing the environment.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "AMPLIFY_DB_DSN"
	EnvDBHost = "AMPLIFY_DB_HOST"
	EnvDBUser = "AMPLIFY_DB_USER"
	EnvDBName = "AMPLIFY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
