package config

// EnvPrefix is intentionally empty; every field names its variable explicitly.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CONNEX_DB_DSN"
	EnvDBHost = "CONNEX_DB_HOST"
	EnvDBUser = "CONNEX_DB_USER"
	EnvDBName = "CONNEX_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
