package config

// EnvPrefix is intentionally empty; every field carries a fully-qualified
// envconfig tag so the variable names stay greppable.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MVE_DB_DSN"
	EnvDBHost = "MVE_DB_HOST"
	EnvDBUser = "MVE_DB_USER"
	EnvDBName = "MVE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
