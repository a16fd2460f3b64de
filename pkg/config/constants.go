package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry fully
	// prefixed names so the effective prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BRANDPULSE_DB_DSN"
	EnvDBHost = "BRANDPULSE_DB_HOST"
	EnvDBUser = "BRANDPULSE_DB_USER"
	EnvDBName = "BRANDPULSE_DB_NAME"

	EnvBrands = "BRANDPULSE_BRANDS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
