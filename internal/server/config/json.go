package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/resumehub/internal/flagx"
	"github.com/dmitrijs2005/resumehub/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON configuration file.
// Durations accept either "12h"-style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AdminSecret                  string         `json:"admin_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	RefreshTokenStore            string         `json:"refresh_token_store"`
	RedisAddr                    string         `json:"redis_addr"`
	RedisPassword                string         `json:"redis_password"`
	RedisDB                      int            `json:"redis_db"`
	SMTPHost                     string         `json:"smtp_host"`
	SMTPPort                     string         `json:"smtp_port"`
	SMTPUsername                 string         `json:"smtp_username"`
	SMTPPassword                 string         `json:"smtp_password"`
	MailFrom                     string         `json:"mail_from"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	LogLevel                     string         `json:"log_level"`
	CORSAllowedOrigins           []string       `json:"cors_allowed_origins"`
}

// parseJson overlays config with values from the file named by -c/-config.
// Only keys present with non-zero values are copied, so a partial file keeps
// the earlier layers intact. Unreadable or malformed files panic.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	copyString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	copyString(&config.DatabaseDSN, c.DatabaseDSN)
	copyString(&config.AccessTokenSecret, c.AccessTokenSecret)
	copyString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	copyString(&config.AdminSecret, c.AdminSecret)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	copyString(&config.RefreshTokenStore, c.RefreshTokenStore)
	copyString(&config.RedisAddr, c.RedisAddr)
	copyString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != 0 {
		config.RedisDB = c.RedisDB
	}
	copyString(&config.SMTPHost, c.SMTPHost)
	copyString(&config.SMTPPort, c.SMTPPort)
	copyString(&config.SMTPUsername, c.SMTPUsername)
	copyString(&config.SMTPPassword, c.SMTPPassword)
	copyString(&config.MailFrom, c.MailFrom)
	copyString(&config.S3RootUser, c.S3RootUser)
	copyString(&config.S3RootPassword, c.S3RootPassword)
	copyString(&config.S3Bucket, c.S3Bucket)
	copyString(&config.S3Region, c.S3Region)
	copyString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	copyString(&config.LogLevel, c.LogLevel)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func copyString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
