package db

import (
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
database:
  host: db
  dbname: library
auth:
  jwt_secret: s3cret
`))
	require.NoError(t, err)

	assert.Equal(t, ModeDev, cfg.Mode)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, 80, cfg.DB.MaxOpenConns)
	assert.Equal(t, 20, cfg.DB.MaxIdleConns)
	assert.Equal(t, 120*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 14, cfg.Lending.LoanPeriodDays)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Certificate.Enabled())
	assert.NoError(t, cfg.Validate())
}

func Test_ParseConfig_ExplicitValues(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
mode: release
server:
  addr: ":9443"
  shutdown_timeout: 3s
database:
  host: db
  port: 3307
  user: lib
  dbname: library
certificate:
  cert: cert.pem
  key: key.pem
auth:
  jwt_secret: s3cret
  token_ttl: 15m
lending:
  loan_period_days: 21
log:
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, ModeRelease, cfg.Mode)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 3307, cfg.DB.Port)
	assert.Equal(t, "lib", cfg.DB.Username)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 21, cfg.Lending.LoanPeriodDays)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Certificate.Enabled())
}

func Test_ParseConfig_BadYAML(t *testing.T) {
	_, err := ParseConfig([]byte("database: [unclosed"))
	assert.Error(t, err)
}

func Test_ApplyEnv_Overrides(t *testing.T) {
	// arrange
	cfg, err := ParseConfig([]byte("database:\n  host: from-file\n"))
	require.NoError(t, err)
	env := map[string]string{
		"LIBRARY_DB_HOST":    "from-env",
		"LIBRARY_DB_PORT":    "3310",
		"LIBRARY_JWT_SECRET": "env-secret",
		"LIBRARY_DB_NAME":    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	// act
	err = cfg.applyEnv(lookup)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DB.Host)
	assert.Equal(t, 3310, cfg.DB.Port)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Empty(t, cfg.DB.DBName)
}

func Test_ApplyEnv_BadPort(t *testing.T) {
	cfg := &Config{}
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "LIBRARY_DB_PORT" {
			return "not-a-port", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "LIBRARY_DB_PORT")
}

func Test_Validate_CollectsEveryProblem(t *testing.T) {
	cfg := &Config{
		Mode:        "staging",
		Lending:     LendingConfig{LoanPeriodDays: -1},
		Certificate: Certs{Cert: "cert.pem"},
	}

	err := cfg.Validate()

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 6)
	assert.ErrorContains(t, err, "database.host")
	assert.ErrorContains(t, err, "auth.jwt_secret")
	assert.ErrorContains(t, err, "certificate.key")
}

func Test_SplitStatements_SkipsComments(t *testing.T) {
	stmts := splitStatements(`
-- first
CREATE TABLE a (id INT);

-- second
CREATE TABLE b (
  id INT -- trailing comments are kept
);
`)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE b")
}

func Test_SplitStatements_EmbeddedSchema(t *testing.T) {
	stmts := splitStatements(schemaSQL)
	assert.Len(t, stmts, 4)
	for _, s := range stmts {
		assert.Contains(t, s, "CREATE TABLE IF NOT EXISTS")
	}
}

func Test_DSN_ParsesTimeInUTC(t *testing.T) {
	dsn := DSN(DatabaseConfig{Host: "db", Port: 3306, Username: "u", Password: "p", DBName: "library"})
	assert.Contains(t, dsn, "u:p@tcp(db:3306)/library")
	assert.Contains(t, dsn, "parseTime=true")
}
