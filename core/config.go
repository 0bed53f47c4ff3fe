package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EngineBolt     = "bolt"
	EnginePostgres = "postgres"
)

type Config struct {
	Env       string // DEV (local; default), TEST, QA, PROD
	Build     string
	Debug     bool
	TestMode  bool
	AppName   string
	SecretKey string

	DefaultFromEmail mail.Address
	RollbarToken     string
	SendgridApiKey   string
	SeedOnStart      bool

	Server struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
		SessionCookie   string
		SessionMaxAge   time.Duration
		RateLimit       float64 // auth requests per second per client
		RateBurst       int
	}

	Storage struct {
		Engine       string
		Path         string // bolt file
		DatabaseURL  string // postgres
		QueryTimeout time.Duration
	}
}

// NewConfig reads the configuration from the environment, with an optional
// `config/.env.<env>` file loaded first.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Joineazy")
	v.SetDefault("secretKey", "k3$+9vq!zr0t=wm2ei@7xb(5h_ya&uj1)c*dnp8s4f%l6go")
	v.SetDefault("defaultFromEmail", "Joineazy <noreply@localhost>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("seedOnStart", true)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.sessionCookie", "joineazy_session")
	v.SetDefault("server.sessionMaxAge", 12*time.Hour)
	v.SetDefault("server.rateLimit", 1.0)
	v.SetDefault("server.rateBurst", 10)
	v.SetDefault("storage.engine", EngineBolt)
	v.SetDefault("storage.path", filepath.Join("data", "joineazy.db"))
	v.SetDefault("storage.databaseURL", "")
	v.SetDefault("storage.queryTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
		v.SetDefault("storage.engine", EngineMemory)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:            env,
		Build:          v.GetString("build"),
		Debug:          v.GetBool("debug"),
		TestMode:       v.GetBool("testMode"),
		AppName:        v.GetString("appName"),
		SecretKey:      v.GetString("secretKey"),
		RollbarToken:   v.GetString("rollbarToken"),
		SendgridApiKey: v.GetString("sendgridApiKey"),
		SeedOnStart:    v.GetBool("seedOnStart"),
	}
	conf.DefaultFromEmail = parseAddress(v.GetString("defaultFromEmail"))

	conf.Server.Host = v.GetString("server.host")
	conf.Server.Address = v.GetString("server.address")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.SessionCookie = v.GetString("server.sessionCookie")
	conf.Server.SessionMaxAge = v.GetDuration("server.sessionMaxAge")
	conf.Server.RateLimit = v.GetFloat64("server.rateLimit")
	conf.Server.RateBurst = v.GetInt("server.rateBurst")

	conf.Storage.Engine = strings.ToLower(v.GetString("storage.engine"))
	conf.Storage.Path = v.GetString("storage.path")
	conf.Storage.DatabaseURL = v.GetString("storage.databaseURL")
	conf.Storage.QueryTimeout = v.GetDuration("storage.queryTimeout")
	return conf
}

func parseAddress(s string) mail.Address {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return mail.Address{Address: s}
	}
	return *addr
}
