package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ScopeUser   = "user"
	ScopeGlobal = "global"
)

type Config struct {
	Port       string
	APIBase    string
	Scope      string
	LogDir     string
	LogConsole bool

	StoreBackend string // memory | postgres | sqlite | bolt
	DBUser       string
	DBPassword   string
	DBHost       string
	DBPort       string
	DBName       string
	SQLitePath   string
	BoltPath     string

	StreamInterval time.Duration

	UploadBackend  string // local | minio
	UploadDir      string
	UploadTTL      time.Duration
	UploadMaxBytes int64
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOSecure    bool

	JWTSecret       string
	EnableDevRoutes bool
	CORSOrigins     []string
}

// LoadConfig reads .env (if any), then mockchat.yaml (if any), then
// MOCKCHAT_* environment variables, in increasing priority.
func LoadConfig() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("mockchat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()
	return FromViper(v)
}

// FromViper applies defaults and env bindings to v and builds a Config.
func FromViper(v *viper.Viper) Config {
	setDefaults(v)
	v.SetEnvPrefix("mockchat")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	scope := strings.ToLower(v.GetString("scope"))
	if scope != ScopeGlobal {
		scope = ScopeUser
	}

	return Config{
		Port:       v.GetString("port"),
		APIBase:    strings.TrimRight(v.GetString("api_base"), "/"),
		Scope:      scope,
		LogDir:     v.GetString("log.dir"),
		LogConsole: v.GetBool("log.console"),

		StoreBackend: strings.ToLower(v.GetString("store.backend")),
		DBUser:       v.GetString("db.user"),
		DBPassword:   v.GetString("db.password"),
		DBHost:       v.GetString("db.host"),
		DBPort:       v.GetString("db.port"),
		DBName:       v.GetString("db.name"),
		SQLitePath:   v.GetString("store.sqlite_path"),
		BoltPath:     v.GetString("store.bolt_path"),

		StreamInterval: v.GetDuration("stream.interval"),

		UploadBackend:  strings.ToLower(v.GetString("upload.backend")),
		UploadDir:      v.GetString("upload.dir"),
		UploadTTL:      v.GetDuration("upload.ttl"),
		UploadMaxBytes: v.GetInt64("upload.max_bytes"),
		MinIOEndpoint:  v.GetString("minio.endpoint"),
		MinIOAccessKey: v.GetString("minio.access_key"),
		MinIOSecretKey: v.GetString("minio.secret_key"),
		MinIOBucket:    v.GetString("minio.bucket"),
		MinIOSecure:    v.GetBool("minio.secure"),

		JWTSecret:       v.GetString("jwt_secret"),
		EnableDevRoutes: v.GetBool("dev_routes"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "4000")
	v.SetDefault("api_base", "http://localhost:4000")
	v.SetDefault("scope", ScopeUser)
	v.SetDefault("log.dir", "./logs")
	v.SetDefault("log.console", true)
	v.SetDefault("store.backend", "memory")
	v.SetDefault("db.port", "5432")
	v.SetDefault("store.sqlite_path", "./data/mockchat.db")
	v.SetDefault("store.bolt_path", "./data/mockchat.bolt")
	v.SetDefault("stream.interval", 120*time.Millisecond)
	v.SetDefault("upload.backend", "local")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.ttl", 10*time.Second)
	v.SetDefault("upload.max_bytes", int64(10<<20))
	v.SetDefault("minio.bucket", "mockchat-uploads")
	v.SetDefault("dev_routes", false)
	v.SetDefault("cors_origins", "*")
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
