package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is either "mysql" or "sqlite".
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BotConfig holds the Bot Framework registration and Teams app details.
type BotConfig struct {
	AppID             string `mapstructure:"app_id"`
	AppPassword       string `mapstructure:"app_password"`
	TenantID          string `mapstructure:"tenant_id"`
	ManifestAppID     string `mapstructure:"manifest_app_id"`
	AppBaseURI        string `mapstructure:"app_base_uri"`
	TokenURL          string `mapstructure:"token_url"`
	TokenScope        string `mapstructure:"token_scope"`
	OpenIDMetadataURL string `mapstructure:"openid_metadata_url"`
	TokenIssuer       string `mapstructure:"token_issuer"`
	SkipAuth          bool   `mapstructure:"skip_auth"`
}

// LanguageQnAMakerKey binds one language to its QnA Maker resource.
// The JSON names match the LanguageQnAMakerSubscriptionKeyJson environment value.
type LanguageQnAMakerKey struct {
	LanguageCode       string `json:"languageCode" mapstructure:"language_code"`
	LanguageName       string `json:"languageName" mapstructure:"language_name"`
	Default            bool   `json:"default" mapstructure:"default"`
	QnASubscriptionKey string `json:"qnaSubscriptionKey" mapstructure:"qna_subscription_key"`
	QnAHostURL         string `json:"qnaHostUrl" mapstructure:"qna_host_url"`
}

type QnAMakerConfig struct {
	// Endpoint is the authoring endpoint, e.g. https://westus.api.cognitive.microsoft.com.
	Endpoint         string                `mapstructure:"endpoint"`
	Languages        []LanguageQnAMakerKey `mapstructure:"languages"`
	ScoreThreshold   float64               `mapstructure:"score_threshold"`
	RequestTimeout   time.Duration         `mapstructure:"request_timeout"`
	LanguagesEnvName string                `mapstructure:"languages_env_name"`
}

type StorageConfig struct {
	// BucketURL is a gocloud.dev blob URL: azblob://container, file:///path, mem://.
	BucketURL  string `mapstructure:"bucket_url"`
	FolderName string `mapstructure:"folder_name"`
}

type ElasticsearchConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	Addresses          []string `mapstructure:"addresses"`
	Username           string   `mapstructure:"username"`
	Password           string   `mapstructure:"password"`
	TicketIndex        string   `mapstructure:"ticket_index"`
	KnowledgeBaseIndex string   `mapstructure:"knowledge_base_index"`
}

type PublishConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	// AdminUPNs are granted the admin role on startup.
	AdminUPNs []string `mapstructure:"admin_upns"`
}

type MigrationConfig struct {
	Strategy    string `mapstructure:"strategy"`
	ScriptsPath string `mapstructure:"scripts_path"`
}
