package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
)

// LanguagesEnvName is the environment variable holding the per-language QnA Maker bindings as JSON.
const LanguagesEnvName = "LanguageQnAMakerSubscriptionKeyJson"

type Config struct {
	Server        sharedConfig.ServerConfig        `mapstructure:"server"`
	Database      sharedConfig.DatabaseConfig      `mapstructure:"database"`
	Logger        sharedConfig.LoggerConfig        `mapstructure:"logger"`
	Redis         sharedConfig.RedisConfig         `mapstructure:"redis"`
	Bot           sharedConfig.BotConfig           `mapstructure:"bot"`
	QnAMaker      sharedConfig.QnAMakerConfig      `mapstructure:"qnamaker"`
	Storage       sharedConfig.StorageConfig       `mapstructure:"storage"`
	Elasticsearch sharedConfig.ElasticsearchConfig `mapstructure:"elasticsearch"`
	Publish       sharedConfig.PublishConfig       `mapstructure:"publish"`
	Auth          sharedConfig.AuthConfig          `mapstructure:"auth"`
	Migration     sharedConfig.MigrationConfig     `mapstructure:"migration"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is not an error; every key has a default or an env override.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("FAQPLUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to merge %s config: %w", env, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	envName := cfg.QnAMaker.LanguagesEnvName
	if envName == "" {
		envName = LanguagesEnvName
	}
	if raw := os.Getenv(envName); raw != "" {
		languages, err := ParseLanguages(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", envName, err)
		}
		cfg.QnAMaker.Languages = languages
	}

	Set(&cfg)
	return &cfg, nil
}

// languageEntry accepts both the short and the long key spellings seen in deployments.
type languageEntry struct {
	LanguageCode            string `json:"languageCode"`
	LanguageName            string `json:"languageName"`
	Default                 bool   `json:"default"`
	QnASubscriptionKey      string `json:"qnaSubscriptionKey"`
	QnAHostURL              string `json:"qnaHostUrl"`
	QnAMakerSubscriptionKey string `json:"qnAMakerSubscriptionKey"`
	QnAMakerHostURL         string `json:"qnAMakerHostUrl"`
}

// ParseLanguages decodes the LanguageQnAMakerSubscriptionKeyJson list.
func ParseLanguages(raw string) ([]sharedConfig.LanguageQnAMakerKey, error) {
	var entries []languageEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	languages := make([]sharedConfig.LanguageQnAMakerKey, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.LanguageCode) == "" {
			return nil, fmt.Errorf("entry %d has no languageCode", i)
		}
		key := e.QnASubscriptionKey
		if key == "" {
			key = e.QnAMakerSubscriptionKey
		}
		host := e.QnAHostURL
		if host == "" {
			host = e.QnAMakerHostURL
		}
		languages = append(languages, sharedConfig.LanguageQnAMakerKey{
			LanguageCode:       e.LanguageCode,
			LanguageName:       e.LanguageName,
			Default:            e.Default,
			QnASubscriptionKey: key,
			QnAHostURL:         strings.TrimRight(host, "/"),
		})
	}
	return languages, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Set replaces the process configuration. Used by Load and by tests.
func Set(cfg *Config) {
	appConfigMu.Lock()
	appConfig = cfg
	appConfigMu.Unlock()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3978)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "faqplusplus")
	v.SetDefault("database.path", "faqplusplus.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("bot.token_url", "https://login.microsoftonline.com/botframework.com/oauth2/v2.0/token")
	v.SetDefault("bot.token_scope", "https://api.botframework.com/.default")
	v.SetDefault("bot.openid_metadata_url", "https://login.botframework.com/v1/.well-known/openidconfiguration")
	v.SetDefault("bot.token_issuer", "https://api.botframework.com")

	v.SetDefault("qnamaker.endpoint", "https://westus.api.cognitive.microsoft.com")
	v.SetDefault("qnamaker.score_threshold", 0.5)
	v.SetDefault("qnamaker.request_timeout", 30*time.Second)
	v.SetDefault("qnamaker.languages_env_name", LanguagesEnvName)

	v.SetDefault("storage.bucket_url", "file:///var/lib/faqplusplus/blobs?create_dir=true")
	v.SetDefault("storage.folder_name", "faqplus-search-container")

	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.ticket_index", "faqplus-tickets")
	v.SetDefault("elasticsearch.knowledge_base_index", "faqplus-qna")

	v.SetDefault("publish.interval", time.Minute)
	v.SetDefault("publish.timeout", 5*time.Minute)

	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "faqplusplus")

	v.SetDefault("migration.strategy", "goose")
	v.SetDefault("migration.scripts_path", "./internal/infrastructure/migration/scripts")
}
