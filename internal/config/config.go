package config

import (
	"github.com/IBM/sarama"
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"syllabus"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string `envconfig:"SYLLABUS_PLANNER_ADDRESS" default:":3443"`
	MetricsAddress  string `envconfig:"SYLLABUS_PLANNER_METRICS_ADDRESS" default:":8080"`
	BaseUrl         string `envconfig:"SYLLABUS_PLANNER_BASE_URL" default:"https://localhost:3443"`
	LogLevel        string `envconfig:"SYLLABUS_PLANNER_LOG_LEVEL" default:"info"`
	Kafka           kafkaConfig
	Auth            Auth
	MigrationFolder string `envconfig:"SYLLABUS_PLANNER_MIGRATIONS_FOLDER" default:""`
}

type kafkaConfig struct {
	Brokers     []string `envconfig:"SYLLABUS_PLANNER_KAFKA_BROKERS" default:""`
	TaskTopic   string   `envconfig:"SYLLABUS_PLANNER_KAFKA_TASK_TOPIC" default:"syllabus.ai.tasks"`
	ResultTopic string   `envconfig:"SYLLABUS_PLANNER_KAFKA_RESULT_TOPIC" default:"syllabus.ai.results"`
	Version     string   `envconfig:"SYLLABUS_PLANNER_KAFKA_VERSION" default:""`
	ClientID    string   `envconfig:"SYLLABUS_PLANNER_KAFKA_CLIENT_ID" default:"syllabus-planner"`
	GroupID     string   `envconfig:"SYLLABUS_PLANNER_KAFKA_GROUP_ID" default:"syllabus-planner-results"`

	SaramaConfig *sarama.Config `ignored:"true"`
}

type Auth struct {
	AuthenticationType string `envconfig:"SYLLABUS_PLANNER_AUTH" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault builds a config from defaults and the current environment,
// bypassing the cached instance. Used by tests.
func NewDefault() *Config {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		panic(err)
	}
	return cfg
}
