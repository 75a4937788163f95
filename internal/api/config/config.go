package config

// Config 配置主体
type Config struct {
	Server             ServerConfig             `mapstructure:"server"`
	DB                 DBConfig                 `mapstructure:"database"`
	Redis              RedisConfig              `mapstructure:"redis"`
	Mongo              MongoConfig              `mapstructure:"mongo"`
	MinIO              MinIOConfig              `mapstructure:"minio"`
	Kafka              KafkaConfig              `mapstructure:"kafka"`
	KafkaEventConsumer KafkaEventConsumerConfig `mapstructure:"kafka_event_consumer"`
	Logstash           LogstashConfig           `mapstructure:"logstash"`
	JWT                JWTConfig                `mapstructure:"jwt"`
	BootstrapAdmin     BootstrapAdminConfig     `mapstructure:"bootstrap_admin"`
	Jobs               JobsConfig               `mapstructure:"jobs"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	Mode            string   `mapstructure:"mode"`
	AllowOrigins    []string `mapstructure:"allow_origins"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
	Timeout  int    `mapstructure:"timeout"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	ExternalUseSSL   bool   `mapstructure:"external_use_ssl"`
}

// KafkaConfig 为空 Brokers 时事件改为进程内直接投递
type KafkaConfig struct {
	Brokers    []string       `mapstructure:"brokers"`
	EventTopic string         `mapstructure:"event_topic"`
	Sasl       SaslConfig     `mapstructure:"sasl"`
	Consumer   ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
}

// KafkaEventConsumerConfig BatchWait 单位毫秒
type KafkaEventConsumerConfig struct {
	GroupID   string `mapstructure:"group_id"`
	BatchSize int    `mapstructure:"batch_size"`
	BatchWait int    `mapstructure:"batch_wait"`
}

// LogstashConfig 远程日志，Addr 为空时只输出到 stdout
type LogstashConfig struct {
	Addr    string `mapstructure:"addr"`
	Level   string `mapstructure:"level"`
	Service string `mapstructure:"service"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
	Issuer      string `mapstructure:"issuer"`
}

// BootstrapAdminConfig 首次启动时创建的管理员，Username 为空则跳过
type BootstrapAdminConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type JobsConfig struct {
	ArticleViewFlush string `mapstructure:"article_view_flush"`
}
