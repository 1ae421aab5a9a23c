package config

import "time"

type Config struct {
	Server        server        `yaml:"server" mapstructure:"server"`
	Mysql         mysql         `yaml:"mysql" mapstructure:"mysql"`
	Redis         redis         `yaml:"redis" mapstructure:"redis"`
	Minio         minio         `yaml:"minio" mapstructure:"minio"`
	JWT           jwt           `yaml:"jwt" mapstructure:"jwt"`
	RabbitMq      rabbitmq      `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Elasticsearch elasticsearch `yaml:"elasticsearch" mapstructure:"elasticsearch"`
	Jaeger        jaeger        `yaml:"jaeger" mapstructure:"jaeger"`
	Sentinel      sentinel      `yaml:"sentinel" mapstructure:"sentinel"`
	Snowflake     snowflake     `yaml:"snowflake" mapstructure:"snowflake"`
}

type server struct {
	Name           string   `yaml:"name"`
	Addr           string   `yaml:"addr"`
	LogLevel       string   `yaml:"log_level"`
	UploadDir      string   `yaml:"upload_dir"`
	MaxBodySize    int      `yaml:"max_body_size"`
	AllowOrigins   []string `yaml:"allow_origins"`
	SecureCookie   bool     `yaml:"secure_cookie"`
	AutoMigrate    bool     `yaml:"auto_migrate"`
	CommentPreview int      `yaml:"comment_preview"`
	PprofAddr      string   `yaml:"pprof_addr"`
}

type mysql struct {
	Addr            string        `yaml:"addr"`
	Database        string        `yaml:"database"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Charset         string        `yaml:"charset"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type minio struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	PublicBaseURL string `yaml:"public_base_url"`
	MaxRetries    int    `yaml:"max_retries"`
}

type jwt struct {
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessExpiry  time.Duration `yaml:"access_expiry"`
	RefreshExpiry time.Duration `yaml:"refresh_expiry"`
}

type rabbitmq struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
}

type elasticsearch struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Index   string `yaml:"index"`
}

type jaeger struct {
	Enabled   bool   `yaml:"enabled"`
	AgentAddr string `yaml:"agent_addr"`
}

type sentinel struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
}

type snowflake struct {
	WorkerID     int64 `yaml:"worker_id"`
	DatacenterID int64 `yaml:"datacenter_id"`
}

// RabbitMqURL amqp 连接串
func (c *Config) RabbitMqURL() string {
	return "amqp://" + c.RabbitMq.Username + ":" + c.RabbitMq.Password + "@" + c.RabbitMq.Addr + "/"
}
