package config

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// 使用Viper的好处在于支持配置文件的热更新 同时viper对于大小写并不敏感 都是统一进行处理
// 环境变量使用 VIDEOTUBE_ 前缀覆盖, 例如 VIDEOTUBE_MYSQL_ADDR
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config.yml")

	configPaths := []string{
		"./config",
		"../config",
		"../../config",
		".",
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("VIDEOTUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		logrus.Warnf("config file not found, using defaults: %v", err)
	} else {
		abs, _ := filepath.Abs(v.ConfigFileUsed())
		logrus.Infof("Successfully read config file: %s", abs)
	}

	conf := fromViper(v)
	logrus.WithFields(logrus.Fields{
		"mysql":    conf.Mysql.Username + ":***@" + conf.Mysql.Addr + "/" + conf.Mysql.Database,
		"redis":    conf.Redis.Addr,
		"minio":    conf.Minio.Enabled,
		"rabbitmq": conf.RabbitMq.Enabled,
		"es":       conf.Elasticsearch.Enabled,
	}).Info("config loaded")
	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "videotube")
	v.SetDefault("server.addr", "0.0.0.0:8888")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.upload_dir", "./public/temp")
	v.SetDefault("server.max_body_size", 512*1024*1024)
	v.SetDefault("server.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.secure_cookie", true)
	v.SetDefault("server.auto_migrate", true)
	v.SetDefault("server.comment_preview", 3)

	v.SetDefault("mysql.addr", "127.0.0.1:3306")
	v.SetDefault("mysql.database", "videotube")
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("mysql.max_open_conns", 50)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.conn_max_lifetime", "1h")

	v.SetDefault("redis.addr", "127.0.0.1:6379")

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.bucket", "videotube")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.public_base_url", "http://localhost:9000")
	v.SetDefault("minio.max_retries", 3)

	v.SetDefault("jwt.access_secret", "videotube-access")
	v.SetDefault("jwt.refresh_secret", "videotube-refresh")
	v.SetDefault("jwt.access_expiry", "24h")
	v.SetDefault("jwt.refresh_expiry", "240h")

	v.SetDefault("rabbitmq.addr", "localhost:5672")
	v.SetDefault("rabbitmq.username", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("rabbitmq.exchange", "videotube_events")

	v.SetDefault("elasticsearch.url", "http://localhost:9200")
	v.SetDefault("elasticsearch.index", "videos")

	v.SetDefault("jaeger.agent_addr", "localhost:6831")

	v.SetDefault("sentinel.threshold", 200)

	v.SetDefault("snowflake.worker_id", 1)
	v.SetDefault("snowflake.datacenter_id", 1)
}

// 手动从viper获取配置值，避免Unmarshal时yaml与mapstructure标签不一致的问题
func fromViper(v *viper.Viper) *Config {
	c := new(Config)

	c.Server.Name = v.GetString("server.name")
	c.Server.Addr = v.GetString("server.addr")
	c.Server.LogLevel = v.GetString("server.log_level")
	c.Server.UploadDir = v.GetString("server.upload_dir")
	c.Server.MaxBodySize = v.GetInt("server.max_body_size")
	c.Server.AllowOrigins = v.GetStringSlice("server.allow_origins")
	c.Server.SecureCookie = v.GetBool("server.secure_cookie")
	c.Server.AutoMigrate = v.GetBool("server.auto_migrate")
	c.Server.CommentPreview = v.GetInt("server.comment_preview")
	c.Server.PprofAddr = v.GetString("server.pprof_addr")

	c.Mysql.Addr = v.GetString("mysql.addr")
	c.Mysql.Database = v.GetString("mysql.database")
	c.Mysql.Username = v.GetString("mysql.username")
	c.Mysql.Password = v.GetString("mysql.password")
	c.Mysql.Charset = v.GetString("mysql.charset")
	c.Mysql.MaxOpenConns = v.GetInt("mysql.max_open_conns")
	c.Mysql.MaxIdleConns = v.GetInt("mysql.max_idle_conns")
	c.Mysql.ConnMaxLifetime = v.GetDuration("mysql.conn_max_lifetime")

	c.Redis.Addr = v.GetString("redis.addr")
	c.Redis.Password = v.GetString("redis.password")
	c.Redis.DB = v.GetInt("redis.db")

	c.Minio.Enabled = v.GetBool("minio.enabled")
	c.Minio.Endpoint = v.GetString("minio.endpoint")
	c.Minio.AccessKey = v.GetString("minio.access_key")
	c.Minio.SecretKey = v.GetString("minio.secret_key")
	c.Minio.UseSSL = v.GetBool("minio.use_ssl")
	c.Minio.Bucket = v.GetString("minio.bucket")
	c.Minio.Region = v.GetString("minio.region")
	c.Minio.PublicBaseURL = v.GetString("minio.public_base_url")
	c.Minio.MaxRetries = v.GetInt("minio.max_retries")

	c.JWT.AccessSecret = v.GetString("jwt.access_secret")
	c.JWT.RefreshSecret = v.GetString("jwt.refresh_secret")
	c.JWT.AccessExpiry = v.GetDuration("jwt.access_expiry")
	c.JWT.RefreshExpiry = v.GetDuration("jwt.refresh_expiry")

	c.RabbitMq.Enabled = v.GetBool("rabbitmq.enabled")
	c.RabbitMq.Addr = v.GetString("rabbitmq.addr")
	c.RabbitMq.Username = v.GetString("rabbitmq.username")
	c.RabbitMq.Password = v.GetString("rabbitmq.password")
	c.RabbitMq.Exchange = v.GetString("rabbitmq.exchange")

	c.Elasticsearch.Enabled = v.GetBool("elasticsearch.enabled")
	c.Elasticsearch.URL = v.GetString("elasticsearch.url")
	c.Elasticsearch.Index = v.GetString("elasticsearch.index")

	c.Jaeger.Enabled = v.GetBool("jaeger.enabled")
	c.Jaeger.AgentAddr = v.GetString("jaeger.agent_addr")

	c.Sentinel.Enabled = v.GetBool("sentinel.enabled")
	c.Sentinel.Threshold = v.GetFloat64("sentinel.threshold")

	c.Snowflake.WorkerID = v.GetInt64("snowflake.worker_id")
	c.Snowflake.DatacenterID = v.GetInt64("snowflake.datacenter_id")
	return c
}

// MysqlDSN 生成数据库的dsn
func (c *Config) MysqlDSN() string {
	return strings.Join([]string{c.Mysql.Username, ":", c.Mysql.Password, "@tcp(", c.Mysql.Addr, ")/",
		c.Mysql.Database, "?charset=", c.Mysql.Charset, "&parseTime=True&loc=Local"}, "")
}
