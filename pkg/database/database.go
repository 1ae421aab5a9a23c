package database

import (
	"context"
	"time"

	"VideoTube.com/cmd/model"
	"VideoTube.com/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormopentracing "gorm.io/plugin/opentracing"
)

// Open 创建 MySQL 连接, 返回的 *gorm.DB 在进程内共享并注入到各个 Dao
func Open(conf *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(conf.MysqlDSN()), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	if err = db.Use(gormopentracing.New()); err != nil {
		return nil, errors.Wrap(err, "register opentracing plugin")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// 设置连接池参数
	sqlDB.SetMaxOpenConns(conf.Mysql.MaxOpenConns)
	sqlDB.SetMaxIdleConns(conf.Mysql.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(conf.Mysql.ConnMaxLifetime)

	logrus.WithFields(logrus.Fields{
		"addr":     conf.Mysql.Addr,
		"database": conf.Mysql.Database,
	}).Info("mysql connected")
	return db, nil
}

// Migrate 建表以及唯一索引
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Tables()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}

// Ping 健康检查使用
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
