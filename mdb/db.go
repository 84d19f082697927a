package mdb

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/bwayne222/youtube-video-downloader/config"
	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/models"
)

var (
	Mysql *gorm.DB
	Redis *redis.Client
)

// InitGorm opens the history database. An empty DSN disables history
// recording; the resolver runs fine without it.
func InitGorm(cfg *config.Config) (*gorm.DB, error) {
	if cfg.MysqlDSN == "" {
		log.Warn("mysql dsn not set, resolution history disabled")
		return nil, nil
	}
	db, err := gorm.Open(mysql.Open(cfg.MysqlDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	Mysql = db
	if err := autoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// InitRedis opens the result cache. An empty address disables caching.
func InitRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Warn("redis addr not set, result cache disabled")
		return nil
	}
	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	return Redis
}

func autoMigrate(db *gorm.DB) error {
	log.Info("running auto migrate...")
	return db.AutoMigrate(&models.Resolution{})
}
