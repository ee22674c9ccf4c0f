package config

import (
	"fmt"
	"log"
	"os"
	"time"

	postgresStorage "github.com/mainevents/server/internal/adapters/database/postgres"
	redisAdapter "github.com/mainevents/server/internal/adapters/database/redis"
	"github.com/mainevents/server/pkg/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Config struct {
	// Database is nil when service.database.enabled is false; the app
	// then falls back to the in-memory store.
	Database *gorm.DB
	// Redis is nil when service.redis.enabled is false; caching and the
	// token denylist are simply skipped.
	Redis *redisAdapter.Client
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}
}

func Get() *Config {
	initConfig()

	err := logger.Init(logger.Config{
		Debug:     viper.GetBool("settings.debug"),
		LogToFile: viper.GetBool("settings.log-to-file"),
		LogsDir:   viper.GetString("settings.logs-dir"),
	})
	if err != nil {
		panic(err)
	}

	cfg := &Config{}

	if viper.GetBool("service.database.enabled") {
		var gormConfig *gorm.Config
		if viper.GetBool("settings.debug") {
			newLogger := gormLogger.New(
				log.New(os.Stdout, "\r\n", log.LstdFlags),
				gormLogger.Config{
					SlowThreshold: time.Second,
					LogLevel:      gormLogger.Info,
					Colorful:      true,
				},
			)
			gormConfig = &gorm.Config{
				Logger: newLogger,
			}
		} else {
			gormConfig = &gorm.Config{}
		}
		gormConfig.TranslateError = true

		dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable",
			viper.GetString("service.database.user"),
			viper.GetString("service.database.password"),
			viper.GetString("service.database.name"),
			viper.GetString("service.database.host"),
			viper.GetInt("service.database.port"),
		)

		database, err := gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			logger.Log.Panicf("Failed to connect to the database: %v", err)
		} else {
			logger.Log.Info("Successfully connected to the database")
		}

		errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
		if errMigrate != nil {
			logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
		}
		cfg.Database = database
	} else {
		logger.Log.Warn("Database disabled, using in-memory store")
	}

	if viper.GetBool("service.redis.enabled") {
		redisClient, err := redisAdapter.New(redisAdapter.Options{
			Host:     viper.GetString("service.redis.host"),
			Port:     viper.GetString("service.redis.port"),
			Password: viper.GetString("service.redis.password"),
		})
		if err != nil {
			logger.Log.Panicf("Failed to connect to redis: %v", err)
		} else {
			logger.Log.Info("Successfully connected to redis")
		}
		cfg.Redis = redisClient
	}

	return cfg
}
