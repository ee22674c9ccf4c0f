package main

import (
	"log"

	"github.com/mainevents/server/cmd/server"
	"github.com/mainevents/server/internal/adapters/config"
	"github.com/spf13/viper"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()

	srv, err := server.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	srv.NotificationService.StartCleanupScheduler(
		viper.GetDuration("notifications.cleanup-interval"),
		viper.GetInt("notifications.archive-days"),
	)

	if err := srv.Start(); err != nil {
		log.Panic(err)
	}
}
