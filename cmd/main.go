package main

import (
	"context"
	"log"

	"signage/config"
	"signage/routes"
	"signage/services"
)

func main() {
	config.InitDB()

	hub := services.NewDeviceHub()
	notifiers := []services.Notifier{hub}

	snsNotifier, err := services.NewSNSNotifier(config.DB)
	if err != nil {
		log.Printf("SNS notifier disabled: %v", err)
		snsNotifier = nil
	} else {
		notifiers = append(notifiers, snsNotifier)
	}
	notifier := services.CombineNotifiers(notifiers...)

	media, err := services.NewMediaService()
	if err != nil {
		log.Printf("media service disabled: %v", err)
		media = nil
	}

	scheduler := services.NewPublishScheduler(config.DB, notifier, config.LoadSchedulerConfig())
	scheduler.Start(context.Background())

	r := routes.SetupRouter(routes.Dependencies{
		DB:                config.DB,
		Notifier:          notifier,
		Hub:               hub,
		SNS:               snsNotifier,
		Media:             media,
		DeviceCallTimeout: config.DeviceCallTimeout(),
	})
	r.Run(":8080")
}
