package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/app"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/config"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/controllers"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/routes"
	"github.com/plotline/mono-repo/backend/services/listing-service/internal/services"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
	"github.com/rs/cors"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize listing-service:", err)
	}
	defer application.Close()

	if err := application.Migrate(context.Background()); err != nil {
		utils.Logger.Fatal("Failed to apply schema:", err)
	}

	if cfg.LDFlag_SeedDbWithTestData {
		if err := application.SeedAllTestData(context.Background()); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	// Services
	listingService := services.NewListingService(application.TxR)

	// Controllers
	healthController := controllers.NewHealthController(application)
	listingController := controllers.NewListingController(listingService)

	// Router setup
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	listingController.Register(router)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("listing-service failed to start:", err)
	}
}
