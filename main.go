package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/config"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/imagestore"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/jobs"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/notifier"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/routes"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
}

func main() {
	loadEnv()

	client, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer config.CloseDBConnection(client)

	config.InitCollections(client)

	if err := storage.EnsureIndexes(context.Background(),
		config.UserCollection, config.PropertyCollection, config.AppointmentCollection); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	redisClient := config.InitRedis()

	stores := routes.Stores{
		Users:        storage.NewUserStore(config.UserCollection, config.PlanCollection),
		Properties:   storage.NewPropertyStore(config.PropertyCollection),
		Appointments: storage.NewAppointmentStore(config.AppointmentCollection),
		Plans:        storage.NewPlanStore(config.PlanCollection),
	}

	images, err := imagestore.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to set up image store: %v", err)
	}

	svc := workflow.NewService(stores.Users, stores.Properties, stores.Appointments, images, notifier.NewFromEnv())

	statsJob := jobs.NewStatsJob(redisClient, stores.Users, stores.Properties, stores.Appointments)
	if err := statsJob.Start(); err != nil {
		log.Fatalf("Failed to start stats job: %v", err)
	}
	defer statsJob.Stop()

	router := mux.NewRouter()
	routes.Routes(router, svc, stores, statsJob, redisClient)

	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir))))
	}

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := corsOptions.Handler(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Error during server shutdown: %v", err)
	}

	// Let in-flight notification emails finish before the process exits.
	svc.Flush()

	log.Println("Server gracefully stopped")
}
