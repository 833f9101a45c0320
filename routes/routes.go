package routes

import (
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/controllers"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/jobs"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/middleware"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

// Stores bundles the persistence handles the route handlers need.
type Stores struct {
	Users        *storage.UserStore
	Properties   *storage.PropertyStore
	Appointments *storage.AppointmentStore
	Plans        *storage.PlanStore
}

func Routes(router *mux.Router, svc *workflow.Service, stores Stores, statsJob *jobs.StatsJob, redisClient *redis.Client) {
	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser(stores.Users)).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser(stores.Users)).Methods("POST")

	// Public browse and guest booking
	router.HandleFunc("/properties", controllers.ListProperties(stores.Properties, redisClient)).Methods("GET")
	router.HandleFunc("/properties/{id}", controllers.GetProperty(stores.Properties)).Methods("GET")
	router.HandleFunc("/plans", controllers.ListPlans(stores.Plans)).Methods("GET")
	router.HandleFunc("/appointments", controllers.ScheduleAppointment(svc)).Methods("POST")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	// Property routes
	authenticated.HandleFunc("/properties", controllers.CreateProperty(svc, redisClient)).Methods("POST")
	authenticated.HandleFunc("/properties/mine", controllers.MyProperties(stores.Properties)).Methods("GET")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(svc, redisClient)).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(svc, redisClient)).Methods("DELETE")

	// Subscription routes
	authenticated.HandleFunc("/subscribe/{planId}", controllers.Subscribe(stores.Users, stores.Plans)).Methods("POST")

	// Appointment routes
	authenticated.HandleFunc("/appointments", controllers.ScheduleAppointment(svc)).Methods("POST")
	authenticated.HandleFunc("/appointments", controllers.MyAppointments(stores.Appointments)).Methods("GET")
	authenticated.HandleFunc("/appointments/{id}/cancel", controllers.CancelAppointment(svc)).Methods("PUT")
	authenticated.HandleFunc("/appointments/{id}/feedback", controllers.SubmitFeedback(svc)).Methods("POST")

	// Admin console
	admin := authenticated.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminMiddleware)

	admin.HandleFunc("/properties", controllers.AdminListProperties(stores.Properties)).Methods("GET")
	admin.HandleFunc("/properties/{id}/status", controllers.SetPropertyStatus(svc, redisClient)).Methods("PUT")
	admin.HandleFunc("/appointments", controllers.AdminListAppointments(stores.Appointments)).Methods("GET")
	admin.HandleFunc("/appointments/{id}/status", controllers.SetAppointmentStatus(svc)).Methods("PUT")
	admin.HandleFunc("/appointments/{id}/meeting-link", controllers.UpdateMeetingLink(svc)).Methods("PUT")
	admin.HandleFunc("/plans", controllers.CreatePlan(stores.Plans)).Methods("POST")
	admin.HandleFunc("/plans/{id}", controllers.UpdatePlan(stores.Plans)).Methods("PUT")
	admin.HandleFunc("/plans/{id}", controllers.DeletePlan(stores.Plans)).Methods("DELETE")
	admin.HandleFunc("/users", controllers.AdminListUsers(stores.Users)).Methods("GET")
	admin.HandleFunc("/users/{id}", controllers.AdminDeleteUser(stores.Users)).Methods("DELETE")
	admin.HandleFunc("/stats", controllers.DashboardStats(statsJob)).Methods("GET")
}
