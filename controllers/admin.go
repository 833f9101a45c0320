package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/jobs"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

// AdminListProperties lists listings in any status, optionally filtered
// by ?status=pending for the moderation queue.
func AdminListProperties(properties *storage.PropertyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := bson.M{}
		if status := r.URL.Query().Get("status"); status != "" {
			filter["status"] = status
		}

		result, err := properties.Find(r.Context(), filter, 200)
		if err != nil {
			log.Printf("Error fetching properties for admin: %v", err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func SetPropertyStatus(svc *workflow.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := svc.SetPropertyStatus(r.Context(), id, body.Status); err != nil {
			writeError(w, err)
			return
		}

		go deletePropertyCache(redisClient)

		writeJSON(w, http.StatusOK, map[string]string{"message": "Property status updated"})
	}
}

func AdminListAppointments(appointments *storage.AppointmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := appointments.List(r.Context())
		if err != nil {
			log.Printf("Error fetching appointments for admin: %v", err)
			http.Error(w, "Error fetching appointments", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func SetAppointmentStatus(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
			return
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := svc.SetAppointmentStatus(r.Context(), id, body.Status); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment status updated"})
	}
}

func UpdateMeetingLink(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
			return
		}

		var body struct {
			MeetingLink string `json:"meetingLink"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := svc.UpdateMeetingLink(r.Context(), id, body.MeetingLink); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Meeting link updated"})
	}
}

func CreatePlan(plans *storage.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var plan models.Plan
		if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if plan.Name == "" || plan.Price < 0 || plan.ListingLimit < 0 || plan.FeaturedLimit < 0 || plan.DurationDays <= 0 {
			http.Error(w, "Invalid plan definition", http.StatusBadRequest)
			return
		}

		if err := plans.Insert(r.Context(), &plan); err != nil {
			log.Printf("Error creating plan: %v", err)
			http.Error(w, "Failed to create plan", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, plan)
	}
}

func UpdatePlan(plans *storage.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid plan ID", http.StatusBadRequest)
			return
		}

		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		delete(fields, "_id")
		delete(fields, "id")
		delete(fields, "createdAt")

		if err := plans.Update(r.Context(), id, fields); err != nil {
			if errors.Is(err, workflow.ErrNotFound) {
				http.Error(w, "Plan not found", http.StatusNotFound)
				return
			}
			log.Printf("Error updating plan %s: %v", id.Hex(), err)
			http.Error(w, "Failed to update plan", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Plan updated"})
	}
}

func DeletePlan(plans *storage.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid plan ID", http.StatusBadRequest)
			return
		}

		if err := plans.Delete(r.Context(), id); err != nil {
			if errors.Is(err, workflow.ErrNotFound) {
				http.Error(w, "Plan not found", http.StatusNotFound)
				return
			}
			log.Printf("Error deleting plan %s: %v", id.Hex(), err)
			http.Error(w, "Failed to delete plan", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Plan deleted"})
	}
}

func AdminListUsers(users *storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := users.List(r.Context())
		if err != nil {
			log.Printf("Error fetching users for admin: %v", err)
			http.Error(w, "Error fetching users", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func AdminDeleteUser(users *storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		if err := users.Delete(r.Context(), id); err != nil {
			if errors.Is(err, workflow.ErrNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			log.Printf("Error deleting user %s: %v", id.Hex(), err)
			http.Error(w, "Failed to delete user", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
	}
}

// DashboardStats serves the cached dashboard document the stats job
// keeps warm.
func DashboardStats(statsJob *jobs.StatsJob) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := statsJob.Cached(r.Context())
		if err != nil {
			log.Printf("Error collecting dashboard stats: %v", err)
			http.Error(w, "Error collecting stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
