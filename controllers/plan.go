package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

func ListPlans(plans *storage.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := plans.List(r.Context())
		if err != nil {
			log.Printf("Error fetching plans: %v", err)
			http.Error(w, "Error fetching plans", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// Subscribe puts the requester on a plan. Any existing subscription is
// replaced outright: the period restarts and the listing counter resets.
// Payment is handled upstream; this endpoint trusts the caller.
func Subscribe(users *storage.UserStore, plans *storage.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		planID, err := primitive.ObjectIDFromHex(mux.Vars(r)["planId"])
		if err != nil {
			http.Error(w, "Invalid plan ID", http.StatusBadRequest)
			return
		}

		plan, err := plans.Get(r.Context(), planID)
		if err != nil {
			if errors.Is(err, workflow.ErrNotFound) {
				http.Error(w, "Plan not found", http.StatusNotFound)
				return
			}
			log.Printf("Error fetching plan %s: %v", planID.Hex(), err)
			http.Error(w, "Error fetching plan", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		sub := models.Subscription{
			PlanID:       plan.ID,
			StartDate:    now,
			ExpiryDate:   now.AddDate(0, 0, plan.DurationDays),
			UsedListings: 0,
		}

		if err := users.SetSubscription(r.Context(), actor.ID, sub); err != nil {
			if errors.Is(err, workflow.ErrNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			log.Printf("Error subscribing user %s: %v", actor.ID.Hex(), err)
			http.Error(w, "Failed to subscribe", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, sub)
	}
}
