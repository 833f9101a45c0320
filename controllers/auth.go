package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/utils"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

type Response struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func RegisterUser(users *storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			log.Printf("Error decoding user data: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if user.Email == "" || user.Password == "" {
			http.Error(w, "Email and password are required", http.StatusBadRequest)
			return
		}

		if _, err := users.FindByEmail(r.Context(), user.Email); err == nil {
			log.Printf("User email already exists: %s", user.Email)
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		} else if !errors.Is(err, workflow.ErrNotFound) {
			log.Printf("Error checking existing user: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		hashedPwd, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}
		user.Password = hashedPwd
		// Self-registration never grants privileges; admins are promoted
		// through bhumictl.
		user.Role = models.RoleUser
		user.Subscription = nil

		if err := users.Create(r.Context(), &user); err != nil {
			log.Printf("Error inserting user into the database: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, Response{Message: "User registered successfully"})
	}
}

func LoginUser(users *storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials models.User
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		dbUser, err := users.FindByEmail(r.Context(), credentials.Email)
		if err != nil {
			log.Printf("User not found: %s", credentials.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if !utils.CheckPasswordHash(credentials.Password, dbUser.Password) {
			log.Printf("Invalid credentials for user: %s", credentials.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := utils.GenerateJWT(dbUser.ID.Hex(), dbUser.Role)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, Response{Message: "Login successful", Token: token})
	}
}
