package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

const maxUploadBytes = 32 << 20

// CreateProperty accepts the multipart listing form: text fields plus
// 1-4 photos under "images". All the interesting rules live in the
// workflow; this handler only translates the transport.
func CreateProperty(svc *workflow.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			log.Printf("Invalid multipart form: %v", err)
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}

		input := workflow.PropertyInput{
			Title:         r.FormValue("title"),
			Location:      r.FormValue("location"),
			Price:         r.FormValue("price"),
			Beds:          r.FormValue("beds"),
			Baths:         r.FormValue("baths"),
			Sqft:          r.FormValue("sqft"),
			Type:          r.FormValue("type"),
			Availability:  r.FormValue("availability"),
			Description:   r.FormValue("description"),
			Phone:         r.FormValue("phone"),
			GoogleMapLink: r.FormValue("googleMapLink"),
			Lat:           r.FormValue("lat"),
			Lng:           r.FormValue("lng"),
		}
		input.Amenities = workflow.NormalizeAmenities(
			r.MultipartForm.Value["amenities"], r.MultipartForm.Value)

		fileHeaders := r.MultipartForm.File["images"]
		if len(fileHeaders) == 0 {
			fileHeaders = r.MultipartForm.File["image"]
		}
		images := make([]workflow.ImageUpload, 0, len(fileHeaders))
		for _, fh := range fileHeaders {
			f, err := fh.Open()
			if err != nil {
				log.Printf("Opening uploaded file %q: %v", fh.Filename, err)
				http.Error(w, "Unreadable image upload", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				log.Printf("Reading uploaded file %q: %v", fh.Filename, err)
				http.Error(w, "Unreadable image upload", http.StatusBadRequest)
				return
			}
			images = append(images, workflow.ImageUpload{Data: data, Filename: fh.Filename})
		}

		property, err := svc.CreateProperty(r.Context(), actor, input, images)
		if err != nil {
			writeError(w, err)
			return
		}

		go deletePropertyCache(redisClient)

		writeJSON(w, http.StatusCreated, property)
	}
}

// ListProperties is the public browse endpoint: approved listings only,
// filterable, cached in Redis keyed by the query string.
func ListProperties(properties *storage.PropertyStore, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		cacheKey := generateCacheKey("property", query)

		if redisClient != nil {
			cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
			if err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(cachedData))
				return
			}
			if err != redis.Nil {
				log.Printf("Redis GET error for key %s: %v", cacheKey, err)
			}
		}

		filter := buildPropertyFilter(query)
		filter["status"] = models.PropertyApproved

		result, err := properties.Find(r.Context(), filter, 50)
		if err != nil {
			log.Printf("Error fetching properties with filter %+v: %v", filter, err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}

		resultBytes, err := json.Marshal(result)
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		if redisClient != nil {
			if err := redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err(); err != nil {
				log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

// GetProperty is the public detail endpoint. Listings that are not
// approved are invisible here; owners see theirs through /api/properties/mine.
func GetProperty(properties *storage.PropertyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		property, err := properties.Get(r.Context(), id)
		if err != nil || property.Status != models.PropertyApproved {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, property)
	}
}

// MyProperties lists the requester's own listings in every status.
func MyProperties(properties *storage.PropertyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		result, err := properties.ByOwner(r.Context(), actor.ID)
		if err != nil {
			log.Printf("Error fetching properties for owner %s: %v", actor.ID.Hex(), err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func UpdateProperty(svc *workflow.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Printf("Invalid update data: %v", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		property, err := svc.UpdateProperty(r.Context(), actor, id, updateData)
		if err != nil {
			writeError(w, err)
			return
		}

		go deletePropertyCache(redisClient)

		writeJSON(w, http.StatusOK, property)
	}
}

func DeleteProperty(svc *workflow.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		if err := svc.DeleteProperty(r.Context(), actor, id); err != nil {
			writeError(w, err)
			return
		}

		go deletePropertyCache(redisClient)

		writeJSON(w, http.StatusOK, map[string]string{"message": "Property deleted successfully"})
	}
}

// buildPropertyFilter turns browse query parameters into a Mongo filter.
// Numeric fields take an optional operator suffix (price[lte]=500000),
// string fields take comma-separated alternatives, and amenities match
// as case-insensitive substrings.
func buildPropertyFilter(query url.Values) bson.M {
	var andConditions []bson.M
	fieldSpecificConditions := make(map[string]bson.M)

	operatorMap := map[string]string{
		"eq": "$eq", "ne": "$ne", "gt": "$gt", "gte": "$gte", "lt": "$lt", "lte": "$lte",
	}
	numericFields := map[string]bool{
		"price": true, "beds": true, "baths": true, "sqft": true,
	}
	boolFields := map[string]bool{"isFeatured": true, "isVerified": true}
	stringFields := map[string]bool{"type": true, "availability": true}

	for rawKey, queryValues := range query {
		if len(queryValues) == 0 || queryValues[0] == "" {
			continue
		}

		fieldKey := rawKey
		mongoOperator := "$eq"

		if strings.Contains(rawKey, "[") && strings.Contains(rawKey, "]") {
			parts := strings.SplitN(rawKey, "[", 2)
			fieldKey = parts[0]
			opKey := strings.TrimSuffix(parts[1], "]")
			if mappedOp, exists := operatorMap[opKey]; exists {
				mongoOperator = mappedOp
			} else {
				log.Printf("Unknown operator key: %s in query param %s", opKey, rawKey)
				continue
			}
		}
		queryValue := queryValues[0]

		switch {
		case fieldKey == "amenities":
			terms := strings.Split(queryValue, ",")
			var orClausesForField bson.A
			for _, term := range terms {
				trimmedTerm := strings.TrimSpace(term)
				if trimmedTerm == "" {
					continue
				}
				orClausesForField = append(orClausesForField, bson.M{"amenities": bson.M{"$regex": primitive.Regex{Pattern: trimmedTerm, Options: "i"}}})
			}
			if len(orClausesForField) > 0 {
				andConditions = append(andConditions, bson.M{"$or": orClausesForField})
			}

		case fieldKey == "location":
			andConditions = append(andConditions, bson.M{"location": bson.M{"$regex": primitive.Regex{Pattern: strings.TrimSpace(queryValue), Options: "i"}}})

		case stringFields[fieldKey]:
			values := strings.Split(queryValue, ",")
			var trimmedValues []string
			for _, v := range values {
				trimmedV := strings.TrimSpace(v)
				if fieldKey == "availability" {
					trimmedV = workflow.NormalizeAvailability(trimmedV)
				}
				if trimmedV != "" {
					trimmedValues = append(trimmedValues, trimmedV)
				}
			}
			if len(trimmedValues) > 0 {
				op := "$in"
				if mongoOperator == "$ne" {
					op = "$nin"
				}
				andConditions = append(andConditions, bson.M{fieldKey: bson.M{op: trimmedValues}})
			}

		case boolFields[fieldKey]:
			boolVal, err := strconv.ParseBool(strings.ToLower(queryValue))
			if err == nil {
				andConditions = append(andConditions, bson.M{fieldKey: bson.M{mongoOperator: boolVal}})
			} else {
				log.Printf("Invalid boolean value for %s: %s", fieldKey, queryValue)
			}

		case numericFields[fieldKey]:
			numVal, err := strconv.ParseFloat(queryValue, 64)
			if err != nil {
				log.Printf("Invalid numeric value for %s operator %s: %s", fieldKey, mongoOperator, queryValue)
				continue
			}
			if _, ok := fieldSpecificConditions[fieldKey]; !ok {
				fieldSpecificConditions[fieldKey] = bson.M{}
			}
			fieldSpecificConditions[fieldKey][mongoOperator] = numVal
		}
	}

	for field, conditionsMap := range fieldSpecificConditions {
		if len(conditionsMap) > 0 {
			andConditions = append(andConditions, bson.M{field: conditionsMap})
		}
	}

	filter := bson.M{}
	if len(andConditions) > 0 {
		filter["$and"] = andConditions
	}
	return filter
}
