package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

type ContextKey string

const (
	UserIDKey = ContextKey("userID")
	RoleKey   = ContextKey("role")
)

// actorFromContext rebuilds the workflow actor the auth middleware
// stashed in the request context.
func actorFromContext(r *http.Request) (workflow.Actor, bool) {
	idStr, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return workflow.Actor{}, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return workflow.Actor{}, false
	}
	role, _ := r.Context().Value(RoleKey).(string)
	return workflow.Actor{ID: id, Role: role}, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError translates a workflow error into its HTTP status. Anything
// outside the taxonomy is an internal failure and keeps its details in
// the log only.
func writeError(w http.ResponseWriter, err error) {
	status := workflow.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// generateCacheKey hashes the sorted query string so equivalent searches
// share one cache entry.
func generateCacheKey(prefix string, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// deletePropertyCache drops every cached search result. Runs in a
// goroutine after any property write.
func deletePropertyCache(redisClient *redis.Client) {
	if redisClient == nil {
		return
	}
	ctx := context.Background()
	const scanPattern = "property:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, execErr := pipe.Exec(ctx); execErr != nil {
		log.Printf("Error deleting %d property cache keys: %v", len(keysToDelete), execErr)
	}
}
