// Package jobs holds the background maintenance work the server runs on
// a schedule. Currently that is one job: keeping the admin dashboard
// statistics warm in Redis so the console reads a single cached
// document instead of fanning out aggregations per page load.
package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
)

const (
	// StatsKey is where the dashboard document lives in Redis.
	StatsKey = "dashboard:stats"

	statsTTL      = time.Hour
	statsSchedule = "@every 10m"
)

// Stats is the dashboard document.
type Stats struct {
	Users                int64            `json:"users"`
	PropertiesByStatus   map[string]int64 `json:"propertiesByStatus"`
	AppointmentsByStatus map[string]int64 `json:"appointmentsByStatus"`
	SubscribersByPlan    map[string]int64 `json:"subscribersByPlan"`
	GeneratedAt          time.Time        `json:"generatedAt"`
}

type StatsJob struct {
	cron         *cron.Cron
	redis        *redis.Client
	users        *storage.UserStore
	properties   *storage.PropertyStore
	appointments *storage.AppointmentStore
}

func NewStatsJob(redisClient *redis.Client, users *storage.UserStore, properties *storage.PropertyStore, appointments *storage.AppointmentStore) *StatsJob {
	return &StatsJob{
		cron:         cron.New(),
		redis:        redisClient,
		users:        users,
		properties:   properties,
		appointments: appointments,
	}
}

// Start schedules the periodic refresh and runs one immediately so the
// dashboard is populated right after boot.
func (j *StatsJob) Start() error {
	if _, err := j.cron.AddFunc(statsSchedule, j.refresh); err != nil {
		return err
	}
	j.cron.Start()
	go j.refresh()
	log.Printf("Stats job: started, refreshing %s", statsSchedule)
	return nil
}

func (j *StatsJob) Stop() {
	j.cron.Stop()
	log.Println("Stats job: stopped")
}

func (j *StatsJob) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := j.Collect(ctx)
	if err != nil {
		log.Printf("Stats job: collection failed: %v", err)
		return
	}
	if err := j.store(ctx, stats); err != nil {
		log.Printf("Stats job: caching failed: %v", err)
	}
}

// Collect computes the dashboard counters from the stores.
func (j *StatsJob) Collect(ctx context.Context) (*Stats, error) {
	users, err := j.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	properties, err := j.properties.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := j.appointments.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	subscribers, err := j.users.SubscribersByPlan(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Users:                users,
		PropertiesByStatus:   properties,
		AppointmentsByStatus: appointments,
		SubscribersByPlan:    subscribers,
		GeneratedAt:          time.Now(),
	}, nil
}

// Cached returns the cached dashboard document, recomputing and
// re-caching on a miss.
func (j *StatsJob) Cached(ctx context.Context) (*Stats, error) {
	if j.redis != nil {
		raw, err := j.redis.Get(ctx, StatsKey).Result()
		if err == nil {
			var stats Stats
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			log.Printf("Stats job: redis read failed: %v", err)
		}
	}

	stats, err := j.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if err := j.store(ctx, stats); err != nil {
		log.Printf("Stats job: caching failed: %v", err)
	}
	return stats, nil
}

func (j *StatsJob) store(ctx context.Context, stats *Stats) error {
	if j.redis == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return j.redis.Set(ctx, StatsKey, raw, statsTTL).Err()
}
