// Package notify fans application events out to listeners of a job.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const EventApplicationCreated = "application.created"
const EventApplicationReviewed = "application.reviewed"

type Event struct {
	Type          string    `json:"type"`
	JobID         string    `json:"job_id"`
	ApplicantID   string    `json:"applicant_id"`
	ApplicantType string    `json:"applicant_type,omitempty"`
	Status        string    `json:"status,omitempty"`
	At            time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, jobID string, ev Event) error
}

// Channel is the pub/sub channel carrying events for jobID.
func Channel(jobID string) string { return "job:" + jobID + ":applications" }

type RedisPublisher struct {
	rdb redis.UniversalClient
}

func NewRedisPublisher(rdb redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, jobID string, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(jobID), b).Err()
}

type Noop struct{}

func (Noop) Publish(context.Context, string, Event) error { return nil }
