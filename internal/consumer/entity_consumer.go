package consumer

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tickethub/reservation-service/internal/cache"
	"github.com/tickethub/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityConsumer replicates events and users published by their owning
// services into the local database. The reservation core never creates or
// mutates these entities itself, except for the attendee counter.
type EntityConsumer struct {
	db         *gorm.DB
	eventCache *cache.EventCache
}

func NewEntityConsumer(db *gorm.DB, eventCache *cache.EventCache) *EntityConsumer {
	return &EntityConsumer{db: db, eventCache: eventCache}
}

func (ec *EntityConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			ec.handleMessage(msg)
		}
		log.Println("[EntityConsumer] channel closed, stopping consumer")
	}()
}

func (ec *EntityConsumer) handleMessage(msg amqp.Delivery) {
	switch {
	case strings.HasPrefix(msg.RoutingKey, "event."):
		ec.handleEvent(msg)
	case strings.HasPrefix(msg.RoutingKey, "user."):
		ec.handleUser(msg)
	default:
		log.Printf("[EntityConsumer] unknown routing key %s, dropping", msg.RoutingKey)
		msg.Nack(false, false)
	}
}

func (ec *EntityConsumer) handleEvent(msg amqp.Delivery) {
	var event models.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[EntityConsumer] failed to unmarshal event: %v", err)
		msg.Nack(false, false)
		return
	}

	// Upsert on the upstream id. The counter column is deliberately excluded:
	// it belongs to this service and only moves under the row lock.
	result := ec.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "start_date", "end_date", "max_attendees", "reservation_start_at", "reservation_end_at", "updated_at"}),
	}).Create(&event)

	if result.Error != nil {
		log.Printf("[EntityConsumer] failed to upsert event %d: %v", event.ID, result.Error)
		msg.Nack(false, true) // requeue
		return
	}

	ec.eventCache.Invalidate(context.Background(), event.ID)

	log.Printf("[EntityConsumer] synced event %d: %s", event.ID, event.Name)
	msg.Ack(false)
}

func (ec *EntityConsumer) handleUser(msg amqp.Delivery) {
	var user models.User
	if err := json.Unmarshal(msg.Body, &user); err != nil {
		log.Printf("[EntityConsumer] failed to unmarshal user: %v", err)
		msg.Nack(false, false)
		return
	}

	result := ec.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "updated_at"}),
	}).Create(&user)

	if result.Error != nil {
		log.Printf("[EntityConsumer] failed to upsert user %d: %v", user.ID, result.Error)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[EntityConsumer] synced user %d", user.ID)
	msg.Ack(false)
}
