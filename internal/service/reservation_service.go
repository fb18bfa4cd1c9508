package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tickethub/reservation-service/internal/models"
	"github.com/tickethub/reservation-service/internal/queue"
	"github.com/tickethub/reservation-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrDateNotAllowed = errors.New("current time is outside the reservation window")
	ErrEventSoldOut   = errors.New("event has no remaining capacity")
	ErrForbidden      = errors.New("reservation belongs to another user")
)

// ContactInfo carries the free-form contact fields attached to a reservation.
type ContactInfo struct {
	Name        string
	PhoneNumber string
	PostCode    int
	Address     string
}

// Publisher emits reservation lifecycle messages to the bus.
// *rabbitmq.Publisher satisfies it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type ReservationService interface {
	CreateReservation(ctx context.Context, eventID, userID uint, contact ContactInfo) (*models.Reservation, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id, newEventID uint) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, callerID, id uint) error
	ListReservations(ctx context.Context, userID uint, page, pageSize int) ([]models.Reservation, int64, error)
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	eventRepo       repository.EventRepository
	userRepo        repository.UserRepository
	queueClient     queue.Client
	publisher       Publisher
}

// NewReservationService wires the manager. queueClient and publisher may be
// nil; the corresponding notifications are then skipped.
func NewReservationService(
	reservationRepo repository.ReservationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	queueClient queue.Client,
	publisher Publisher,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		queueClient:     queueClient,
		publisher:       publisher,
	}
}

// CreateReservation claims one slot on the event. All capacity-affecting
// writers on a given event serialize on the row lock taken in step 1, so the
// counter check in step 3 always sees the post-increment state of every
// committed predecessor. The counter increment and the reservation insert
// commit or roll back as one unit.
func (s *reservationService) CreateReservation(ctx context.Context, eventID, userID uint, contact ContactInfo) (*models.Reservation, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEntityNotFound
	}

	var result *models.Reservation

	err = s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the event row — serializes concurrent reservation attempts
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntityNotFound
			}
			return err
		}

		// 2. Admission window, inclusive on both ends
		now := time.Now()
		if now.Before(event.ReservationStartAt) || now.After(event.ReservationEndAt) {
			return ErrDateNotAllowed
		}

		// 3. Capacity check against the locked counter
		if event.TotalAttendees >= event.MaxAttendees {
			return ErrEventSoldOut
		}

		// 4. Counter increment + reservation insert, one atomic unit
		event.TotalAttendees++
		if err := s.eventRepo.Save(ctx, tx, event); err != nil {
			return err
		}

		reservation := &models.Reservation{
			EventID:     eventID,
			UserID:      userID,
			Name:        contact.Name,
			PhoneNumber: contact.PhoneNumber,
			PostCode:    contact.PostCode,
			Address:     contact.Address,
		}
		if err := s.reservationRepo.Create(ctx, tx, reservation); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish("reservation.created", result); err != nil {
			log.Printf("[ReservationService] publish reservation.created failed for reservation %d: %v", result.ID, err)
		}
	}

	return result, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return reservation, nil
}

// UpdateReservation moves a reservation to another event. The reservation row
// is locked first, so concurrent writers on the same reservation serialize
// before touching any counter; the events are then locked in ascending-id
// order (no lock-order deadlock between concurrent moves), the target's window
// and capacity are re-validated, and the counter moves with the row: source
// decremented, target incremented, all in one transaction.
func (s *reservationService) UpdateReservation(ctx context.Context, id, newEventID uint) (*models.Reservation, error) {
	var result *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntityNotFound
			}
			return err
		}

		if reservation.EventID == newEventID {
			result = reservation
			return nil
		}

		source, target, err := s.lockEventPair(ctx, tx, reservation.EventID, newEventID)
		if err != nil {
			return err
		}

		now := time.Now()
		if now.Before(target.ReservationStartAt) || now.After(target.ReservationEndAt) {
			return ErrDateNotAllowed
		}
		if target.TotalAttendees >= target.MaxAttendees {
			return ErrEventSoldOut
		}

		if source != nil {
			if source.TotalAttendees > 0 {
				source.TotalAttendees--
			}
			if err := s.eventRepo.Save(ctx, tx, source); err != nil {
				return err
			}
		}

		target.TotalAttendees++
		if err := s.eventRepo.Save(ctx, tx, target); err != nil {
			return err
		}

		reservation.EventID = newEventID
		if err := s.reservationRepo.Save(ctx, tx, reservation); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// lockEventPair locks the source and target event rows in ascending-id order
// and returns them as (source, target). A missing target is ErrEntityNotFound;
// a missing source (event deleted upstream after the reservation was made) is
// tolerated and returned as nil.
func (s *reservationService) lockEventPair(ctx context.Context, tx *gorm.DB, sourceID, targetID uint) (*models.Event, *models.Event, error) {
	lockOne := func(id uint) (*models.Event, error) {
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return event, nil
	}

	firstID, secondID := sourceID, targetID
	if targetID < sourceID {
		firstID, secondID = targetID, sourceID
	}

	first, err := lockOne(firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := lockOne(secondID)
	if err != nil {
		return nil, nil, err
	}

	source, target := first, second
	if firstID == targetID {
		source, target = second, first
	}
	if target == nil {
		return nil, nil, ErrEntityNotFound
	}
	return source, target, nil
}

// DeleteReservation removes the caller's reservation and frees its slot. The
// reservation row is read under lock, so a concurrent delete of the same row
// blocks here and then observes the deletion as not-found instead of
// decrementing the counter a second time. The row delete and the counter
// decrement commit together under the event lock; the admission-queue release
// runs after commit and is best-effort.
func (s *reservationService) DeleteReservation(ctx context.Context, callerID, id uint) error {
	var eventID uint

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntityNotFound
			}
			return err
		}

		if reservation.UserID != callerID {
			return ErrForbidden
		}

		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, reservation.EventID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if event != nil {
			if event.TotalAttendees > 0 {
				event.TotalAttendees--
			}
			if err := s.eventRepo.Save(ctx, tx, event); err != nil {
				return err
			}
		}

		if err := s.reservationRepo.Delete(ctx, tx, reservation.ID); err != nil {
			return err
		}

		eventID = reservation.EventID
		return nil
	})
	if err != nil {
		return err
	}

	if s.queueClient != nil {
		if _, err := s.queueClient.ReleaseSlot(ctx, eventID, callerID); err != nil {
			log.Printf("[ReservationService] queue release failed for event %d user %d: %v", eventID, callerID, err)
		}
	}

	if s.publisher != nil {
		err := s.publisher.Publish("reservation.cancelled", map[string]uint{
			"reservation_id": id,
			"event_id":       eventID,
			"user_id":        callerID,
		})
		if err != nil {
			log.Printf("[ReservationService] publish reservation.cancelled failed for reservation %d: %v", id, err)
		}
	}

	return nil
}

func (s *reservationService) ListReservations(ctx context.Context, userID uint, page, pageSize int) ([]models.Reservation, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.reservationRepo.FindByUserID(ctx, userID, page, pageSize)
}
