package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tickethub/reservation-service/internal/models"
	"gorm.io/gorm"
)

// Unit tests cover the paths that run outside the locked transaction; the
// transaction and locking behavior itself is exercised against Postgres in
// tests/integration.

// --- Mock repositories ---

type mockReservationRepo struct {
	findByIDFn     func(ctx context.Context, id uint) (*models.Reservation, error)
	findByUserIDFn func(ctx context.Context, userID uint, page, pageSize int) ([]models.Reservation, int64, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	return nil
}
func (m *mockReservationRepo) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockReservationRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockReservationRepo) FindByUserID(ctx context.Context, userID uint, page, pageSize int) ([]models.Reservation, int64, error) {
	return m.findByUserIDFn(ctx, userID, page, pageSize)
}
func (m *mockReservationRepo) Save(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	return nil
}
func (m *mockReservationRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }
func (m *mockReservationRepo) CountByEventID(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	return 0, nil
}
func (m *mockReservationRepo) GetDB() *gorm.DB { return nil }

type mockEventRepo struct{}

func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockEventRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockEventRepo) Save(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	return nil
}

type mockUserRepo struct {
	existsFn func(ctx context.Context, id uint) (bool, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return m.existsFn(ctx, id)
}

// --- Tests ---

func TestCreateReservation_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		existsFn: func(ctx context.Context, id uint) (bool, error) { return false, nil },
	}
	svc := NewReservationService(&mockReservationRepo{}, &mockEventRepo{}, users, nil, nil)

	reservation, err := svc.CreateReservation(context.Background(), 1, 999, ContactInfo{})

	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.Nil(t, reservation)
}

func TestGetReservation_NotFoundMapsToDomainError(t *testing.T) {
	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Reservation, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewReservationService(reservations, &mockEventRepo{}, &mockUserRepo{}, nil, nil)

	_, err := svc.GetReservation(context.Background(), 1)

	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestGetReservation_Success(t *testing.T) {
	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Reservation, error) {
			return &models.Reservation{ID: id, EventID: 1, UserID: 7}, nil
		},
	}
	svc := NewReservationService(reservations, &mockEventRepo{}, &mockUserRepo{}, nil, nil)

	reservation, err := svc.GetReservation(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, uint(5), reservation.ID)
}

func TestListReservations_NormalizesPaging(t *testing.T) {
	var gotPage, gotPageSize int
	reservations := &mockReservationRepo{
		findByUserIDFn: func(ctx context.Context, userID uint, page, pageSize int) ([]models.Reservation, int64, error) {
			gotPage, gotPageSize = page, pageSize
			return nil, 0, nil
		},
	}
	svc := NewReservationService(reservations, &mockEventRepo{}, &mockUserRepo{}, nil, nil)

	_, _, err := svc.ListReservations(context.Background(), 7, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 20, gotPageSize)

	_, _, err = svc.ListReservations(context.Background(), 7, 2, 500)
	assert.NoError(t, err)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 20, gotPageSize)
}
