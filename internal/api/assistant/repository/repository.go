package assistantRepository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"LundyVoice/internal/entity"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Bookings: &bookingRepository{q: sqlExecutor, log: r.log},
		Commands: &commandRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Bookings interface {
		CreateBooking(ctx context.Context, booking entity.DemoBooking) error
		GetLatestBookingBySession(ctx context.Context, sessionID string) (entity.DemoBooking, error)
		ListBookings(ctx context.Context, limit, offset int) ([]entity.DemoBooking, int, error)
	}

	Commands interface {
		CreateCommandLog(ctx context.Context, cmd entity.CommandLog) error
		GetCommandLogsBySession(ctx context.Context, sessionID string, limit, offset int) ([]entity.CommandLog, int, error)
	}

	Commit   func() error
	Rollback func() error
}

type bookingRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type commandRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
