package assistantRepository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"LundyVoice/internal/api/assistant"
	"LundyVoice/internal/entity"
	contextPkg "LundyVoice/pkg/context"
)

func (r *bookingRepository) CreateBooking(ctx context.Context, booking entity.DemoBooking) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateBooking, booking)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateBooking")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"booking_id": booking.ID,
			"error":      err.Error(),
		}).Error("Database error when creating demo booking")
		return err
	}

	return nil
}

func (r *bookingRepository) GetLatestBookingBySession(ctx context.Context, sessionID string) (entity.DemoBooking, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var booking entity.DemoBooking

	query, args, err := sqlx.Named(queryGetLatestBookingBySession, map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestBookingBySession named query preparation err")
		return entity.DemoBooking{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&booking); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
			}).Debug("GetLatestBookingBySession no rows found")
			return entity.DemoBooking{}, assistant.ErrBookingNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching latest booking")
		return entity.DemoBooking{}, err
	}

	return booking, nil
}

func (r *bookingRepository) ListBookings(ctx context.Context, limit, offset int) ([]entity.DemoBooking, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var total int
	if err := r.q.GetContext(ctx, &total, r.q.Rebind(queryCountBookings)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when counting demo bookings")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryListBookings, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	bookings := []entity.DemoBooking{}
	if err := r.q.SelectContext(ctx, &bookings, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing demo bookings")
		return nil, 0, err
	}

	return bookings, total, nil
}
