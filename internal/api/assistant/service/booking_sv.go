package assistantService

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"LundyVoice/internal/api/assistant"
	"LundyVoice/internal/entity"
	contextPkg "LundyVoice/pkg/context"
	"LundyVoice/pkg/booking"
	"LundyVoice/pkg/log"
)

func (s *assistantService) ConfirmBooking(ctx context.Context, req assistant.ConfirmBookingRequest) (*assistant.BookingResponse, error) {
	ctx = contextPkg.WithSessionID(ctx, req.SessionID)
	requestID := contextPkg.GetRequestID(ctx)

	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	sess, err := s.loadSession(ctx, req.SessionID, "")
	if err != nil {
		return nil, err
	}

	next, fields, resp, err := s.dispatcher.Confirm(sess, req.Fields())
	if errors.Is(err, booking.ErrNotInReview) {
		return nil, assistant.ErrNoBookingInReview
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate booking ID")
		return nil, err
	}

	demo := entity.DemoBooking{
		ID:        id,
		SessionID: sess.ID,
		Name:      fields.Name,
		Email:     fields.Email,
		Date:      fields.Date,
		Time:      fields.Time,
		CreatedAt: now,
	}

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	if err := repo.Bookings.CreateBooking(ctx, demo); err != nil {
		return nil, err
	}

	// the booking is only durable once the dialogue has been reset
	if err := s.sessions.SaveSession(ctx, next); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sess.ID,
			"error":      err.Error(),
		}).Error("Failed to save session")
		return nil, assistant.ErrSessionStore
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit booking")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sess.ID,
		"booking_id": demo.ID,
	}).Info("Demo booking confirmed")

	if s.mailer != nil && demo.Email != "" {
		go s.sendConfirmation(contextPkg.Detached(ctx), demo)
	}

	return &assistant.BookingResponse{
		Booking:  demo,
		Response: *toCommandResponse(next, "", "", resp),
	}, nil
}

func (s *assistantService) sendConfirmation(ctx context.Context, demo entity.DemoBooking) {
	if err := s.mailer.SendBookingConfirmation(demo); err != nil {
		log.WithContext(s.log, ctx).WithFields(logrus.Fields{
			"booking_id": demo.ID,
			"error":      err.Error(),
		}).Warn("Booking confirmation email not sent")
	}
}

func (s *assistantService) CancelBooking(ctx context.Context, req assistant.CancelBookingRequest) (*assistant.CommandResponse, error) {
	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	sess, err := s.loadSession(ctx, req.SessionID, "")
	if err != nil {
		return nil, err
	}

	next, resp := s.dispatcher.Cancel(sess)
	if err := s.sessions.SaveSession(ctx, next); err != nil {
		return nil, assistant.ErrSessionStore
	}

	return toCommandResponse(next, "", "", resp), nil
}

func (s *assistantService) GetLatestBooking(ctx context.Context, sessionID string) (*entity.DemoBooking, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	demo, err := repo.Bookings.GetLatestBookingBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &demo, nil
}

func (s *assistantService) ListBookings(ctx context.Context, page, limit int) (*assistant.BookingListResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	bookings, total, err := repo.Bookings.ListBookings(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &assistant.BookingListResponse{Bookings: bookings, Total: total, Page: page, Limit: limit}, nil
}
