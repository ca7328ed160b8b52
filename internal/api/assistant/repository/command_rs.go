package assistantRepository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"LundyVoice/internal/entity"
	contextPkg "LundyVoice/pkg/context"
)

func (r *commandRepository) CreateCommandLog(ctx context.Context, cmd entity.CommandLog) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateCommandLog, cmd)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCommandLog")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": cmd.SessionID,
			"error":      err.Error(),
		}).Error("Database error when creating command log")
		return err
	}

	return nil
}

func (r *commandRepository) GetCommandLogsBySession(ctx context.Context, sessionID string, limit, offset int) ([]entity.CommandLog, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	countQuery, countArgs, err := sqlx.Named(queryCountCommandLogsBySession, map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.q.GetContext(ctx, &total, r.q.Rebind(countQuery), countArgs...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when counting command logs")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryGetCommandLogsBySession, map[string]interface{}{
		"session_id": sessionID,
		"limit":      limit,
		"offset":     offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandLogsBySession named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	logs := []entity.CommandLog{}
	if err := r.q.SelectContext(ctx, &logs, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching command logs")
		return nil, 0, err
	}

	return logs, total, nil
}
