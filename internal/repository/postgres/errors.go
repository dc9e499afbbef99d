package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"

	"locadora-erp-backend/internal/domain"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// mapError translates driver errors into typed domain errors. It is the only
// place that knows about SQLSTATE codes.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.WrapError(domain.KindStorageTimeout, op, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return domain.WrapError(domain.KindStorageUnavailable, op, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case code == pgerrcode.SerializationFailure, code == pgerrcode.DeadlockDetected:
			return domain.WrapError(domain.KindStorageUnavailable, op+": concurrent update", err)
		case code == pgerrcode.QueryCanceled, code == pgerrcode.LockNotAvailable:
			return domain.WrapError(domain.KindStorageTimeout, op, err)
		case pgerrcode.IsConnectionException(code), code == pgerrcode.AdminShutdown,
			code == pgerrcode.CannotConnectNow, code == pgerrcode.TooManyConnections:
			return domain.WrapError(domain.KindStorageUnavailable, op, err)
		case code == pgerrcode.ForeignKeyViolation:
			return domain.WrapError(domain.KindInvalidInput, op+": referenced record does not exist", err)
		case code == pgerrcode.CheckViolation, code == pgerrcode.NotNullViolation:
			return domain.WrapError(domain.KindInvalidInput, op+": constraint violated", err)
		case code == pgerrcode.UniqueViolation:
			return domain.WrapError(domain.KindInvalidInput, op+": duplicate record", err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notFoundOr maps sql.ErrNoRows to a NotFound error for entity/id and any
// other error through mapError.
func notFoundOr(op, entity, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(entity, id)
	}
	return mapError(op, err)
}

func fmtID(id int64) string {
	return strconv.FormatInt(id, 10)
}
