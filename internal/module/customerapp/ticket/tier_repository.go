package ticket

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type TierRepository interface {
	FindByID(ctx context.Context, ID string, tx *sql.Tx) (TicketTier, error)
	// ConsumeStock conditionally increments the tier's consumed counter and
	// reports how many rows were affected. Zero means the capacity guard or
	// the active flag rejected the update.
	ConsumeStock(ctx context.Context, ID string, quantity int64, tx *sql.Tx) (int64, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type tierRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewTierRepository(logger *logrus.Logger, db *sql.DB) TierRepository {
	return &tierRepository{
		logger: logger,
		db:     db,
	}
}

// FindByID implements TierRepository.
func (r *tierRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (TicketTier, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			id, event_id, name, price, allocation, consumed, active, last_stock_update
		FROM ticket_tier
		WHERE
			id = $1
		LIMIT 1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return TicketTier{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket tier's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ID)

	var data TicketTier

	err = row.Scan(&data.ID, &data.EventID, &data.Name, &data.Price, &data.Allocation, &data.Consumed, &data.Active, &data.LastStockUpdate)
	if err != nil {
		if err == sql.ErrNoRows {
			return TicketTier{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("ticket tier with id '%s' is not found", ID))
		}
		r.logger.WithContext(ctx).WithError(err).Error()
		return TicketTier{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket tier's properties")
	}

	return data, nil
}

// ConsumeStock implements TierRepository. The capacity guard lives in the
// statement itself so two concurrent buyers can never both take the last
// unit, whichever process they run in.
func (r *tierRepository) ConsumeStock(ctx context.Context, ID string, quantity int64, tx *sql.Tx) (int64, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket_tier
		SET
			consumed = consumed + $1,
			last_stock_update = $2
		WHERE
			id = $3
		AND
			active = true
		AND
			consumed + $1 <= allocation
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while consuming ticket tier's stock")
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, quantity, time.Now(), ID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while consuming ticket tier's stock")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while consuming ticket tier's stock")
	}

	return affected, nil
}
