package ticket

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type TicketTierRepository interface {
	Save(ctx context.Context, t TicketTier, tx *sql.Tx) error
	FindByID(ctx context.Context, ID string, tx *sql.Tx) (TicketTier, error)
	// UpdateAllocation shrinks or grows capacity but never below what has
	// already been consumed; zero affected rows means the guard rejected it.
	UpdateAllocation(ctx context.Context, ID string, allocation int64, tx *sql.Tx) (int64, error)
	Deactivate(ctx context.Context, ID string, tx *sql.Tx) error
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type ticketTierRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewTicketTierRepository(logger *logrus.Logger, db *sql.DB) TicketTierRepository {
	return &ticketTierRepository{
		logger: logger,
		db:     db,
	}
}

// Save implements TicketTierRepository.
func (r *ticketTierRepository) Save(ctx context.Context, t TicketTier, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO ticket_tier
		(
			id, event_id, name, price, allocation, consumed, active, last_stock_update
		)
		VALUES
		(
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket tier's properties")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, t.ID, t.EventID, t.Name, t.Price, t.Allocation, t.Consumed, t.Active, t.LastStockUpdate)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket tier's properties")
	}

	return nil
}

// FindByID implements TicketTierRepository.
func (r *ticketTierRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (TicketTier, error) {
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

// UpdateAllocation implements TicketTierRepository.
func (r *ticketTierRepository) UpdateAllocation(ctx context.Context, ID string, allocation int64, tx *sql.Tx) (int64, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket_tier
		SET
			allocation = $1
		WHERE
			id = $2
		AND
			consumed <= $1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket tier's allocation")
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, allocation, ID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket tier's allocation")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating ticket tier's allocation")
	}

	return affected, nil
}

// Deactivate implements TicketTierRepository.
func (r *ticketTierRepository) Deactivate(ctx context.Context, ID string, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket_tier
		SET
			active = false
		WHERE
			id = $1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while deactivating ticket tier")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, ID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while deactivating ticket tier")
	}

	return nil
}
