package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/modules/programs/infrastructure/persistence/models"
	"github.com/iota-uz/atlas/pkg/composables"
)

const (
	venueFindQuery = `
		SELECT id, tenant_id, name, address, area_id, created_at
		FROM program_venues`

	venueInsertQuery = `
		INSERT INTO program_venues (tenant_id, name, address, area_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
)

type VenueRepository struct{}

func NewVenueRepository() venue.Repository {
	return &VenueRepository{}
}

func (r *VenueRepository) GetPaginated(ctx context.Context, params *venue.FindParams) ([]venue.Venue, int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := " WHERE tenant_id = $1"
	args := []interface{}{tenantID.String()}
	if params.Search != "" {
		args = append(args, params.Search)
		where += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", len(args))
	}
	if params.AreaIDs != nil {
		args = append(args, idStrings(params.AreaIDs))
		where += fmt.Sprintf(" AND area_id = ANY($%d)", len(args))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM program_venues"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count venues")
	}

	query := venueFindQuery + where + " ORDER BY name, id"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	venues, err := r.queryVenues(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return venues, total, nil
}

func (r *VenueRepository) GetByID(ctx context.Context, id uuid.UUID) (venue.Venue, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return venue.Venue{}, err
	}
	venues, err := r.queryVenues(ctx, venueFindQuery+" WHERE id = $1 AND tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return venue.Venue{}, err
	}
	if len(venues) == 0 {
		return venue.Venue{}, venue.ErrNotFound
	}
	return venues[0], nil
}

func (r *VenueRepository) Create(ctx context.Context, v venue.Venue) (venue.Venue, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return venue.Venue{}, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		venueInsertQuery,
		v.TenantID().String(),
		v.Name(),
		v.Address(),
		v.AreaID().String(),
	).Scan(&idStr); err != nil {
		return venue.Venue{}, errors.Wrap(err, "failed to insert venue")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return venue.Venue{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *VenueRepository) queryVenues(ctx context.Context, query string, args ...interface{}) ([]venue.Venue, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var venues []venue.Venue
	for rows.Next() {
		var m models.Venue
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.Address, &m.AreaID, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan venue row")
		}
		entity, err := toDomainVenue(&m)
		if err != nil {
			return nil, err
		}
		venues = append(venues, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return venues, nil
}
