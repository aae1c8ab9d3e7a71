package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/programs/domain/aggregates/activity"
	"github.com/iota-uz/atlas/modules/programs/infrastructure/persistence/models"
	"github.com/iota-uz/atlas/pkg/composables"
)

const (
	activityFindQuery = `
		SELECT id, tenant_id, title, venue_id, area_id, starts_at, created_at, updated_at
		FROM program_activities`

	activityInsertQuery = `
		INSERT INTO program_activities (tenant_id, title, venue_id, area_id, starts_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
)

type ActivityRepository struct{}

func NewActivityRepository() activity.Repository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) GetPaginated(ctx context.Context, params *activity.FindParams) ([]activity.Activity, int64, error) {
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
		where += fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%'", len(args))
	}
	if params.AreaIDs != nil {
		args = append(args, idStrings(params.AreaIDs))
		where += fmt.Sprintf(" AND area_id = ANY($%d)", len(args))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM program_activities"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count activities")
	}

	query := activityFindQuery + where + " ORDER BY starts_at DESC, id"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	activities, err := r.queryActivities(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (activity.Activity, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return activity.Activity{}, err
	}
	activities, err := r.queryActivities(ctx, activityFindQuery+" WHERE id = $1 AND tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return activity.Activity{}, err
	}
	if len(activities) == 0 {
		return activity.Activity{}, activity.ErrNotFound
	}
	return activities[0], nil
}

func (r *ActivityRepository) Create(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return activity.Activity{}, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		activityInsertQuery,
		a.TenantID().String(),
		a.Title(),
		nullableID(a.VenueID()),
		a.AreaID().String(),
		a.StartsAt(),
	).Scan(&idStr); err != nil {
		return activity.Activity{}, errors.Wrap(err, "failed to insert activity")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return activity.Activity{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *ActivityRepository) queryActivities(ctx context.Context, query string, args ...interface{}) ([]activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		var m models.Activity
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Title,
			&m.VenueID,
			&m.AreaID,
			&m.StartsAt,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan activity row")
		}
		entity, err := toDomainActivity(&m)
		if err != nil {
			return nil, err
		}
		activities = append(activities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return activities, nil
}
