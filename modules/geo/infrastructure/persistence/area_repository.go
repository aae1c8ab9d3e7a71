package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/infrastructure/persistence/models"
	"github.com/iota-uz/atlas/pkg/composables"
)

const (
	areaFindQuery = `
		SELECT id, tenant_id, name, kind, parent_id, version, created_at, updated_at
		FROM geographic_areas`

	areaCountQuery = `SELECT COUNT(*) FROM geographic_areas WHERE tenant_id = $1`

	areaInsertQuery = `
		INSERT INTO geographic_areas (tenant_id, name, kind, parent_id, version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	areaUpdateQuery = `
		UPDATE geographic_areas
		SET name = $1, parent_id = $2, version = $3, updated_at = now()
		WHERE id = $4 AND tenant_id = $5 AND version = $6
		RETURNING id`

	// areaSubtreeQuery reports whether candidate ($2) lies inside the
	// subtree rooted at node ($1). Used as the authoritative cycle
	// constraint on re-parenting.
	areaSubtreeQuery = `
		WITH RECURSIVE subtree AS (
			SELECT id FROM geographic_areas WHERE id = $1 AND tenant_id = $3
			UNION ALL
			SELECT g.id
			FROM geographic_areas g
			JOIN subtree s ON g.parent_id = s.id
			WHERE g.tenant_id = $3
		)
		SELECT EXISTS (SELECT 1 FROM subtree WHERE id = $2)`
)

type AreaRepository struct{}

func NewAreaRepository() area.Repository {
	return &AreaRepository{}
}

func (r *AreaRepository) GetAll(ctx context.Context) ([]area.Area, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryAreas(ctx, areaFindQuery+" WHERE tenant_id = $1 ORDER BY name, id", tenantID.String())
}

func (r *AreaRepository) GetPaginated(ctx context.Context, params *area.FindParams) ([]area.Area, int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := " WHERE tenant_id = $1"
	countQuery := areaCountQuery
	args := []interface{}{tenantID.String()}
	if params.Search != "" {
		where += " AND name ILIKE '%' || $2 || '%'"
		countQuery += " AND name ILIKE '%' || $2 || '%'"
		args = append(args, params.Search)
	}

	var total int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count areas")
	}

	query := areaFindQuery + where + " ORDER BY name, id"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	areas, err := r.queryAreas(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return areas, total, nil
}

func (r *AreaRepository) GetByID(ctx context.Context, id uuid.UUID) (area.Area, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return area.Area{}, err
	}
	areas, err := r.queryAreas(ctx, areaFindQuery+" WHERE id = $1 AND tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return area.Area{}, err
	}
	if len(areas) == 0 {
		return area.Area{}, area.ErrNotFound
	}
	return areas[0], nil
}

func (r *AreaRepository) Create(ctx context.Context, a area.Area) (area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return area.Area{}, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		areaInsertQuery,
		a.TenantID().String(),
		a.Name(),
		string(a.Kind()),
		nullableID(a.ParentID()),
		a.Version(),
	).Scan(&idStr); err != nil {
		return area.Area{}, errors.Wrap(err, "failed to insert area")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return area.Area{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *AreaRepository) Update(ctx context.Context, a area.Area) (area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return area.Area{}, err
	}

	if a.ParentID() != uuid.Nil {
		var inSubtree bool
		if err := tx.QueryRow(
			ctx,
			areaSubtreeQuery,
			a.ID().String(),
			a.ParentID().String(),
			a.TenantID().String(),
		).Scan(&inSubtree); err != nil {
			return area.Area{}, errors.Wrap(err, "failed to run cycle check")
		}
		if inSubtree {
			return area.Area{}, area.ErrCycleRejected
		}
	}

	var idStr string
	err = tx.QueryRow(
		ctx,
		areaUpdateQuery,
		a.Name(),
		nullableID(a.ParentID()),
		a.Version(),
		a.ID().String(),
		a.TenantID().String(),
		a.Version()-1,
	).Scan(&idStr)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return area.Area{}, errors.Wrap(err, "failed to update area")
		}
		// Zero rows means either the area is gone or a concurrent write
		// bumped the version first; disambiguate with a read.
		if _, getErr := r.GetByID(ctx, a.ID()); getErr != nil {
			return area.Area{}, getErr
		}
		return area.Area{}, area.ErrVersionConflict
	}

	return r.GetByID(ctx, a.ID())
}

func (r *AreaRepository) queryAreas(ctx context.Context, query string, args ...interface{}) ([]area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var areas []area.Area
	for rows.Next() {
		var m models.GeographicArea
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Name,
			&m.Kind,
			&m.ParentID,
			&m.Version,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan area row")
		}
		entity, err := toDomainArea(&m)
		if err != nil {
			return nil, err
		}
		areas = append(areas, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return areas, nil
}
