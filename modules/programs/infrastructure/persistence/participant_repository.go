package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/programs/domain/entities/participant"
	"github.com/iota-uz/atlas/modules/programs/infrastructure/persistence/models"
	"github.com/iota-uz/atlas/pkg/composables"
)

const (
	participantFindQuery = `
		SELECT id, tenant_id, full_name, email, area_id, created_at
		FROM program_participants`

	participantInsertQuery = `
		INSERT INTO program_participants (tenant_id, full_name, email, area_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
)

type ParticipantRepository struct{}

func NewParticipantRepository() participant.Repository {
	return &ParticipantRepository{}
}

func (r *ParticipantRepository) GetPaginated(ctx context.Context, params *participant.FindParams) ([]participant.Participant, int64, error) {
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
		where += fmt.Sprintf(" AND full_name ILIKE '%%' || $%d || '%%'", len(args))
	}
	if params.AreaIDs != nil {
		args = append(args, idStrings(params.AreaIDs))
		where += fmt.Sprintf(" AND area_id = ANY($%d)", len(args))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM program_participants"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count participants")
	}

	query := participantFindQuery + where + " ORDER BY full_name, id"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	participants, err := r.queryParticipants(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return participants, total, nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id uuid.UUID) (participant.Participant, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return participant.Participant{}, err
	}
	participants, err := r.queryParticipants(ctx, participantFindQuery+" WHERE id = $1 AND tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return participant.Participant{}, err
	}
	if len(participants) == 0 {
		return participant.Participant{}, participant.ErrNotFound
	}
	return participants[0], nil
}

func (r *ParticipantRepository) Create(ctx context.Context, p participant.Participant) (participant.Participant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return participant.Participant{}, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		participantInsertQuery,
		p.TenantID().String(),
		p.FullName(),
		nullableString(p.Email()),
		p.AreaID().String(),
	).Scan(&idStr); err != nil {
		return participant.Participant{}, errors.Wrap(err, "failed to insert participant")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return participant.Participant{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *ParticipantRepository) queryParticipants(ctx context.Context, query string, args ...interface{}) ([]participant.Participant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var participants []participant.Participant
	for rows.Next() {
		var m models.Participant
		if err := rows.Scan(&m.ID, &m.TenantID, &m.FullName, &m.Email, &m.AreaID, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan participant row")
		}
		entity, err := toDomainParticipant(&m)
		if err != nil {
			return nil, err
		}
		participants = append(participants, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return participants, nil
}
