package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
	"github.com/iota-uz/atlas/modules/geo/infrastructure/persistence/models"
	"github.com/iota-uz/atlas/pkg/composables"
)

const uniqueViolationCode = "23505"

const (
	ruleFindQuery = `
		SELECT id, tenant_id, user_id, geographic_area_id, rule_type, created_at
		FROM geo_authorization_rules`

	ruleInsertQuery = `
		INSERT INTO geo_authorization_rules (tenant_id, user_id, geographic_area_id, rule_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
)

type RuleRepository struct{}

func NewRuleRepository() arearule.Repository {
	return &RuleRepository{}
}

func (r *RuleRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]arearule.Rule, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryRules(
		ctx,
		ruleFindQuery+" WHERE tenant_id = $1 AND user_id = $2 ORDER BY created_at, id",
		tenantID.String(),
		userID.String(),
	)
}

func (r *RuleRepository) Create(ctx context.Context, rule arearule.Rule) (arearule.Rule, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return arearule.Rule{}, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		ruleInsertQuery,
		rule.TenantID().String(),
		rule.UserID().String(),
		rule.AreaID().String(),
		string(rule.Type()),
	).Scan(&idStr); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return arearule.Rule{}, arearule.ErrDuplicate
		}
		return arearule.Rule{}, errors.Wrap(err, "failed to insert rule")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return arearule.Rule{}, err
	}
	return r.getByID(ctx, id)
}

func (r *RuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(
		ctx,
		`DELETE FROM geo_authorization_rules WHERE id = $1 AND tenant_id = $2`,
		id.String(),
		tenantID.String(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete rule")
	}
	if tag.RowsAffected() == 0 {
		return arearule.ErrNotFound
	}
	return nil
}

func (r *RuleRepository) getByID(ctx context.Context, id uuid.UUID) (arearule.Rule, error) {
	rules, err := r.queryRules(ctx, ruleFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return arearule.Rule{}, err
	}
	if len(rules) == 0 {
		return arearule.Rule{}, arearule.ErrNotFound
	}
	return rules[0], nil
}

func (r *RuleRepository) queryRules(ctx context.Context, query string, args ...interface{}) ([]arearule.Rule, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var rules []arearule.Rule
	for rows.Next() {
		var m models.AuthorizationRule
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.UserID,
			&m.GeographicAreaID,
			&m.RuleType,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan rule row")
		}
		entity, err := toDomainRule(&m)
		if err != nil {
			return nil, err
		}
		rules = append(rules, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return rules, nil
}
