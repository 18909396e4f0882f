package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coachkit/rulekeeper/internal/types"
)

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// StoredRule is a rule with its ownership and audit metadata.
type StoredRule struct {
	types.Rule
	CoachID   types.CoachID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ruleRow mirrors the rules table.
type ruleRow struct {
	RuleID        string `db:"rule_id"`
	CoachID       string `db:"coach_id"`
	Name          string `db:"name"`
	Category      string `db:"category"`
	IsActive      bool   `db:"is_active"`
	Scope         string `db:"scope"`
	Criteria      string `db:"criteria"`
	Adjustments   string `db:"adjustments"`
	AffectedItems string `db:"affected_items"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
}

// RuleStore persists coach rules. Every method is scoped to one coach: a rule
// id owned by another coach behaves as missing.
type RuleStore struct {
	queries *Queries
	now     func() time.Time
}

// NewRuleStore loads the named queries for db.
func NewRuleStore(db *sqlx.DB) (*RuleStore, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &RuleStore{queries: queries, now: time.Now}, nil
}

// Create inserts a rule, assigning a UUIDv7 id when the rule has none.
func (s *RuleStore) Create(ctx context.Context, coach types.CoachID, rule types.Rule) (*StoredRule, error) {
	if rule.ID == "" {
		rule.ID = types.NewRuleID()
	}
	now := s.now().UTC()

	row, err := toRow(coach, rule, now, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.queries.ExecContext(ctx, "insert-rule",
		row.RuleID, row.CoachID, row.Name, row.Category, row.IsActive,
		row.Scope, row.Criteria, row.Adjustments, row.AffectedItems,
		row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("%w: insert rule %s: %w", types.ErrStorage, rule.ID, err)
	}

	return &StoredRule{Rule: rule, CoachID: coach, CreatedAt: now, UpdatedAt: now}, nil
}

// Update replaces every field but the id and creation time.
func (s *RuleStore) Update(ctx context.Context, coach types.CoachID, rule types.Rule) (*StoredRule, error) {
	now := s.now().UTC()
	row, err := toRow(coach, rule, now, now)
	if err != nil {
		return nil, err
	}

	res, err := s.queries.ExecContext(ctx, "update-rule",
		row.Name, row.Category, row.IsActive,
		row.Scope, row.Criteria, row.Adjustments, row.AffectedItems,
		row.UpdatedAt, row.CoachID, row.RuleID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: update rule %s: %w", types.ErrStorage, rule.ID, err)
	}
	if err := requireAffected(res, rule.ID); err != nil {
		return nil, err
	}

	return s.Get(ctx, coach, rule.ID)
}

// Get returns one rule or ErrRuleNotFound.
func (s *RuleStore) Get(ctx context.Context, coach types.CoachID, id types.RuleID) (*StoredRule, error) {
	var row ruleRow
	err := s.queries.GetContext(ctx, "get-rule", &row, string(coach), string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrRuleNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get rule %s: %w", types.ErrStorage, id, err)
	}
	return fromRow(row)
}

// List returns the coach's rules ordered by id (creation order).
// An empty category lists every category.
func (s *RuleStore) List(ctx context.Context, coach types.CoachID, category types.Category, includeInactive bool) ([]*StoredRule, error) {
	var (
		rows []ruleRow
		err  error
	)
	switch {
	case category == "":
		err = s.queries.SelectContext(ctx, "list-rules", &rows, string(coach))
	case includeInactive:
		err = s.queries.SelectContext(ctx, "list-rules-by-category", &rows, string(coach), string(category))
	default:
		err = s.queries.SelectContext(ctx, "list-active-rules", &rows, string(coach), string(category), true)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list rules for %s: %w", types.ErrStorage, coach, err)
	}

	out := make([]*StoredRule, 0, len(rows))
	for _, row := range rows {
		if !includeInactive && !row.IsActive {
			continue
		}
		r, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ListActive returns the coach's active rules of one category as engine input.
func (s *RuleStore) ListActive(ctx context.Context, coach types.CoachID, category types.Category) ([]types.Rule, error) {
	stored, err := s.List(ctx, coach, category, false)
	if err != nil {
		return nil, err
	}
	rules := make([]types.Rule, len(stored))
	for i, r := range stored {
		rules[i] = r.Rule
	}
	return rules, nil
}

// SetActive toggles a rule's active flag.
func (s *RuleStore) SetActive(ctx context.Context, coach types.CoachID, id types.RuleID, active bool) error {
	res, err := s.queries.ExecContext(ctx, "set-rule-active",
		active, s.now().UTC().Format(timestampLayout), string(coach), string(id))
	if err != nil {
		return fmt.Errorf("%w: set rule %s active: %w", types.ErrStorage, id, err)
	}
	return requireAffected(res, id)
}

// Delete removes a rule permanently.
func (s *RuleStore) Delete(ctx context.Context, coach types.CoachID, id types.RuleID) error {
	res, err := s.queries.ExecContext(ctx, "delete-rule", string(coach), string(id))
	if err != nil {
		return fmt.Errorf("%w: delete rule %s: %w", types.ErrStorage, id, err)
	}
	return requireAffected(res, id)
}

// Count returns how many rules, active or not, the coach owns.
func (s *RuleStore) Count(ctx context.Context, coach types.CoachID) (int, error) {
	var n int
	if err := s.queries.GetContext(ctx, "count-rules", &n, string(coach)); err != nil {
		return 0, fmt.Errorf("%w: count rules for %s: %w", types.ErrStorage, coach, err)
	}
	return n, nil
}

func requireAffected(res sql.Result, id types.RuleID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", types.ErrStorage, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrRuleNotFound, id)
	}
	return nil
}

func toRow(coach types.CoachID, r types.Rule, created, updated time.Time) (ruleRow, error) {
	row := ruleRow{
		RuleID:    string(r.ID),
		CoachID:   string(coach),
		Name:      r.Name,
		Category:  string(r.Category),
		IsActive:  r.IsActive,
		CreatedAt: created.Format(timestampLayout),
		UpdatedAt: updated.Format(timestampLayout),
	}

	var err error
	if row.Scope, err = encodeColumn(r.Scope); err != nil {
		return row, err
	}
	if row.Criteria, err = encodeColumn(r.Criteria); err != nil {
		return row, err
	}
	adjustments := r.Adjustments
	if adjustments == nil {
		adjustments = types.Adjustments{}
	}
	if row.Adjustments, err = encodeColumn(adjustments); err != nil {
		return row, err
	}
	if row.AffectedItems, err = encodeColumn(r.AffectedItems); err != nil {
		return row, err
	}
	return row, nil
}

func fromRow(row ruleRow) (*StoredRule, error) {
	out := &StoredRule{
		Rule: types.Rule{
			ID:       types.RuleID(row.RuleID),
			Name:     row.Name,
			IsActive: row.IsActive,
			Category: types.Category(row.Category),
		},
		CoachID: types.CoachID(row.CoachID),
	}

	if err := decodeColumn(row.RuleID, "scope", row.Scope, &out.Scope); err != nil {
		return nil, err
	}
	if err := decodeColumn(row.RuleID, "criteria", row.Criteria, &out.Criteria); err != nil {
		return nil, err
	}
	if err := decodeColumn(row.RuleID, "adjustments", row.Adjustments, &out.Adjustments); err != nil {
		return nil, err
	}
	if err := decodeColumn(row.RuleID, "affected_items", row.AffectedItems, &out.AffectedItems); err != nil {
		return nil, err
	}

	var err error
	if out.CreatedAt, err = time.Parse(timestampLayout, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: rule %s created_at: %w", types.ErrStorage, row.RuleID, err)
	}
	if out.UpdatedAt, err = time.Parse(timestampLayout, row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: rule %s updated_at: %w", types.ErrStorage, row.RuleID, err)
	}
	return out, nil
}

func encodeColumn(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode rule column: %w", err)
	}
	return string(data), nil
}

func decodeColumn(id, column, data string, dest any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("%w: rule %s column %s: %w", types.ErrStorage, id, column, err)
	}
	return nil
}
