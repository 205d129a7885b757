package repository

import (
	"context"
	"database/sql"
)

// RuleEventRepo handles the rule change log.
type RuleEventRepo struct {
	db *sql.DB
}

func NewRuleEventRepo(db *sql.DB) *RuleEventRepo { return &RuleEventRepo{db: db} }

func (r *RuleEventRepo) Insert(ctx context.Context, e RuleEvent) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO rule_events(rule_id, rule_name, action, at) VALUES (?, ?, ?, ?);
	`, e.RuleID, e.RuleName, e.Action, e.At)
	return err
}

// List returns events newest first. An empty ruleID lists every rule; limit
// <= 0 means no limit.
func (r *RuleEventRepo) List(ctx context.Context, ruleID string, limit int) ([]RuleEvent, error) {
	q := `SELECT id, rule_id, rule_name, action, at FROM rule_events`
	var args []interface{}
	if ruleID != "" {
		q += ` WHERE rule_id = ?`
		args = append(args, ruleID)
	}
	q += ` ORDER BY at DESC, id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RuleEvent
	for rows.Next() {
		var e RuleEvent
		if err := rows.Scan(&e.ID, &e.RuleID, &e.RuleName, &e.Action, &e.At); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
