package repository

import (
	"context"
	"time"
)

// Well-known keys in the key-value store.
const (
	KeyRules      = "fraudDetectionRules"
	KeyAuthStatus = "authStatus"
)

// Store is an opaque string key-value store. Get reports ok=false for a
// missing key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// RuleEvent records one change to the rule collection.
type RuleEvent struct {
	ID       int64
	RuleID   string
	RuleName string
	Action   string
	At       time.Time
}

// Rule event actions.
const (
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
	ActionDuplicated = "duplicated"
)
