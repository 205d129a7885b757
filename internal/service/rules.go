package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/fraudscope/internal/database/repository"
	"github.com/jask/fraudscope/internal/errs"
	"github.com/jask/fraudscope/internal/logging"
	"github.com/jask/fraudscope/internal/rules"
)

// ErrRuleNotFound is returned when no rule has the requested id.
var ErrRuleNotFound = errors.New("rule not found")

// EventLog records rule changes. RuleEventRepo implements it.
type EventLog interface {
	Insert(ctx context.Context, e repository.RuleEvent) error
	List(ctx context.Context, ruleID string, limit int) ([]repository.RuleEvent, error)
}

// RuleService persists the rule collection as one document in the
// key-value store. Every write replaces the whole collection.
type RuleService struct {
	Store  repository.Store
	Events EventLog // optional
	Log    *zap.SugaredLogger
	Now    func() time.Time
	NewID  func() string
}

func (s *RuleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *RuleService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *RuleService) log() *zap.SugaredLogger { return logging.OrNop(s.Log) }

// LoadRules returns the stored rules. It never fails: read or decode
// problems are logged and yield an empty list.
func (s *RuleService) LoadRules(ctx context.Context) []rules.Rule {
	rs, err := s.load(ctx)
	if err != nil {
		s.log().Errorw("loading rules", "error", err)
		return []rules.Rule{}
	}
	return rs
}

func (s *RuleService) load(ctx context.Context) ([]rules.Rule, error) {
	raw, ok, err := s.Store.Get(ctx, repository.KeyRules)
	if err != nil {
		return nil, errs.Storage("read rules", err)
	}
	if !ok || raw == "" {
		return []rules.Rule{}, nil
	}
	rs, err := rules.DecodeCollection([]byte(raw))
	if err != nil {
		return nil, errs.Storage("decode rules", err)
	}
	return rs, nil
}

// SaveRules replaces the stored collection.
func (s *RuleService) SaveRules(ctx context.Context, rs []rules.Rule) error {
	data, err := rules.EncodeCollection(rs)
	if err != nil {
		return errs.Storage("encode rules", err)
	}
	if err := s.Store.Put(ctx, repository.KeyRules, string(data)); err != nil {
		return errs.Storage("write rules", err)
	}
	return nil
}

// Get returns the rule with the given id.
func (s *RuleService) Get(ctx context.Context, id string) (rules.Rule, error) {
	rs, err := s.load(ctx)
	if err != nil {
		return rules.Rule{}, err
	}
	i := indexOf(rs, id)
	if i < 0 {
		return rules.Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	return rs[i], nil
}

// Create stores r under a fresh id with both timestamps set to now.
func (s *RuleService) Create(ctx context.Context, r rules.Rule) (rules.Rule, error) {
	return s.insert(ctx, r, repository.ActionCreated)
}

func (s *RuleService) insert(ctx context.Context, r rules.Rule, action string) (rules.Rule, error) {
	rs, err := s.load(ctx)
	if err != nil {
		return rules.Rule{}, err
	}
	now := s.now()
	r = r.Clone()
	r.ID = s.newID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := s.SaveRules(ctx, append(rs, r)); err != nil {
		return rules.Rule{}, err
	}
	s.record(ctx, r, action)
	return r, nil
}

// Update replaces the rule with the given id, keeping its id and creation
// time and refreshing its update time.
func (s *RuleService) Update(ctx context.Context, id string, r rules.Rule) (rules.Rule, error) {
	rs, err := s.load(ctx)
	if err != nil {
		return rules.Rule{}, err
	}
	i := indexOf(rs, id)
	if i < 0 {
		return rules.Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	r = r.Clone()
	r.ID = id
	r.CreatedAt = rs[i].CreatedAt
	r.UpdatedAt = s.now()
	rs[i] = r
	if err := s.SaveRules(ctx, rs); err != nil {
		return rules.Rule{}, err
	}
	s.record(ctx, r, repository.ActionUpdated)
	return r, nil
}

// Delete removes the rule with the given id.
func (s *RuleService) Delete(ctx context.Context, id string) error {
	rs, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(rs, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	gone := rs[i]
	if err := s.SaveRules(ctx, append(rs[:i:i], rs[i+1:]...)); err != nil {
		return err
	}
	s.record(ctx, gone, repository.ActionDeleted)
	return nil
}

// Duplicate stores a copy of the rule with a new id, fresh timestamps and
// " (Copy)" appended to its name.
func (s *RuleService) Duplicate(ctx context.Context, id string) (rules.Rule, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return rules.Rule{}, err
	}
	cp := src.Clone()
	cp.Name = src.Name + " (Copy)"
	return s.insert(ctx, cp, repository.ActionDuplicated)
}

// SetActive flips a rule on or off.
func (s *RuleService) SetActive(ctx context.Context, id string, active bool) (rules.Rule, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return rules.Rule{}, err
	}
	r.Active = active
	return s.Update(ctx, id, r)
}

// Save validates the editor's draft and, when valid, creates or updates the
// rule. An invalid draft is not an error: the result carries the messages
// and nothing is written.
func (s *RuleService) Save(ctx context.Context, e *rules.Editor, columns []string) (rules.Rule, rules.Result, error) {
	res := e.Validate(columns)
	if !res.Valid() {
		return rules.Rule{}, res, nil
	}
	var (
		out rules.Rule
		err error
	)
	if e.Editing() {
		out, err = s.Update(ctx, e.ID(), e.Draft())
	} else {
		out, err = s.Create(ctx, e.Draft())
	}
	return out, res, err
}

// History lists change events, newest first. It is empty without an
// event log.
func (s *RuleService) History(ctx context.Context, id string, limit int) ([]repository.RuleEvent, error) {
	if s.Events == nil {
		return nil, nil
	}
	return s.Events.List(ctx, id, limit)
}

func (s *RuleService) record(ctx context.Context, r rules.Rule, action string) {
	if s.Events == nil {
		return
	}
	e := repository.RuleEvent{RuleID: r.ID, RuleName: r.Name, Action: action, At: s.now()}
	if err := s.Events.Insert(ctx, e); err != nil {
		s.log().Warnw("recording rule event", "rule", r.ID, "action", action, "error", err)
	}
}

func indexOf(rs []rules.Rule, id string) int {
	for i, r := range rs {
		if r.ID == id {
			return i
		}
	}
	return -1
}
