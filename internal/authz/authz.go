// Package authz holds the declarative authorization policy table.
//
// Each route action maps to a required role and an optional ownership
// expression. The engine answers one question, CanAccess(identity,
// resource, action), and denies by default: an unknown action, a missing
// identity, or a missing user record never grant access.
package authz

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mdshamim125/contest-hub-server/internal/core"
)

type Action string

const (
	ActionUserList       Action = "user.list"
	ActionUserUpdate     Action = "user.update"
	ActionUserDelete     Action = "user.delete"
	ActionContestCreate  Action = "contest.create"
	ActionContestListOwn Action = "contest.list_own"
	ActionContestUpdate  Action = "contest.update"
	ActionContestDelete  Action = "contest.delete"
	ActionContestConfirm Action = "contest.confirm"
)

var ErrDenied = errors.New("access denied")

// Resource describes the record an action targets, for ownership checks.
// For role-only actions a zero Resource is passed.
type Resource struct {
	// CreatorEmail is the owning creator of the targeted contest.
	CreatorEmail string
}

// Rule binds an action to a required role and an optional ownership
// expression evaluated against {identity, resource}.
type Rule struct {
	// Action is the route action this rule guards.
	Action Action `yaml:"action"`

	// Role is the stored role the identity must hold. An empty role
	// means any authenticated identity passes the role check.
	Role core.Role `yaml:"role"`

	// OwnerExpr is an optional boolean expression, e.g.
	// `resource.CreatorEmail == identity.Email`.
	OwnerExpr string `yaml:"owner_expr"`

	compiled *vm.Program
}

func (r *Rule) Validate() error {
	if r.Action == "" {
		return fmt.Errorf("rule has empty action")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("rule %q has invalid role %q", r.Action, r.Role)
	}
	return nil
}

type exprEnv struct {
	Identity *core.User `expr:"identity"`
	Resource Resource   `expr:"resource"`
}

// Engine evaluates the policy table.
type Engine struct {
	rules map[Action]*Rule
}

// New compiles the ownership expressions and indexes the rules by action.
// A duplicate action is a configuration error.
func New(rules []Rule) (*Engine, error) {
	indexed := make(map[Action]*Rule, len(rules))
	for i := range rules {
		rule := rules[i]
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if _, ok := indexed[rule.Action]; ok {
			return nil, fmt.Errorf("duplicate rule for action %q", rule.Action)
		}
		if rule.OwnerExpr != "" {
			prog, err := expr.Compile(rule.OwnerExpr,
				expr.Env(exprEnv{}),
				expr.AsBool(),
			)
			if err != nil {
				return nil, fmt.Errorf("compiling owner expression for %q: %w", rule.Action, err)
			}
			rule.compiled = prog
		}
		indexed[rule.Action] = &rule
	}
	return &Engine{rules: indexed}, nil
}

// DefaultRules is the built-in policy table. A config file may replace it.
func DefaultRules() []Rule {
	ownContest := `resource.CreatorEmail == identity.Email`
	return []Rule{
		{Action: ActionUserList, Role: core.RoleAdmin},
		{Action: ActionUserUpdate, Role: core.RoleAdmin},
		{Action: ActionUserDelete, Role: core.RoleAdmin},
		{Action: ActionContestCreate, Role: core.RoleCreator},
		{Action: ActionContestListOwn, Role: core.RoleCreator, OwnerExpr: ownContest},
		{Action: ActionContestUpdate, Role: core.RoleCreator, OwnerExpr: ownContest},
		{Action: ActionContestDelete, Role: core.RoleCreator, OwnerExpr: ownContest},
		{Action: ActionContestConfirm, Role: core.RoleAdmin},
	}
}

// CanAccess reports whether the identity may perform the action on the
// resource. A nil identity (no stored user record) always denies.
func (e *Engine) CanAccess(identity *core.User, resource Resource, action Action) error {
	if identity == nil {
		return fmt.Errorf("%w: no identity", ErrDenied)
	}

	rule, ok := e.rules[action]
	if !ok {
		return fmt.Errorf("%w: no rule for action %q", ErrDenied, action)
	}

	if rule.Role != core.RoleNone && identity.Role != rule.Role {
		return fmt.Errorf("%w: role %q required", ErrDenied, rule.Role)
	}

	if rule.compiled != nil {
		out, err := expr.Run(rule.compiled, exprEnv{Identity: identity, Resource: resource})
		if err != nil {
			return fmt.Errorf("%w: owner expression error: %v", ErrDenied, err)
		}
		if ok, _ := out.(bool); !ok {
			return fmt.Errorf("%w: not the owner", ErrDenied)
		}
	}

	return nil
}

// RoleOnly reports whether the action's rule carries no ownership
// expression, i.e. it can be fully decided by the middleware gate.
func (e *Engine) RoleOnly(action Action) bool {
	rule, ok := e.rules[action]
	return ok && rule.compiled == nil
}
