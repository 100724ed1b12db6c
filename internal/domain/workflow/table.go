package workflow

import "fmt"

// RuleSet is the canonical transition table. It maps a
// (current status, actor role, action) tuple to the next status and is the
// single source of truth for what the authorization predicate may offer.
type RuleSet interface {
	// Next returns the target status for the tuple, or false when no rule matches
	Next(from Status, role Role, action Action) (Status, bool)

	// RolePermitted returns true if the role has at least one rule from the status
	RolePermitted(from Status, role Role) bool

	// PermittedActions returns all actions the role may take from the status
	PermittedActions(from Status, role Role) []Action
}

// Builder assembles a RuleSet declaratively, one status at a time
type Builder interface {
	// Configure returns the rule configuration for the given status
	Configure(status Status) StatusConfiguration

	// Build freezes the configured rules into an immutable RuleSet
	Build() RuleSet
}

// StatusConfiguration configures the rules leaving a specific status
type StatusConfiguration interface {
	// Permit allows the role to take the action, transitioning to the target status
	Permit(role Role, action Action, to Status) StatusConfiguration
}

type ruleKey struct {
	from   Status
	role   Role
	action Action
}

type statusConfig struct {
	builder *ruleSetBuilder
	from    Status
}

type ruleSetBuilder struct {
	rules      map[ruleKey]Status
	configured map[Status]*statusConfig
}

type ruleSet struct {
	rules map[ruleKey]Status
}

// NewBuilder creates a new rule set builder
func NewBuilder() Builder {
	return &ruleSetBuilder{
		rules:      make(map[ruleKey]Status),
		configured: make(map[Status]*statusConfig),
	}
}

// Configure returns the rule configuration for the given status
func (b *ruleSetBuilder) Configure(status Status) StatusConfiguration {
	if !status.IsValid() {
		panic(fmt.Sprintf("invalid status: %s", status))
	}

	config, exists := b.configured[status]
	if !exists {
		config = &statusConfig{builder: b, from: status}
		b.configured[status] = config
	}

	return config
}

// Build freezes the configured rules into an immutable RuleSet
func (b *ruleSetBuilder) Build() RuleSet {
	rulesCopy := make(map[ruleKey]Status, len(b.rules))
	for key, to := range b.rules {
		rulesCopy[key] = to
	}
	return &ruleSet{rules: rulesCopy}
}

// Permit allows the role to take the action, transitioning to the target status
func (c *statusConfig) Permit(role Role, action Action, to Status) StatusConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target status: %s", to))
	}
	if !role.IsValid() {
		panic(fmt.Sprintf("invalid role: %s", role))
	}

	c.builder.rules[ruleKey{from: c.from, role: role, action: action}] = to
	return c
}

// Next returns the target status for the tuple, or false when no rule matches
func (r *ruleSet) Next(from Status, role Role, action Action) (Status, bool) {
	to, ok := r.rules[ruleKey{from: from, role: role, action: action}]
	return to, ok
}

// RolePermitted returns true if the role has at least one rule from the status
func (r *ruleSet) RolePermitted(from Status, role Role) bool {
	return len(r.PermittedActions(from, role)) > 0
}

// PermittedActions returns all actions the role may take from the status
func (r *ruleSet) PermittedActions(from Status, role Role) []Action {
	var actions []Action
	for _, action := range []Action{ActionApprove, ActionReject} {
		if _, ok := r.rules[ruleKey{from: from, role: role, action: action}]; ok {
			actions = append(actions, action)
		}
	}
	return actions
}
