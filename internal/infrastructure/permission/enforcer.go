// Package permission decides which roles may call which admin routes.
package permission

import (
	"fmt"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/faqplusplus/faqplusplus/internal/shared/authorization"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// modelText grants a subject access when it, or a role it inherits,
// holds a policy whose path pattern and method pattern match the request.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies are seeded on start.
var DefaultPolicies = [][]string{
	{string(authorization.RoleAdmin), "/api/config/*", "(GET)|(POST)"},
	{string(authorization.RoleUser), "/api/tickets", "GET"},
	{string(authorization.RoleUser), "/api/tickets/*", "(GET)|(POST)"},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer builds an enforcer whose policies are stored in the casbin_rule table.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// Seed adds the default policies, admin-inherits-user, and the admin role for
// every configured administrator UPN. Existing rules are left in place.
func (e *Enforcer) Seed(adminUPNs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, policy := range DefaultPolicies {
		if _, err := e.enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			e.logger.Errorw("failed to add permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", policy[0], policy[1], policy[2], err)
		}
	}

	if _, err := e.enforcer.AddGroupingPolicy(string(authorization.RoleAdmin), string(authorization.RoleUser)); err != nil {
		return fmt.Errorf("failed to add role inheritance: %w", err)
	}

	for _, upn := range adminUPNs {
		upn = normalizeSubject(upn)
		if upn == "" {
			continue
		}
		if _, err := e.enforcer.AddRoleForUser(upn, string(authorization.RoleAdmin)); err != nil {
			e.logger.Errorw("failed to add admin role", "error", err, "upn", upn)
			return fmt.Errorf("failed to add admin role for %s: %w", upn, err)
		}
	}

	e.logger.Infow("permissions initialized", "admins", len(adminUPNs))
	return nil
}

// Enforce checks one subject, either a role name or a user principal name.
func (e *Enforcer) Enforce(subject, path, method string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(normalizeSubject(subject), path, method)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "subject", subject, "path", path, "method", method)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

// EnforceAny allows the request when any of the subjects is allowed.
func (e *Enforcer) EnforceAny(subjects []string, path, method string) (bool, error) {
	for _, s := range subjects {
		if s == "" {
			continue
		}
		allowed, err := e.Enforce(s, path, method)
		if err != nil {
			return false, err
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}

func (e *Enforcer) AddRoleForUser(upn string, role authorization.UserRole) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddRoleForUser(normalizeSubject(upn), string(role)); err != nil {
		e.logger.Errorw("failed to add role for user", "error", err, "upn", upn, "role", role)
		return fmt.Errorf("failed to add role for user: %w", err)
	}
	return nil
}

func (e *Enforcer) GetRolesForUser(upn string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	roles, err := e.enforcer.GetRolesForUser(normalizeSubject(upn))
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for user: %w", err)
	}
	return roles, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}

func normalizeSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
