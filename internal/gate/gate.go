// Package gate decides, per request, whether a navigation may proceed or
// must be redirected. It is a pure decision function over injected
// session/role values so it stays unit-testable without any backend.
package gate

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hairwise/hairwise-backend/internal/models"
)

type Action int

const (
	Proceed Action = iota
	Redirect
)

// Decision is the gate's verdict for one request.
type Decision struct {
	Action Action
	Target string // redirect target, empty on Proceed
}

// RoleLookup fetches the caller's app role. It is only invoked for paths
// that need one, and its failure is never fatal to the request.
type RoleLookup func() (models.UserRole, error)

// Routes names the route namespaces the gate cares about.
type Routes struct {
	AdminPrefix       string
	ProtectedPrefixes []string
	SignInPath        string
	LandingPath       string
}

func DefaultRoutes() Routes {
	return Routes{
		AdminPrefix:       "/admin",
		ProtectedPrefixes: []string{"/chat", "/profile"},
		SignInPath:        "/auth",
		LandingPath:       "/chat",
	}
}

type Gate struct {
	Routes Routes
	Log    logrus.FieldLogger
}

func New(routes Routes, log logrus.FieldLogger) *Gate {
	return &Gate{Routes: routes, Log: log}
}

// Decide evaluates the access rules in precedence order:
//
//  1. admin namespace: no session -> sign-in; non-admin role -> landing
//  2. protected namespaces: no session -> sign-in
//  3. sign-in page with a session -> landing
//  4. anything else proceeds
//
// A failing role lookup is deliberately fail-open: the caller is treated
// as authenticated-but-non-admin (landing redirect), never blocked or
// crashed. The failure is only logged.
func (g *Gate) Decide(path string, sessionPresent bool, lookup RoleLookup) Decision {
	if strings.HasPrefix(path, g.Routes.AdminPrefix) {
		if !sessionPresent {
			return Decision{Action: Redirect, Target: g.Routes.SignInPath}
		}
		role, err := g.lookupRole(path, lookup)
		if err != nil || role != models.RoleAdmin {
			return Decision{Action: Redirect, Target: g.Routes.LandingPath}
		}
		return Decision{Action: Proceed}
	}

	for _, prefix := range g.Routes.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			if !sessionPresent {
				return Decision{Action: Redirect, Target: g.Routes.SignInPath}
			}
			return Decision{Action: Proceed}
		}
	}

	if path == g.Routes.SignInPath && sessionPresent {
		return Decision{Action: Redirect, Target: g.Routes.LandingPath}
	}

	return Decision{Action: Proceed}
}

func (g *Gate) lookupRole(path string, lookup RoleLookup) (models.UserRole, error) {
	if lookup == nil {
		return "", nil
	}
	role, err := lookup()
	if err != nil {
		if g.Log != nil {
			g.Log.WithFields(logrus.Fields{
				"path":  path,
				"error": err.Error(),
			}).Warn("gate: role lookup failed, treating caller as non-admin")
		}
		return "", err
	}
	return role, nil
}
