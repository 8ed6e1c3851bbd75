package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// Method is a sign-in entry point offered to the user.
type Method string

const (
	MethodGoogle    Method = "google"
	MethodEmailLink Method = "email-link"
	MethodAnonymous Method = "anonymous"
	// MethodWallet signs in with an external wallet and never touches seed material.
	MethodWallet Method = "wallet"
)

var allMethods = []Method{MethodGoogle, MethodEmailLink, MethodAnonymous, MethodWallet}

func (m Method) String() string {
	return string(m)
}

// Valid checks if the method is a known entry point
func (m Method) Valid() bool {
	for _, known := range allMethods {
		if m == known {
			return true
		}
	}
	return false
}

// MethodSet is the set of entry points enabled for a deployment.
type MethodSet map[Method]struct{}

// ParseMethods builds a MethodSet from names like "google,anonymous".
// An empty list enables every method.
func ParseMethods(names []string) (MethodSet, error) {
	set := MethodSet{}
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			m := Method(strings.ToLower(strings.TrimSpace(part)))
			if m == "" {
				continue
			}
			if !m.Valid() {
				return nil, errors.Errorf("unknown auth method %q", part)
			}
			set[m] = struct{}{}
		}
	}

	if len(set) == 0 {
		for _, m := range allMethods {
			set[m] = struct{}{}
		}
	}

	return set, nil
}

func (s MethodSet) Allows(m Method) bool {
	_, ok := s[m]
	return ok
}

// List returns the enabled methods in a stable order.
func (s MethodSet) List() []Method {
	res := make([]Method, 0, len(s))
	for _, m := range allMethods {
		if s.Allows(m) {
			res = append(res, m)
		}
	}
	return res
}
