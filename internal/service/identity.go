package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/gooddata"
)

// IdentityMapper resolves platform user and group references to the remote
// system's native identifiers. References use the forms
// "user:<email-with-@-replaced-by-_>" and "group:<name>".
type IdentityMapper struct {
	client gooddata.Client
	logger *slog.Logger
}

// NewIdentityMapper creates an IdentityMapper on the given client.
func NewIdentityMapper(client gooddata.Client, logger *slog.Logger) *IdentityMapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityMapper{client: client, logger: logger}
}

// MapUsers resolves user references. The result's domain is exactly refs;
// a reference with no matching remote user maps to the empty string.
// Remote users without an email are skipped from the lookup.
func (m *IdentityMapper) MapUsers(ctx context.Context, refs []string) (map[string]string, error) {
	users, err := m.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]string, len(users))
	for _, u := range users {
		if u.Email == "" {
			m.logger.Warn("remote user is missing an email, skipping", "user_id", u.ID)
			continue
		}
		lookup["user:"+strings.ReplaceAll(u.Email, "@", "_")] = u.ID
	}

	return m.resolve(refs, lookup, "user"), nil
}

// MapGroups resolves group references, keyed by the remote group name.
// Remote groups without a name are skipped from the lookup.
func (m *IdentityMapper) MapGroups(ctx context.Context, refs []string) (map[string]string, error) {
	groups, err := m.client.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]string, len(groups))
	for _, g := range groups {
		if g.Name == "" {
			m.logger.Warn("remote group is missing a name, skipping", "group_id", g.ID)
			continue
		}
		lookup["group:"+g.Name] = g.ID
	}

	return m.resolve(refs, lookup, "group"), nil
}

func (m *IdentityMapper) resolve(refs []string, lookup map[string]string, kind string) map[string]string {
	mapped := make(map[string]string, len(refs))
	for _, ref := range refs {
		id, ok := lookup[ref]
		if !ok {
			m.logger.Warn("reference could not be mapped to a remote principal", "kind", kind, "ref", ref)
		}
		mapped[ref] = id
	}
	return mapped
}

// Unmapped returns the references of a mapping result that did not resolve,
// in no particular order.
func Unmapped(mapped map[string]string) []string {
	var missing []string
	for ref, id := range mapped {
		if id == "" {
			missing = append(missing, ref)
		}
	}
	return missing
}

// Resolved returns the native ids of a mapping result that did resolve, in
// no particular order.
func Resolved(mapped map[string]string) []string {
	var ids []string
	for _, id := range mapped {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
