package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern. Skip marks a public route.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An endpoint with no roles listed is open
// to every authenticated user.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

// PermissionData is the route table. Skip on the table disables role checks entirely.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

// FindPermissions looks up a chi route pattern such as /v1/hostels/{name}. Unknown routes
// return the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.index[key(method, path)]
}

func key(method, path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return method + " " + path
}

func Get() *PermissionData {
	return parse(permissionsData)
}

func parse(data []byte) *PermissionData {
	table := PermissionData{}

	if err := json.Unmarshal(data, &table); err != nil {
		log.Error().Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	table.index = make(map[string]Permission, len(table.Endpoints))

	for _, endpoint := range table.Endpoints {
		k := key(endpoint.Method, endpoint.Path)
		if _, dup := table.index[k]; dup {
			log.Warn().Str("endpoint", k).Msg("Duplicate permission entry, keeping the first")

			continue
		}

		table.index[k] = endpoint
	}

	log.Info().Int("endpoints", len(table.index)).Msg("Loaded embedded permissions")

	return &table
}
