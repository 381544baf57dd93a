// Package policy maps engine actions to the minimum access level they
// require. The mapping ships as an embedded YAML file so the whole gate
// table is reviewable in one place.
package policy

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"docvault/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

type actionFile struct {
	Actions map[Action]models.AccessLevel `yaml:"actions"`
}

// Registry holds the action → minimum level table
type Registry struct {
	actions map[Action]models.AccessLevel
	mu      sync.RWMutex
}

// NewRegistry loads the embedded action table. Every Action constant must
// be present in the file; a gap is a startup error, not a silent default.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/actions.yaml")
	if err != nil {
		return nil, fmt.Errorf("read action policy: %w", err)
	}

	var file actionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal action policy: %w", err)
	}

	required := []Action{
		ActionDocumentRead, ActionDocumentList, ActionDocumentUpdate,
		ActionDocumentArchive, ActionDocumentRestore, ActionDocumentTag,
		ActionVersionUpload, ActionVersionList, ActionVersionRestore,
		ActionVersionDownload,
		ActionShareGrant, ActionShareRevoke, ActionShareList,
		ActionCommentCreate, ActionCommentList,
		ActionAuditList,
	}
	for _, a := range required {
		if _, ok := file.Actions[a]; !ok {
			return nil, fmt.Errorf("action policy missing %q", a)
		}
	}

	return &Registry{actions: file.Actions}, nil
}

// MinLevel returns the minimum access level required for the action.
func (r *Registry) MinLevel(action Action) (models.AccessLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	level, ok := r.actions[action]
	if !ok {
		return models.AccessNone, fmt.Errorf("unknown action %q", action)
	}
	return level, nil
}

// Actions returns a copy of the whole table, for introspection endpoints.
func (r *Registry) Actions() map[Action]models.AccessLevel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Action]models.AccessLevel, len(r.actions))
	for k, v := range r.actions {
		out[k] = v
	}
	return out
}
