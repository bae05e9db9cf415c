package domain

import "time"

// AnonymousName labels handles that were never named.
const AnonymousName = "<anonymous>"

// MutationRecord is the commit context of a mutation: it is alive for the duration of the
// mutator call and labels every write performed meanwhile.
type MutationRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Path      string    `json:"path"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Qualified returns the "path/type" name of the mutation.
func (m MutationRecord) Qualified() string {
	return Qualify(m.Path, m.Type)
}

// ActionPhase tells whether an ActionRecord was emitted before or after the actor ran.
type ActionPhase string

const (
	ActionBefore ActionPhase = "before"
	ActionAfter  ActionPhase = "after"
)

// ActionRecord describes one action invocation.
type ActionRecord struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Path      string        `json:"path"`
	Payload   any           `json:"payload,omitempty"`
	Phase     ActionPhase   `json:"phase"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       string        `json:"error,omitempty"`
}

// Qualified returns the "path/type" name of the action.
func (a ActionRecord) Qualified() string {
	return Qualify(a.Path, a.Type)
}

// Qualify joins a module path and a name.
func Qualify(path, name string) string {
	if name == "" {
		name = AnonymousName
	}
	if path == "" {
		return name
	}
	return path + "/" + name
}

// ModuleInfo describes one state tree of a store and its nested modules.
type ModuleInfo struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Strict   bool         `json:"strict"`
	Keys     []string     `json:"keys"`
	Children []ModuleInfo `json:"children,omitempty"`
}

// Walk calls fn for m and every descendant, parents first.
func (m ModuleInfo) Walk(fn func(ModuleInfo)) {
	fn(m)
	for _, c := range m.Children {
		c.Walk(fn)
	}
}
