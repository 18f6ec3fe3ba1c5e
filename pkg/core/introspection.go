package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	ConfigStore  string `json:"config_store"`
	ContentStore string `json:"content_store"`
	Aliases      int    `json:"aliases"`
	Versioned    bool   `json:"versioned"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	return ServiceState{
		ConfigStore:  componentType(s.config),
		ContentStore: componentType(s.content),
		Aliases:      len(s.aliases),
		Versioned:    s.versioner != nil,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

func componentType(v any) string {
	if v == nil {
		return "none"
	}
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return "unknown"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
