package bridge

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	TransportRelay = "relay"
	TransportLocal = "local"

	DefaultRequestKind = 24140
	DefaultReplyKind   = 24141
)

// Manifest is the wallet plugin file the Loader fetches.
type Manifest struct {
	Name        string            `yaml:"name"`
	Version     string            `yaml:"version"`
	Transport   string            `yaml:"transport"`
	Relays      []string          `yaml:"relays"`
	RequestKind int               `yaml:"requestKind"`
	ReplyKind   int               `yaml:"replyKind"`
	Signals     map[string]string `yaml:"signals"`
}

func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse wallet plugin manifest: %w", err)
	}
	if m.Transport == "" {
		m.Transport = TransportRelay
	}
	if m.Transport != TransportRelay && m.Transport != TransportLocal {
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnknownTransport, m.Transport)
	}
	if m.RequestKind == 0 {
		m.RequestKind = DefaultRequestKind
	}
	if m.ReplyKind == 0 {
		m.ReplyKind = DefaultReplyKind
	}
	if m.Signals == nil {
		m.Signals = make(map[string]string)
	}
	return m, nil
}

// SignalName maps the reply topic a wallet used onto the signal name listeners know. Unmapped topics
// pass through unchanged.
func (m Manifest) SignalName(topic string) string {
	if name, ok := m.Signals[topic]; ok {
		return name
	}
	return topic
}
