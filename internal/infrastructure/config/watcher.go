package config

import (
	"context"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/arkium/internal/logging"
)

// contentOps are the events that can change what the file holds. Editors
// also emit chmod and rename noise around a save.
const contentOps = fsnotify.Write | fsnotify.Create

// Watch follows the configuration file. Each edit is reloaded, validated
// and handed to the OnConfigChange listeners; a rejected edit leaves the
// current configuration in place. Calling Watch again is a no-op.
func (m *Manager) Watch(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching {
		return
	}
	m.watching = true

	log := logging.FromContext(logging.WithComponent(ctx, "config"))
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&contentOps == 0 {
			return
		}
		log.Debug().Stringer("op", e.Op).Str("file", e.Name).Msg("config file changed")
		if err := m.Reload(); err != nil {
			log.Warn().Err(err).Msg("config edit rejected, keeping previous values")
		}
	})
	m.viper.WatchConfig()
}

// OnConfigChange registers fn to receive a copy of every accepted
// configuration.
func (m *Manager) OnConfigChange(fn func(*Config)) {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, fn)
	m.mu.Unlock()
}

// Reload rereads the file. On success the listeners run outside the lock,
// each with its own copy.
func (m *Manager) Reload() error {
	m.mu.Lock()
	cfg, err := m.readValidated()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.config = cfg
	snapshot := *cfg
	listeners := slices.Clone(m.callbacks)
	m.mu.Unlock()

	for _, fn := range listeners {
		c := snapshot
		fn(&c)
	}
	return nil
}

// readValidated must be called with m.mu held.
func (m *Manager) readValidated() (*Config, error) {
	if err := m.viper.ReadInConfig(); err != nil {
		return nil, err
	}
	return m.decode()
}
