package config

// Runtime holds the resolved runtime configuration assembled from CLI flags
// and defaults. It is passed explicitly; nothing in the engine reads it as
// ambient state.
type Runtime struct {
	Server   ServerConfig
	Database DatabaseConfig
	Notify   NotifyConfig
	Feed     FeedConfig
}

type ServerConfig struct {
	Bind string
	Port string
}

type DatabaseConfig struct {
	Path string
}

type NotifyConfig struct {
	Language string
}

type FeedConfig struct {
	WindowDays int
}

// Default returns a Runtime with sensible defaults.
func Default() Runtime {
	return Runtime{
		Server: ServerConfig{
			Bind: LocalhostBindAddr,
			Port: DefaultPort,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Notify: NotifyConfig{
			Language: DefaultLanguage,
		},
		Feed: FeedConfig{
			WindowDays: DefaultFeedWindowDays,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (r *Runtime) ListenAddr() string {
	return r.Server.Bind + AddrSeparator + r.Server.Port
}
