package port

// XDGPaths provides the directories arkium stores its files in.
type XDGPaths interface {
	ConfigDir() (string, error)
	DataDir() (string, error)
	StateDir() (string, error)

	// ProfileDir holds the engine's user data directory.
	ProfileDir() (string, error)
}
