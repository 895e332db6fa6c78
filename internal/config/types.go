package config

import "time"

// Config is the application configuration. It is loaded once at startup and
// threaded explicitly through constructors; nothing reads it from a global.
type Config struct {
	// Tmux session hosting the selector UI.
	SessionName    string `yaml:"sessionName"`
	MainWindowName string `yaml:"mainWindowName"`
	TmuxSocketPath string `yaml:"tmuxSocketPath"`

	// External binaries.
	FzfPath     string `yaml:"fzfPath"`
	KubectlPath string `yaml:"kubectlPath"`
	Pager       string `yaml:"pager"`
	Editor      string `yaml:"editor"`

	// Kubernetes access.
	Kubeconfig  string `yaml:"kubeconfig"`
	KubeContext string `yaml:"kubeContext"`

	// Scratch space for item files and input scripts.
	TempDir string `yaml:"tempDir"`

	// Log file for the UI process.
	LogFile string `yaml:"logFile"`
	Debug   bool   `yaml:"debug"`

	// Selector API behaviour.
	SelectorAPITimeout  time.Duration `yaml:"selectorApiTimeout"`
	HealthCheckInterval time.Duration `yaml:"healthCheckInterval"`

	// Per-service stop budget during shutdown.
	StopTimeout time.Duration `yaml:"stopTimeout"`

	// Resource kinds the browser knows about.
	Resources []ResourceDefinition `yaml:"resources"`
}

// ResourceDefinition describes one browsable resource kind and how to reach
// it through the dynamic client.
type ResourceDefinition struct {
	Kind       string `yaml:"kind"`
	Plural     string `yaml:"plural"`
	Group      string `yaml:"group"`
	Version    string `yaml:"version"`
	Namespaced bool   `yaml:"namespaced"`
	Icon       string `yaml:"icon"`
	Watch      bool   `yaml:"watch"`
}

// ResourceByKind returns the definition for the given kind, if known.
func (c Config) ResourceByKind(kind string) (ResourceDefinition, bool) {
	for _, r := range c.Resources {
		if r.Kind == kind {
			return r, true
		}
	}
	return ResourceDefinition{}, false
}
