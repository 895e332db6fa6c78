package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns the built-in configuration. User configuration is
// layered on top of this by the loader.
func DefaultConfig() Config {
	return Config{
		SessionName:         "kubezen",
		MainWindowName:      "kubezen-main",
		FzfPath:             "fzf",
		KubectlPath:         "kubectl",
		Pager:               "less -R",
		Editor:              defaultEditor(),
		TempDir:             filepath.Join(os.TempDir(), "kubezen"),
		LogFile:             filepath.Join(os.TempDir(), "kubezen.log"),
		SelectorAPITimeout:  3 * time.Second,
		HealthCheckInterval: 3 * time.Second,
		StopTimeout:         5 * time.Second,
		Resources:           defaultResources(),
	}
}

func defaultEditor() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}

func defaultResources() []ResourceDefinition {
	return []ResourceDefinition{
		{Kind: "Namespace", Plural: "namespaces", Version: "v1", Namespaced: false, Icon: "🗂", Watch: true},
		{Kind: "Pod", Plural: "pods", Version: "v1", Namespaced: true, Icon: "📦", Watch: true},
		{Kind: "Deployment", Plural: "deployments", Group: "apps", Version: "v1", Namespaced: true, Icon: "🚀", Watch: true},
		{Kind: "StatefulSet", Plural: "statefulsets", Group: "apps", Version: "v1", Namespaced: true, Icon: "🧱", Watch: true},
		{Kind: "DaemonSet", Plural: "daemonsets", Group: "apps", Version: "v1", Namespaced: true, Icon: "👥", Watch: false},
		{Kind: "ReplicaSet", Plural: "replicasets", Group: "apps", Version: "v1", Namespaced: true, Icon: "📑", Watch: false},
		{Kind: "Service", Plural: "services", Version: "v1", Namespaced: true, Icon: "🔌", Watch: true},
		{Kind: "ConfigMap", Plural: "configmaps", Version: "v1", Namespaced: true, Icon: "🗒", Watch: false},
		{Kind: "Secret", Plural: "secrets", Version: "v1", Namespaced: true, Icon: "🔒", Watch: false},
		{Kind: "PersistentVolumeClaim", Plural: "persistentvolumeclaims", Version: "v1", Namespaced: true, Icon: "💾", Watch: false},
		{Kind: "Node", Plural: "nodes", Version: "v1", Namespaced: false, Icon: "🖥", Watch: false},
		{Kind: "CronJob", Plural: "cronjobs", Group: "batch", Version: "v1", Namespaced: true, Icon: "⏰", Watch: false},
		{Kind: "Job", Plural: "jobs", Group: "batch", Version: "v1", Namespaced: true, Icon: "🔧", Watch: false},
	}
}
