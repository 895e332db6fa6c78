package action

// DefaultRegistry wires the built-in actions. Kind-specific actions come
// before the general ones in the action list.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(ViewLogs{}, "Pod")
	r.MustRegister(ExecShell{}, "Pod")
	r.MustRegister(PortForward{}, "Pod", "Service")
	r.MustRegister(ScaleWorkload{}, "Deployment", "StatefulSet", "ReplicaSet")
	r.MustRegister(RestartRollout{}, "Deployment", "StatefulSet", "DaemonSet")
	r.MustRegister(Rollback{}, "Deployment")
	r.MustRegister(TriggerCronJob{}, "CronJob")
	r.MustRegister(SuspendCronJob{}, "CronJob")
	r.MustRegister(ResumeCronJob{}, "CronJob")
	r.MustRegister(CordonNode{}, "Node")
	r.MustRegister(UncordonNode{}, "Node")
	r.MustRegister(DrainNode{}, "Node")
	r.MustRegister(DescribeResource{})
	r.MustRegister(ViewYAML{})
	r.MustRegister(EditResource{})
	r.MustRegister(DeleteResource{})
	r.MustRegister(CopyName{})
	return r
}
