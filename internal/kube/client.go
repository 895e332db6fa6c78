package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"kubezen/internal/config"
	"kubezen/pkg/logging"
)

// Revision is one entry of a workload's rollout history.
type Revision struct {
	Number        int64
	ReplicaSet    string
	CreatedAt     time.Time
	ChangeCause   string
	ReadyReplicas int64
}

// Client is the resource data-access surface the actions and views consume.
type Client struct {
	dyn       dynamic.Interface
	resources map[string]config.ResourceDefinition
	restCfg   *rest.Config
}

// NewClient builds a client from kubeconfig (or in-cluster config when the
// kubeconfig path is empty and none is discoverable).
func NewClient(cfg config.Config) (*Client, error) {
	restCfg, err := buildRESTConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build Kubernetes client config: %w", err)
	}
	dyn, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}
	return newClientWith(dyn, restCfg, cfg), nil
}

func newClientWith(dyn dynamic.Interface, restCfg *rest.Config, cfg config.Config) *Client {
	resources := make(map[string]config.ResourceDefinition, len(cfg.Resources))
	for _, r := range cfg.Resources {
		resources[r.Kind] = r
	}
	return &Client{dyn: dyn, resources: resources, restCfg: restCfg}
}

func buildRESTConfig(cfg config.Config) (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if cfg.Kubeconfig != "" {
		rules.ExplicitPath = cfg.Kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{}
	if cfg.KubeContext != "" {
		overrides.CurrentContext = cfg.KubeContext
	}
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)
	restCfg, err := loader.ClientConfig()
	if err != nil {
		if inCluster, icErr := rest.InClusterConfig(); icErr == nil {
			return inCluster, nil
		}
		return nil, err
	}
	return restCfg, nil
}

// ServerVersion reports the version string of the connected API server. Used
// as the startup connectivity probe.
func (c *Client) ServerVersion() (string, error) {
	if c.restCfg == nil {
		return "", fmt.Errorf("no client config available")
	}
	disco, err := discovery.NewDiscoveryClientForConfig(c.restCfg)
	if err != nil {
		return "", fmt.Errorf("failed to create discovery client: %w", err)
	}
	info, err := disco.ServerVersion()
	if err != nil {
		return "", fmt.Errorf("failed to query server version: %w", err)
	}
	return info.GitVersion, nil
}

// GVR resolves a kind to its GroupVersionResource.
func (c *Client) GVR(kind string) (schema.GroupVersionResource, bool) {
	def, ok := c.resources[kind]
	if !ok {
		return schema.GroupVersionResource{}, false
	}
	return schema.GroupVersionResource{Group: def.Group, Version: def.Version, Resource: def.Plural}, true
}

func (c *Client) resourceFor(kind, namespace string) (dynamic.ResourceInterface, error) {
	def, ok := c.resources[kind]
	if !ok {
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	gvr := schema.GroupVersionResource{Group: def.Group, Version: def.Version, Resource: def.Plural}
	if def.Namespaced && namespace != "" {
		return c.dyn.Resource(gvr).Namespace(namespace), nil
	}
	return c.dyn.Resource(gvr), nil
}

// List returns all objects of the given kind, optionally namespace-scoped.
func (c *Client) List(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error) {
	ri, err := c.resourceFor(kind, namespace)
	if err != nil {
		return nil, err
	}
	list, err := ri.List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	return list.Items, nil
}

// Get fetches a single object.
func (c *Client) Get(ctx context.Context, kind, namespace, name string) (*unstructured.Unstructured, error) {
	ri, err := c.resourceFor(kind, namespace)
	if err != nil {
		return nil, err
	}
	obj, err := ri.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s/%s: %w", kind, namespace, name, err)
	}
	return obj, nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, kind, namespace, name string) error {
	ri, err := c.resourceFor(kind, namespace)
	if err != nil {
		return err
	}
	if err := ri.Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s %s/%s: %w", kind, namespace, name, err)
	}
	logging.Info("Kube", "deleted %s %s/%s", kind, namespace, name)
	return nil
}

// Scale sets the replica count of a scalable workload.
func (c *Client) Scale(ctx context.Context, kind, namespace, name string, replicas int32) error {
	ri, err := c.resourceFor(kind, namespace)
	if err != nil {
		return err
	}
	patch := []byte(fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas))
	if _, err := ri.Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
		return fmt.Errorf("failed to scale %s %s/%s: %w", kind, namespace, name, err)
	}
	logging.Info("Kube", "scaled %s %s/%s to %d replicas", kind, namespace, name, replicas)
	return nil
}

// RestartRollout triggers a rolling restart by stamping the pod template,
// the same mechanism kubectl rollout restart uses.
func (c *Client) RestartRollout(ctx context.Context, kind, namespace, name string) error {
	ri, err := c.resourceFor(kind, namespace)
	if err != nil {
		return err
	}
	patch := map[string]any{
		"spec": map[string]any{
			"template": map[string]any{
				"metadata": map[string]any{
					"annotations": map[string]any{
						"kubectl.kubernetes.io/restartedAt": time.Now().Format(time.RFC3339),
					},
				},
			},
		},
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	if _, err := ri.Patch(ctx, name, types.StrategicMergePatchType, data, metav1.PatchOptions{}); err != nil {
		return fmt.Errorf("failed to restart rollout of %s %s/%s: %w", kind, namespace, name, err)
	}
	return nil
}

// RolloutHistory lists the revisions recorded by a Deployment's ReplicaSets,
// newest first.
func (c *Client) RolloutHistory(ctx context.Context, namespace, deployment string) ([]Revision, error) {
	sets, err := c.ownedReplicaSets(ctx, namespace, deployment)
	if err != nil {
		return nil, err
	}
	revisions := make([]Revision, 0, len(sets))
	for _, rs := range sets {
		num, err := strconv.ParseInt(rs.GetAnnotations()["deployment.kubernetes.io/revision"], 10, 64)
		if err != nil {
			continue
		}
		ready, _, _ := unstructured.NestedInt64(rs.Object, "status", "readyReplicas")
		revisions = append(revisions, Revision{
			Number:        num,
			ReplicaSet:    rs.GetName(),
			CreatedAt:     rs.GetCreationTimestamp().Time,
			ChangeCause:   rs.GetAnnotations()["kubernetes.io/change-cause"],
			ReadyReplicas: ready,
		})
	}
	sort.Slice(revisions, func(i, j int) bool { return revisions[i].Number > revisions[j].Number })
	return revisions, nil
}

// Rollback re-applies the pod template of the ReplicaSet recorded for the
// given revision onto the Deployment.
func (c *Client) Rollback(ctx context.Context, namespace, deployment string, revision int64) error {
	sets, err := c.ownedReplicaSets(ctx, namespace, deployment)
	if err != nil {
		return err
	}
	for _, rs := range sets {
		if rs.GetAnnotations()["deployment.kubernetes.io/revision"] != strconv.FormatInt(revision, 10) {
			continue
		}
		template, ok, err := unstructured.NestedMap(rs.Object, "spec", "template")
		if err != nil || !ok {
			return fmt.Errorf("replicaset %s has no pod template", rs.GetName())
		}
		// The RS template carries its pod-template-hash label; strip it so
		// the deployment controller computes a fresh one.
		unstructured.RemoveNestedField(template, "metadata", "labels", "pod-template-hash")

		patch, err := json.Marshal(map[string]any{"spec": map[string]any{"template": template}})
		if err != nil {
			return err
		}
		ri, err := c.resourceFor("Deployment", namespace)
		if err != nil {
			return err
		}
		if _, err := ri.Patch(ctx, deployment, types.StrategicMergePatchType, patch, metav1.PatchOptions{}); err != nil {
			return fmt.Errorf("failed to roll back %s/%s to revision %d: %w", namespace, deployment, revision, err)
		}
		logging.Info("Kube", "rolled back %s/%s to revision %d", namespace, deployment, revision)
		return nil
	}
	return fmt.Errorf("revision %d not found for deployment %s/%s", revision, namespace, deployment)
}

// TriggerCronJob creates a one-off Job from the CronJob's job template, the
// same mechanism kubectl create job --from uses.
func (c *Client) TriggerCronJob(ctx context.Context, namespace, name, jobName string) error {
	cronjob, err := c.Get(ctx, "CronJob", namespace, name)
	if err != nil {
		return err
	}
	template, ok, err := unstructured.NestedMap(cronjob.Object, "spec", "jobTemplate")
	if err != nil || !ok {
		return fmt.Errorf("cronjob %s/%s has no job template", namespace, name)
	}

	meta := map[string]any{"name": jobName, "namespace": namespace}
	if labels, ok, _ := unstructured.NestedMap(template, "metadata", "labels"); ok && len(labels) > 0 {
		meta["labels"] = labels
	}
	annotations, ok, _ := unstructured.NestedMap(template, "metadata", "annotations")
	if !ok || annotations == nil {
		annotations = map[string]any{}
	}
	annotations["cronjob.kubernetes.io/instantiate"] = "manual"
	meta["annotations"] = annotations

	job := map[string]any{
		"apiVersion": "batch/v1",
		"kind":       "Job",
		"metadata":   meta,
	}
	if spec, ok, _ := unstructured.NestedMap(template, "spec"); ok {
		job["spec"] = spec
	}

	ri, err := c.resourceFor("Job", namespace)
	if err != nil {
		return err
	}
	if _, err := ri.Create(ctx, &unstructured.Unstructured{Object: job}, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("failed to trigger cronjob %s/%s: %w", namespace, name, err)
	}
	logging.Info("Kube", "created job %s/%s from cronjob %s", namespace, jobName, name)
	return nil
}

// SetCronJobSuspend flips a CronJob's spec.suspend flag. Suspending stops
// future scheduling without touching jobs already running.
func (c *Client) SetCronJobSuspend(ctx context.Context, namespace, name string, suspend bool) error {
	ri, err := c.resourceFor("CronJob", namespace)
	if err != nil {
		return err
	}
	patch := []byte(fmt.Sprintf(`{"spec":{"suspend":%t}}`, suspend))
	if _, err := ri.Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
		return fmt.Errorf("failed to set suspend=%t on cronjob %s/%s: %w", suspend, namespace, name, err)
	}
	logging.Info("Kube", "set suspend=%t on cronjob %s/%s", suspend, namespace, name)
	return nil
}

// SetNodeUnschedulable cordons (true) or uncordons (false) a node.
func (c *Client) SetNodeUnschedulable(ctx context.Context, name string, unschedulable bool) error {
	ri, err := c.resourceFor("Node", "")
	if err != nil {
		return err
	}
	patch := []byte(fmt.Sprintf(`{"spec":{"unschedulable":%t}}`, unschedulable))
	if _, err := ri.Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
		return fmt.Errorf("failed to set unschedulable=%t on node %s: %w", unschedulable, name, err)
	}
	logging.Info("Kube", "set unschedulable=%t on node %s", unschedulable, name)
	return nil
}

func (c *Client) ownedReplicaSets(ctx context.Context, namespace, deployment string) ([]unstructured.Unstructured, error) {
	all, err := c.List(ctx, "ReplicaSet", namespace)
	if err != nil {
		return nil, err
	}
	var owned []unstructured.Unstructured
	for _, rs := range all {
		for _, owner := range rs.GetOwnerReferences() {
			if owner.Kind == "Deployment" && owner.Name == deployment {
				owned = append(owned, rs)
				break
			}
		}
	}
	return owned, nil
}
