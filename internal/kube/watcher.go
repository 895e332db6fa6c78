package kube

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic/dynamicinformer"
	"k8s.io/client-go/tools/cache"

	"kubezen/internal/config"
	"kubezen/internal/event"
	"kubezen/pkg/logging"
)

// Watcher runs shared informers for the watched resource kinds and publishes
// a StoreUpdateEvent on every add, update or delete.
type Watcher struct {
	client *Client
	bus    *event.Bus
	kinds  []config.ResourceDefinition

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

// NewWatcher builds a watcher over the kinds marked for watching in config.
func NewWatcher(client *Client, bus *event.Bus, cfg config.Config) *Watcher {
	var kinds []config.ResourceDefinition
	for _, r := range cfg.Resources {
		if r.Watch {
			kinds = append(kinds, r)
		}
	}
	return &Watcher{client: client, bus: bus, kinds: kinds}
}

// Start spins up informers for every watched kind. It returns once the
// initial caches have synced so views see a warm store from the first render.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	factory := dynamicinformer.NewDynamicSharedInformerFactory(w.client.dyn, 10*time.Minute)
	var synced []cache.InformerSynced
	for _, def := range w.kinds {
		gvr, ok := w.client.GVR(def.Kind)
		if !ok {
			cancel()
			return fmt.Errorf("no GVR for watched kind %q", def.Kind)
		}
		informer := factory.ForResource(gvr).Informer()
		kind := def.Kind
		informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
			AddFunc:    func(obj any) { w.publish(runCtx, kind, obj, "added") },
			UpdateFunc: func(_, obj any) { w.publish(runCtx, kind, obj, "updated") },
			DeleteFunc: func(obj any) { w.publish(runCtx, kind, obj, "deleted") },
		})
		synced = append(synced, informer.HasSynced)
	}

	factory.Start(runCtx.Done())
	syncCtx, syncCancel := context.WithTimeout(ctx, 30*time.Second)
	defer syncCancel()
	if !cache.WaitForCacheSync(syncCtx.Done(), synced...) {
		cancel()
		return fmt.Errorf("informer caches did not sync")
	}

	w.started = true
	logging.Info("Watcher", "watching %d resource kinds", len(w.kinds))
	return nil
}

// Stop shuts all informers down.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.started = false
	return nil
}

func (w *Watcher) publish(ctx context.Context, kind string, obj any, change string) {
	namespace := ""
	if u, ok := obj.(*unstructured.Unstructured); ok {
		namespace = u.GetNamespace()
	} else if tomb, ok := obj.(cache.DeletedFinalStateUnknown); ok {
		if u, ok := tomb.Obj.(*unstructured.Unstructured); ok {
			namespace = u.GetNamespace()
		}
	}
	if err := w.bus.Publish(ctx, event.StoreUpdateEvent{
		ResourceKind: kind,
		Namespace:    namespace,
		Change:       change,
	}); err != nil {
		logging.Error("Watcher", err, "failed to publish store update for %s", kind)
	}
}
