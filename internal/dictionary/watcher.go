package dictionary

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reloadTimeout = 30 * time.Second

// Watcher reloads a Dictionary on a cron schedule so edits to the data files
// are picked up without a restart.
type Watcher struct {
	cronEngine *cron.Cron
	dict       *Dictionary
	spec       string

	// OnReload, if set, is called after every scheduled reload with its result.
	OnReload func(err error)
}

func NewWatcher(dict *Dictionary, spec string) *Watcher {
	return &Watcher{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		dict:       dict,
		spec:       spec,
	}
}

// Start registers the reload job and starts the scheduler.
func (w *Watcher) Start() error {
	if _, err := w.cronEngine.AddFunc(w.spec, w.reload); err != nil {
		return fmt.Errorf("could not schedule dictionary reload %q: %w", w.spec, err)
	}
	w.cronEngine.Start()
	logrus.Infof("Dictionary reload scheduled (%s)", w.spec)
	return nil
}

// Stop stops the scheduler and waits for a running reload to finish.
func (w *Watcher) Stop() {
	<-w.cronEngine.Stop().Done()
	logrus.Info("Dictionary reload stopped")
}

func (w *Watcher) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	err := w.dict.Reload(ctx)
	if err != nil {
		logrus.Errorf("Dictionary reload failed, keeping previous data: %v", err)
	}
	if w.OnReload != nil {
		w.OnReload(err)
	}
}
