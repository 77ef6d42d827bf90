package prefabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a prefab must stay untouched before it is reported.
const settle = 100 * time.Millisecond

// Watcher reports prefabs edited on disk by media name. Editors tend to
// write a file several times per save, so changes are collected until the
// directory settles and each media is reported once.
type Watcher struct {
	fs      *fsnotify.Watcher
	reloads chan string
	errs    chan error
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fw,
		reloads: make(chan string, 16),
		errs:    make(chan error, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Reloads yields media names. It is closed by Close.
func (w *Watcher) Reloads() <-chan string { return w.reloads }

// Errors keeps only the most recent undelivered error.
func (w *Watcher) Errors() <-chan error { return w.errs }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.reloads)
		close(w.errs)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]struct{})
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if media, ok := prefabChange(ev); ok {
				pending[media] = struct{}{}
				timer.Reset(settle)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-timer.C:
			names := make([]string, 0, len(pending))
			for media := range pending {
				names = append(names, media)
			}
			slices.Sort(names)
			clear(pending)
			for _, media := range names {
				select {
				case w.reloads <- media:
				case <-w.stop:
					return
				}
			}
		case <-w.stop:
			return
		}
	}
}

// prefabChange maps a filesystem event to the media it touches.
func prefabChange(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return "", false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml":
		return MediaName(ev.Name), true
	}
	return "", false
}
