package config

import (
	"path/filepath"
	"sync"

	"SiteViewer/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
	wg      sync.WaitGroup
}

// Watch starts watching path. The parent directory is watched so that
// editors that save by renaming a temporary file are noticed.
func Watch(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Updates delivers each successfully reloaded config. Only the newest
// pending config is kept when the reader falls behind.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logger.Log.Warn("Config reload failed, keeping previous settings", zap.String("path", w.path), zap.Error(err))
		return
	}
	logger.Log.Info("Config reloaded", zap.String("path", w.path))

	select {
	case w.updates <- cfg:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- cfg
	}
}
