package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher 监控投递目录，出现新的 XLSX 文件时读取并回调。
// 回调拿到的是已经解析好的 FileResult，读取失败只记日志不中断监控。
type Watcher struct {
	watcher   *fsnotify.Watcher
	base      string
	callbacks []func(result *FileResult)
	mu        sync.RWMutex
	done      chan struct{}
}

func NewWatcher(basePath string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建 watcher 失败: %w", err)
	}

	if err := w.Add(basePath); err != nil {
		w.Close()
		return nil, fmt.Errorf("监控路径 %s 失败: %w", basePath, err)
	}

	return &Watcher{
		watcher: w,
		base:    basePath,
		done:    make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("Watcher 错误")
			case <-w.done:
				return
			}
		}
	}()
}

func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) AddCallback(cb func(result *FileResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	name := event.Name
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("读取投递文件失败")
		return
	}
	result, err := ReadWorkbook(data, filepath.Base(name))
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("解析投递文件失败")
		return
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		go cb(result)
	}
}
