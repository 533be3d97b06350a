// Package dataset 维护已摄入数据集的内存注册表。
// 系统不做持久化，进程退出即清空；重新计算的唯一途径是重新上传。
package dataset

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/afumu/prodsum/internal/ingest"
	"github.com/afumu/prodsum/internal/model"
)

// FileMeta 记录数据集里单个来源文件的信息。
type FileMeta struct {
	Name        string `json:"name"`
	Fingerprint uint64 `json:"fingerprint"`
	Rows        int    `json:"rows"`
}

// Dataset 是一批上传文件拼接成的记录集。
// 多个文件的记录简单串联，聚合阶段对文件顺序没有依赖。
type Dataset struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Files     []FileMeta             `json:"files"`
	Records   []model.ActivityRecord `json:"-"`
	RowCount  int                    `json:"rowCount"`
	CreatedAt time.Time              `json:"createdAt"`
	Diags     model.Diagnostics      `json:"diagnostics"`
}

// Registry 是并发安全的数据集注册表。
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

func NewRegistry() *Registry {
	return &Registry{datasets: make(map[string]*Dataset)}
}

// Add 用若干文件读取结果创建一个数据集。
// 内容指纹重复的文件只保留第一份，重复数记入诊断。
func (r *Registry) Add(name string, results []*ingest.FileResult) *Dataset {
	ds := &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	seen := make(map[uint64]struct{}, len(results))
	for _, res := range results {
		if _, dup := seen[res.Fingerprint]; dup {
			ds.Diags.DuplicateFiles++
			ds.Diags.Warn(fmt.Sprintf("文件 %s 与已上传文件内容相同，已跳过", res.Name))
			continue
		}
		seen[res.Fingerprint] = struct{}{}

		ds.Files = append(ds.Files, FileMeta{
			Name:        res.Name,
			Fingerprint: res.Fingerprint,
			Rows:        res.RowCount,
		})
		ds.Records = append(ds.Records, res.Records...)
		ds.RowCount += res.RowCount
		ds.Diags.Merge(res.Diags)
	}

	r.mu.Lock()
	r.datasets[ds.ID] = ds
	r.mu.Unlock()

	log.Info().Str("dataset", ds.ID).Int("files", len(ds.Files)).
		Int("rows", ds.RowCount).Msg("数据集已登记")
	return ds
}

// Append 往已有数据集追加一个文件读取结果（投递目录自动摄入用）。
func (r *Registry) Append(id string, res *ingest.FileResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.datasets[id]
	if !ok {
		return fmt.Errorf("数据集 %s 不存在", id)
	}
	for _, f := range ds.Files {
		if f.Fingerprint == res.Fingerprint {
			ds.Diags.DuplicateFiles++
			return nil
		}
	}
	ds.Files = append(ds.Files, FileMeta{Name: res.Name, Fingerprint: res.Fingerprint, Rows: res.RowCount})
	ds.Records = append(ds.Records, res.Records...)
	ds.RowCount += res.RowCount
	ds.Diags.Merge(res.Diags)
	return nil
}

// Get 按 ID 取数据集。
func (r *Registry) Get(id string) (*Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.datasets[id]
	return ds, ok
}

// List 按创建时间倒序返回所有数据集。
func (r *Registry) List() []*Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Dataset, 0, len(r.datasets))
	for _, ds := range r.datasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete 删除数据集，返回是否存在。
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datasets[id]; !ok {
		return false
	}
	delete(r.datasets, id)
	return true
}
