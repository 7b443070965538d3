package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	snapshotFile = "ai_news.json"
	digestFile   = "weekly_summary.json"
	policiesFile = "chip_policies.json"
)

// FileStore 以 JSON 文件保存各记录；写入先落临时文件再 rename，读者不会看到写了一半的文件
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) SaveSnapshot(_ context.Context, snap *Snapshot) error {
	return s.write(snapshotFile, snap)
}

func (s *FileStore) LoadSnapshot(_ context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := s.read(snapshotFile, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *FileStore) SaveDigest(_ context.Context, d *Digest) error {
	return s.write(digestFile, d)
}

func (s *FileStore) LoadDigest(_ context.Context) (*Digest, error) {
	var d Digest
	if err := s.read(digestFile, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *FileStore) SavePolicies(_ context.Context, policies []ChipPolicy) error {
	return s.write(policiesFile, policies)
}

func (s *FileStore) ListPolicies(_ context.Context) ([]ChipPolicy, error) {
	var list []ChipPolicy
	if err := s.read(policiesFile, &list); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) write(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONAtomic(filepath.Join(s.dir, name), v)
}

func (s *FileStore) read(name string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// writeJSONAtomic 写临时文件 -> fsync -> rename；任一步失败都不会触碰原文件
func writeJSONAtomic(path string, v any) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err = enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
