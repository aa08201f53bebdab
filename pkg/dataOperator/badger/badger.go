package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	badgerv3 "github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/task3-labs/task3-go/pkg/config"
	"github.com/task3-labs/task3-go/pkg/dataOperator"
	"github.com/task3-labs/task3-go/pkg/types"
)

// Key prefixes for different data types
const (
	prefixContent    = "content:%s"       // taskId
	prefixMetadata   = "metadata:%s"      // taskId
	prefixSubmission = "submission:%s:%d" // taskId:seq
	prefixSubCount   = "subcount:%s"      // taskId
)

const taskUrlScheme = "badger://tasks/"

// BadgerDataOperatorConfig configures the BadgerDB-backed task store
type BadgerDataOperatorConfig struct {
	Dir      string
	InMemory bool
}

// BadgerDataOperator implements IDataOperator on top of BadgerDB. Task
// locations use the badger://tasks/<taskId> scheme.
type BadgerDataOperator struct {
	db       *badgerv3.DB
	mu       sync.RWMutex
	closed   bool
	closeCh  chan struct{}
	gcTicker *time.Ticker
}

// NewBadgerDataOperator opens a BadgerDB-backed task store
func NewBadgerDataOperator(cfg *BadgerDataOperatorConfig) (*BadgerDataOperator, error) {
	if cfg == nil {
		return nil, errors.New("badger config is nil")
	}

	opts := badgerv3.DefaultOptions(cfg.Dir)
	opts.Logger = nil // Disable BadgerDB's default logging
	if cfg.InMemory {
		opts.InMemory = true
	}

	db, err := badgerv3.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &BadgerDataOperator{
		db:      db,
		closeCh: make(chan struct{}),
	}

	s.gcTicker = time.NewTicker(5 * time.Minute)
	go s.runGC()

	return s, nil
}

// runGC runs periodic value log garbage collection
func (s *BadgerDataOperator) runGC() {
	for {
		select {
		case <-s.gcTicker.C:
			s.mu.RLock()
			if s.closed {
				s.mu.RUnlock()
				return
			}
			s.mu.RUnlock()

			_ = s.db.RunValueLogGC(0.5)
		case <-s.closeCh:
			return
		}
	}
}

func (s *BadgerDataOperator) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return dataOperator.ErrStoreClosed
	}
	return nil
}

// taskIdFromUrl extracts the task id from a badger:// task location
func taskIdFromUrl(taskUrl string) (string, error) {
	if !strings.HasPrefix(taskUrl, taskUrlScheme) {
		return "", dataOperator.ErrNotFound
	}
	taskId := strings.TrimPrefix(taskUrl, taskUrlScheme)
	if taskId == "" {
		return "", dataOperator.ErrNotFound
	}
	return taskId, nil
}

// UploadTaskData persists task content and metadata at a new location
func (s *BadgerDataOperator) UploadTaskData(ctx context.Context, content []byte, metadata *types.TaskMetadata) (*dataOperator.UploadTaskResult, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	taskId := uuid.New().String()
	taskUrl := taskUrlScheme + taskId

	md := types.TaskMetadata{}
	if metadata != nil {
		md = *metadata
	}
	if md.Schema == "" {
		md.Schema = config.MetadataSchema
	}
	md.TaskId = taskId
	md.DataLayer.Type = "badger"
	md.DataLayer.Url = taskUrl

	mdBytes, err := json.Marshal(&md)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task metadata: %w", err)
	}

	err = s.db.Update(func(txn *badgerv3.Txn) error {
		if err := txn.Set([]byte(fmt.Sprintf(prefixContent, taskId)), content); err != nil {
			return err
		}
		return txn.Set([]byte(fmt.Sprintf(prefixMetadata, taskId)), mdBytes)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store task data: %w", err)
	}

	return &dataOperator.UploadTaskResult{
		TaskUrl: taskUrl,
		TaskId:  taskId,
	}, nil
}

// DownloadTaskData retrieves content and metadata for a task location
func (s *BadgerDataOperator) DownloadTaskData(ctx context.Context, taskUrl string) (*dataOperator.DownloadTaskResult, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	taskId, err := taskIdFromUrl(taskUrl)
	if err != nil {
		return nil, err
	}

	var content []byte
	var md types.TaskMetadata

	err = s.db.View(func(txn *badgerv3.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf(prefixContent, taskId)))
		if err != nil {
			return err
		}
		content, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err = txn.Get([]byte(fmt.Sprintf(prefixMetadata, taskId)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &md)
		})
	})
	if err != nil {
		if errors.Is(err, badgerv3.ErrKeyNotFound) {
			return nil, dataOperator.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load task data: %w", err)
	}

	return &dataOperator.DownloadTaskResult{
		Content:  content,
		LocalRef: taskUrl,
		Metadata: &md,
	}, nil
}

// UploadSubmission appends a deliverable under the task location
func (s *BadgerDataOperator) UploadSubmission(ctx context.Context, taskUrl string, submission []byte) (*dataOperator.UploadSubmissionResult, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	taskId, err := taskIdFromUrl(taskUrl)
	if err != nil {
		return nil, err
	}

	var seq uint64
	err = s.db.Update(func(txn *badgerv3.Txn) error {
		// The task must exist before a submission can be attached
		if _, err := txn.Get([]byte(fmt.Sprintf(prefixMetadata, taskId))); err != nil {
			return err
		}

		countKey := []byte(fmt.Sprintf(prefixSubCount, taskId))
		item, err := txn.Get(countKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &seq)
			})
			if err != nil {
				return err
			}
		} else if !errors.Is(err, badgerv3.ErrKeyNotFound) {
			return err
		}
		seq++

		countBytes, err := json.Marshal(seq)
		if err != nil {
			return err
		}
		if err := txn.Set(countKey, countBytes); err != nil {
			return err
		}
		return txn.Set([]byte(fmt.Sprintf(prefixSubmission, taskId, seq)), submission)
	})
	if err != nil {
		if errors.Is(err, badgerv3.ErrKeyNotFound) {
			return nil, dataOperator.ErrNotFound
		}
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	return &dataOperator.UploadSubmissionResult{
		SubmissionUrl: fmt.Sprintf("%s/submissions/%d", taskUrl, seq),
	}, nil
}

// GetTaskMetadata returns the metadata record for a task location
func (s *BadgerDataOperator) GetTaskMetadata(ctx context.Context, taskUrl string) (*types.TaskMetadata, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	taskId, err := taskIdFromUrl(taskUrl)
	if err != nil {
		return nil, err
	}

	var md types.TaskMetadata
	err = s.db.View(func(txn *badgerv3.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf(prefixMetadata, taskId)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &md)
		})
	})
	if err != nil {
		if errors.Is(err, badgerv3.ErrKeyNotFound) {
			return nil, dataOperator.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load task metadata: %w", err)
	}

	return &md, nil
}

// UpdateTaskMetadata merges a partial update into the stored metadata record
func (s *BadgerDataOperator) UpdateTaskMetadata(ctx context.Context, taskUrl string, update *types.TaskMetadataUpdate) error {
	if err := s.checkClosed(); err != nil {
		return err
	}

	taskId, err := taskIdFromUrl(taskUrl)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badgerv3.Txn) error {
		key := []byte(fmt.Sprintf(prefixMetadata, taskId))
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		var md types.TaskMetadata
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &md)
		})
		if err != nil {
			return err
		}

		update.Apply(&md)

		mdBytes, err := json.Marshal(&md)
		if err != nil {
			return err
		}
		return txn.Set(key, mdBytes)
	})
	if err != nil {
		if errors.Is(err, badgerv3.ErrKeyNotFound) {
			return dataOperator.ErrNotFound
		}
		return fmt.Errorf("failed to update task metadata: %w", err)
	}

	return nil
}

// Close shuts down the store and the underlying database
func (s *BadgerDataOperator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return dataOperator.ErrStoreClosed
	}
	s.closed = true

	s.gcTicker.Stop()
	close(s.closeCh)

	return s.db.Close()
}
