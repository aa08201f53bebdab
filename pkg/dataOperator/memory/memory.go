package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/task3-labs/task3-go/pkg/config"
	"github.com/task3-labs/task3-go/pkg/dataOperator"
	"github.com/task3-labs/task3-go/pkg/types"
)

type taskRecord struct {
	content     []byte
	metadata    types.TaskMetadata
	submissions [][]byte
}

// InMemoryDataOperator implements IDataOperator with process-local state.
// Task locations use the mem:// scheme.
type InMemoryDataOperator struct {
	mu    sync.RWMutex
	tasks map[string]*taskRecord
}

// NewInMemoryDataOperator creates an empty in-memory task store
func NewInMemoryDataOperator() *InMemoryDataOperator {
	return &InMemoryDataOperator{
		tasks: make(map[string]*taskRecord),
	}
}

// UploadTaskData persists task content at a new mem:// location
func (s *InMemoryDataOperator) UploadTaskData(ctx context.Context, content []byte, metadata *types.TaskMetadata) (*dataOperator.UploadTaskResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taskId := uuid.New().String()
	taskUrl := fmt.Sprintf("mem://tasks/%s", taskId)

	md := types.TaskMetadata{}
	if metadata != nil {
		md = *metadata
	}
	if md.Schema == "" {
		md.Schema = config.MetadataSchema
	}
	md.TaskId = taskId
	md.DataLayer.Type = "memory"
	md.DataLayer.Url = taskUrl

	s.tasks[taskUrl] = &taskRecord{
		content:  append([]byte(nil), content...),
		metadata: md,
	}

	return &dataOperator.UploadTaskResult{
		TaskUrl: taskUrl,
		TaskId:  taskId,
	}, nil
}

// DownloadTaskData retrieves content and metadata for a task location
func (s *InMemoryDataOperator) DownloadTaskData(ctx context.Context, taskUrl string) (*dataOperator.DownloadTaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.tasks[taskUrl]
	if !exists {
		return nil, dataOperator.ErrNotFound
	}

	md := record.metadata
	return &dataOperator.DownloadTaskResult{
		Content:  append([]byte(nil), record.content...),
		LocalRef: taskUrl,
		Metadata: &md,
	}, nil
}

// UploadSubmission records a deliverable against the task location
func (s *InMemoryDataOperator) UploadSubmission(ctx context.Context, taskUrl string, submission []byte) (*dataOperator.UploadSubmissionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.tasks[taskUrl]
	if !exists {
		return nil, dataOperator.ErrNotFound
	}

	record.submissions = append(record.submissions, append([]byte(nil), submission...))
	submissionUrl := fmt.Sprintf("%s/submissions/%d", taskUrl, len(record.submissions))

	return &dataOperator.UploadSubmissionResult{SubmissionUrl: submissionUrl}, nil
}

// GetTaskMetadata returns a copy of the metadata record
func (s *InMemoryDataOperator) GetTaskMetadata(ctx context.Context, taskUrl string) (*types.TaskMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.tasks[taskUrl]
	if !exists {
		return nil, dataOperator.ErrNotFound
	}

	md := record.metadata
	return &md, nil
}

// UpdateTaskMetadata merges a partial update into the stored record
func (s *InMemoryDataOperator) UpdateTaskMetadata(ctx context.Context, taskUrl string, update *types.TaskMetadataUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.tasks[taskUrl]
	if !exists {
		return dataOperator.ErrNotFound
	}

	update.Apply(&record.metadata)
	return nil
}
