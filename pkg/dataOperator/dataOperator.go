package dataOperator

import (
	"context"

	"github.com/task3-labs/task3-go/pkg/types"
)

// UploadTaskResult reports the canonical identifiers assigned by the store
type UploadTaskResult struct {
	TaskUrl string
	TaskId  string
}

// DownloadTaskResult carries task content and metadata retrieved from a task location
type DownloadTaskResult struct {
	Content  []byte
	LocalRef string
	Metadata *types.TaskMetadata
}

// UploadSubmissionResult reports where a worker's deliverable was published
type UploadSubmissionResult struct {
	SubmissionUrl string
}

// IDataOperator is the task storage capability. One implementation exists
// per off-chain store (issue tracker, embedded database, in-process map for
// tests). The store assigns task identifiers and owns the metadata record;
// metadata updates are partial and merged per top-level object, so repeated
// disjoint updates from different flow steps are safe.
type IDataOperator interface {
	// UploadTaskData persists task content at a new location. The returned
	// metadata has dataLayer.url stamped with the assigned location.
	UploadTaskData(ctx context.Context, content []byte, metadata *types.TaskMetadata) (*UploadTaskResult, error)

	// DownloadTaskData retrieves content and metadata from a task location
	DownloadTaskData(ctx context.Context, taskUrl string) (*DownloadTaskResult, error)

	// UploadSubmission publishes a worker's deliverable linked to the task location
	UploadSubmission(ctx context.Context, taskUrl string, submission []byte) (*UploadSubmissionResult, error)

	// GetTaskMetadata returns the current metadata record for a task location
	GetTaskMetadata(ctx context.Context, taskUrl string) (*types.TaskMetadata, error)

	// UpdateTaskMetadata merges a partial update into the metadata record
	UpdateTaskMetadata(ctx context.Context, taskUrl string, update *types.TaskMetadataUpdate) error
}
