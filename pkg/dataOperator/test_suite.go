package dataOperator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/task3-labs/task3-go/pkg/types"
)

// TestSuite defines compliance tests every task store implementation must pass
type TestSuite struct {
	NewStore func(t *testing.T) IDataOperator
}

// Run executes all task store compliance tests
func (s *TestSuite) Run(t *testing.T) {
	t.Run("UploadDownload", s.testUploadDownload)
	t.Run("MetadataMerge", s.testMetadataMerge)
	t.Run("Submission", s.testSubmission)
	t.Run("MissingLocation", s.testMissingLocation)
}

func seedMetadata() *types.TaskMetadata {
	return &types.TaskMetadata{
		Schema:   "task3/v1",
		TaskHash: "0xseedhash",
		Chain: types.ChainMetadata{
			Name:            "ethereum",
			Network:         "sepolia",
			ContractAddress: "0xcontract",
		},
		Workflow: types.WorkflowMetadata{
			Name:    "bounty",
			Version: "1.0.0",
			Adapter: "evm",
		},
		Bounty: types.BountyMetadata{
			Asset:  "ETH",
			Amount: "100",
		},
	}
}

func (s *TestSuite) testUploadDownload(t *testing.T) {
	store := s.NewStore(t)
	ctx := context.Background()
	content := []byte("# Task: build the thing\n\nDetails here.")

	uploaded, err := store.UploadTaskData(ctx, content, seedMetadata())
	require.NoError(t, err)
	require.NotEmpty(t, uploaded.TaskUrl)
	require.NotEmpty(t, uploaded.TaskId)

	downloaded, err := store.DownloadTaskData(ctx, uploaded.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, content, downloaded.Content)
	require.NotNil(t, downloaded.Metadata)
	assert.Equal(t, uploaded.TaskId, downloaded.Metadata.TaskId)
	assert.Equal(t, uploaded.TaskUrl, downloaded.Metadata.DataLayer.Url)
	assert.Equal(t, "0xseedhash", downloaded.Metadata.TaskHash)

	md, err := store.GetTaskMetadata(ctx, uploaded.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", md.Chain.Name)
	assert.Equal(t, "100", md.Bounty.Amount)
}

func (s *TestSuite) testMetadataMerge(t *testing.T) {
	store := s.NewStore(t)
	ctx := context.Background()

	uploaded, err := store.UploadTaskData(ctx, []byte("content"), seedMetadata())
	require.NoError(t, err)

	err = store.UpdateTaskMetadata(ctx, uploaded.TaskUrl, &types.TaskMetadataUpdate{
		Chain: &types.ChainMetadataUpdate{BountyId: types.StrPtr("bounty-9")},
	})
	require.NoError(t, err)

	err = store.UpdateTaskMetadata(ctx, uploaded.TaskUrl, &types.TaskMetadataUpdate{
		Bounty: &types.BountyMetadataUpdate{
			ConfirmedAt:  types.Int64Ptr(1700000000),
			CoolingUntil: types.Int64Ptr(1700604800),
		},
	})
	require.NoError(t, err)

	md, err := store.GetTaskMetadata(ctx, uploaded.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, "bounty-9", md.Chain.BountyId)
	assert.Equal(t, "ethereum", md.Chain.Name)
	assert.Equal(t, "0xcontract", md.Chain.ContractAddress)
	assert.Equal(t, int64(1700000000), md.Bounty.ConfirmedAt)
	assert.Equal(t, int64(1700604800), md.Bounty.CoolingUntil)
	assert.Equal(t, "ETH", md.Bounty.Asset)
}

func (s *TestSuite) testSubmission(t *testing.T) {
	store := s.NewStore(t)
	ctx := context.Background()

	uploaded, err := store.UploadTaskData(ctx, []byte("content"), seedMetadata())
	require.NoError(t, err)

	result, err := store.UploadSubmission(ctx, uploaded.TaskUrl, []byte(`{"prUrl":"https://x/pull/1"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, result.SubmissionUrl)
}

func (s *TestSuite) testMissingLocation(t *testing.T) {
	store := s.NewStore(t)
	ctx := context.Background()

	_, err := store.DownloadTaskData(ctx, "missing://nowhere/0")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetTaskMetadata(ctx, "missing://nowhere/0")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.UpdateTaskMetadata(ctx, "missing://nowhere/0", &types.TaskMetadataUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.UploadSubmission(ctx, "missing://nowhere/0", []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}
