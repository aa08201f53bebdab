package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/task3-labs/task3-go/pkg/dataOperator"
	"github.com/task3-labs/task3-go/pkg/types"
)

func newTestStore(t *testing.T) *BadgerDataOperator {
	store, err := NewBadgerDataOperator(&BadgerDataOperatorConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func Test_BadgerDataOperator_Compliance(t *testing.T) {
	suite := &dataOperator.TestSuite{
		NewStore: func(t *testing.T) dataOperator.IDataOperator {
			return newTestStore(t)
		},
	}
	suite.Run(t)
}

func Test_BadgerDataOperator_SubmissionSequence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	uploaded, err := store.UploadTaskData(ctx, []byte("content"), &types.TaskMetadata{TaskHash: "0xh"})
	require.NoError(t, err)

	first, err := store.UploadSubmission(ctx, uploaded.TaskUrl, []byte("one"))
	require.NoError(t, err)
	second, err := store.UploadSubmission(ctx, uploaded.TaskUrl, []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, uploaded.TaskUrl+"/submissions/1", first.SubmissionUrl)
	assert.Equal(t, uploaded.TaskUrl+"/submissions/2", second.SubmissionUrl)
}

func Test_BadgerDataOperator_Lifecycle(t *testing.T) {
	store, err := NewBadgerDataOperator(&BadgerDataOperatorConfig{InMemory: true})
	require.NoError(t, err)

	ctx := context.Background()
	uploaded, err := store.UploadTaskData(ctx, []byte("content"), nil)
	require.NoError(t, err)

	require.NoError(t, store.Close())

	_, err = store.GetTaskMetadata(ctx, uploaded.TaskUrl)
	assert.ErrorIs(t, err, dataOperator.ErrStoreClosed)

	_, err = store.UploadTaskData(ctx, []byte("more"), nil)
	assert.ErrorIs(t, err, dataOperator.ErrStoreClosed)

	err = store.Close()
	assert.ErrorIs(t, err, dataOperator.ErrStoreClosed)
}
