package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMetadata() *TaskMetadata {
	return &TaskMetadata{
		Schema:   "task3/v1",
		TaskId:   "task-1",
		TaskHash: "0xabc",
		Chain: ChainMetadata{
			Name:            "ethereum",
			Network:         "sepolia",
			ContractAddress: "0xcontract",
		},
		Workflow: WorkflowMetadata{
			Name:    "bounty",
			Version: "1.0.0",
			Adapter: "evm",
		},
		Bounty: BountyMetadata{
			Asset:  "ETH",
			Amount: "100",
		},
		DataLayer: DataLayerMetadata{
			Type: "github",
			Url:  "https://github.com/org/repo/issues/1",
		},
	}
}

func Test_Apply_MergesSectionsIndependently(t *testing.T) {
	md := newTestMetadata()

	update := &TaskMetadataUpdate{
		Chain: &ChainMetadataUpdate{
			BountyId: StrPtr("42"),
		},
	}
	update.Apply(md)

	// Only chain.bountyId changes; every sibling field is preserved
	assert.Equal(t, "42", md.Chain.BountyId)
	assert.Equal(t, "ethereum", md.Chain.Name)
	assert.Equal(t, "sepolia", md.Chain.Network)
	assert.Equal(t, "0xcontract", md.Chain.ContractAddress)
	assert.Equal(t, "ETH", md.Bounty.Asset)
	assert.Equal(t, "100", md.Bounty.Amount)
	assert.Equal(t, "github", md.DataLayer.Type)
	assert.Equal(t, "https://github.com/org/repo/issues/1", md.DataLayer.Url)
}

func Test_Apply_DisjointUpdatesDoNotClobber(t *testing.T) {
	md := newTestMetadata()

	(&TaskMetadataUpdate{
		Chain: &ChainMetadataUpdate{BountyId: StrPtr("7")},
	}).Apply(md)

	(&TaskMetadataUpdate{
		DataLayer: &DataLayerMetadataUpdate{SubmissionUrl: StrPtr("https://github.com/org/repo/issues/1#issuecomment-9")},
	}).Apply(md)

	(&TaskMetadataUpdate{
		Bounty: &BountyMetadataUpdate{
			ConfirmedAt:  Int64Ptr(1700000000),
			CoolingUntil: Int64Ptr(1700604800),
		},
	}).Apply(md)

	assert.Equal(t, "7", md.Chain.BountyId)
	assert.Equal(t, "https://github.com/org/repo/issues/1#issuecomment-9", md.DataLayer.SubmissionUrl)
	assert.Equal(t, int64(1700000000), md.Bounty.ConfirmedAt)
	assert.Equal(t, int64(1700604800), md.Bounty.CoolingUntil)
	assert.Equal(t, "ETH", md.Bounty.Asset)
	assert.Equal(t, "github", md.DataLayer.Type)
}

func Test_Apply_BountyIdImmutableOnceSet(t *testing.T) {
	md := newTestMetadata()

	(&TaskMetadataUpdate{Chain: &ChainMetadataUpdate{BountyId: StrPtr("1")}}).Apply(md)
	(&TaskMetadataUpdate{Chain: &ChainMetadataUpdate{BountyId: StrPtr("2")}}).Apply(md)

	assert.Equal(t, "1", md.Chain.BountyId)
}

func Test_Apply_NilSafe(t *testing.T) {
	var u *TaskMetadataUpdate
	u.Apply(nil)

	md := newTestMetadata()
	(&TaskMetadataUpdate{}).Apply(md)
	assert.Equal(t, "task-1", md.TaskId)
}

func Test_HashTaskContent(t *testing.T) {
	h1 := HashTaskContent([]byte(`{"title":"X"}`))
	h2 := HashTaskContent([]byte(`{"title":"X"}`))
	h3 := HashTaskContent([]byte(`{"title":"Y"}`))

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 66) // 0x + 64 hex chars
	assert.Equal(t, "0x", h1[:2])
}
