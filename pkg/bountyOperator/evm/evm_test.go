package evm

import (
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/task3-labs/task3-go/pkg/bountyOperator"
	"github.com/task3-labs/task3-go/pkg/types"
)

func Test_BountyManagerABI_Parses(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(bountyManagerABI))
	require.NoError(t, err)

	for _, method := range []string{
		"createBounty", "acceptBounty", "submitBounty", "confirmBounty",
		"claimPayout", "cancelBounty", "getBounty", "getBountyIdByTaskHash",
		"listBountyIds", "listBountyIdsBySponsor", "listBountyIdsByWorker",
	} {
		_, ok := parsed.Methods[method]
		assert.True(t, ok, "method %s missing", method)
	}
	_, ok := parsed.Events["BountyCreated"]
	assert.True(t, ok)
}

func Test_StatusFromUint8(t *testing.T) {
	assert.Equal(t, types.BountyStatusOpen, statusFromUint8(0))
	assert.Equal(t, types.BountyStatusAccepted, statusFromUint8(1))
	assert.Equal(t, types.BountyStatusSubmitted, statusFromUint8(2))
	assert.Equal(t, types.BountyStatusConfirmed, statusFromUint8(3))
	assert.Equal(t, types.BountyStatusClaimed, statusFromUint8(4))
	assert.Equal(t, types.BountyStatusCancelled, statusFromUint8(5))
	assert.Equal(t, types.BountyStatus("Unknown(9)"), statusFromUint8(9))
}

func Test_HashToBytes32(t *testing.T) {
	h := types.HashTaskContent([]byte("x"))
	out, err := hashToBytes32(h)
	require.NoError(t, err)
	assert.Equal(t, h, "0x"+common.Bytes2Hex(out[:]))

	_, err = hashToBytes32("0x1234")
	assert.Error(t, err)
	_, err = hashToBytes32("")
	assert.Error(t, err)
}

func Test_UnixToTimePtr(t *testing.T) {
	assert.Nil(t, unixToTimePtr(0))

	ts := unixToTimePtr(1700000000)
	require.NotNil(t, ts)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *ts)
}

func Test_ParseBountyId(t *testing.T) {
	id, err := parseBountyId("42")
	require.NoError(t, err)
	assert.Equal(t, "42", id.String())

	_, err = parseBountyId("not-a-number")
	assert.ErrorIs(t, err, bountyOperator.ErrNotFound)
}

func Test_MapContractError(t *testing.T) {
	assert.ErrorIs(t, mapContractError("getBounty", assert.AnError), bountyOperator.ErrTransient)

	err := mapContractError("acceptBounty", errWithMessage("execution reverted: InvalidState()"))
	assert.ErrorIs(t, err, bountyOperator.ErrInvalidState)

	err = mapContractError("claimPayout", errWithMessage("execution reverted: CoolingPeriodActive()"))
	assert.ErrorIs(t, err, bountyOperator.ErrCoolingPeriodActive)

	err = mapContractError("getBounty", errWithMessage("execution reverted: BountyNotFound()"))
	assert.ErrorIs(t, err, bountyOperator.ErrNotFound)
}

type errWithMessage string

func (e errWithMessage) Error() string {
	return string(e)
}
