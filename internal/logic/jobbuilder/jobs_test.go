package jobbuilder

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-decoder/internal/decode"
	"sol-decoder/internal/types"
)

func TestBuildInstructionJobs(t *testing.T) {
	program := types.Pubkey{1}
	update := &decode.InstructionUpdate{Program: program, IxIndex: 2, InnerIndex: 1, StackHeight: 2}
	signature := make([]byte, 64)
	signature[0] = 0xAB
	blockHash := types.Hash{9}

	outcomes := []decode.InstructionOutcome{
		{
			Program: program,
			Status:  decode.StatusDecoded,
			Instruction: &decode.ParsedInstruction{
				Program: program,
				Variant: "transfer",
				Args:    map[string]uint64{"amount": 42},
			},
			Update: update,
		},
		{
			Program: program,
			Status:  decode.StatusFailed,
			Err:     errors.New("bad data"),
			Update:  update,
		},
	}

	jobs := BuildInstructionJobs("ix-topic", 100, blockHash, signature, outcomes)
	require.Len(t, jobs, 2)

	assert.Equal(t, "ix-topic", jobs[0].Topic)
	assert.Equal(t, program[:], jobs[0].Key)

	var record InstructionRecord
	require.NoError(t, json.Unmarshal(jobs[0].Value, &record))
	assert.Equal(t, uint64(100), record.Slot)
	assert.Equal(t, "transfer", record.Variant)
	assert.Equal(t, uint16(2), record.IxIndex)
	assert.Equal(t, uint16(1), record.InnerIndex)
	assert.NotEmpty(t, record.TxHash)
	assert.Equal(t, blockHash.String(), record.BlockHash)
	assert.Empty(t, record.Error)

	require.NoError(t, json.Unmarshal(jobs[1].Value, &record))
	assert.Empty(t, record.Variant)
	assert.Equal(t, "bad data", record.Error)
}

func TestBuildAccountJobs(t *testing.T) {
	owner := types.Pubkey{2}
	pubkey := types.Pubkey{3}
	update := &decode.AccountUpdate{Pubkey: pubkey, Owner: owner, Slot: 200, Lamports: 5000}

	jobs := BuildAccountJobs("acc-topic", []decode.AccountOutcome{{
		Program: owner,
		Status:  decode.StatusDecoded,
		Account: &decode.ParsedAccount{Program: owner, Variant: "Mint"},
		Update:  update,
	}})
	require.Len(t, jobs, 1)
	assert.Equal(t, pubkey[:], jobs[0].Key)

	var record AccountRecord
	require.NoError(t, json.Unmarshal(jobs[0].Value, &record))
	assert.Equal(t, uint64(200), record.Slot)
	assert.Equal(t, "Mint", record.Variant)
	assert.Equal(t, pubkey.String(), record.Pubkey)
	assert.Equal(t, owner.String(), record.Owner)
	assert.Equal(t, uint64(5000), record.Lamports)
}
