package ethereum

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// eventRegistryABI is the ABI of the ledger contract recording events
const eventRegistryABI = `[
	{"type":"function","name":"createEvent","stateMutability":"nonpayable",
	 "inputs":[{"name":"eventRef","type":"string"},{"name":"metadataURI","type":"string"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"maxCapacity","type":"uint256"},{"name":"ticketPrice","type":"uint256"}],
	 "outputs":[{"name":"eventId","type":"uint256"}]},
	{"type":"function","name":"getEvent","stateMutability":"view",
	 "inputs":[{"name":"eventId","type":"uint256"}],
	 "outputs":[{"name":"creator","type":"address"},{"name":"eventRef","type":"string"},{"name":"metadataURI","type":"string"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"maxCapacity","type":"uint256"},{"name":"ticketPrice","type":"uint256"},{"name":"active","type":"bool"}]},
	{"type":"function","name":"eventCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"EventCreated","anonymous":false,
	 "inputs":[{"name":"eventId","type":"uint256","indexed":true},{"name":"creator","type":"address","indexed":true},{"name":"eventRef","type":"string","indexed":false}]}
]`

const (
	methodCreateEvent  = "createEvent"
	methodGetEvent     = "getEvent"
	methodEventCount   = "eventCount"
	eventEventCreated  = "EventCreated"
	eventCreatedTopics = 3
)

// parseRegistryABI parses the ledger contract ABI
func parseRegistryABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(eventRegistryABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}

// onChainEvent is the tuple returned by getEvent
type onChainEvent struct {
	Creator     common.Address
	EventRef    string
	MetadataURI string
	StartTime   *big.Int
	EndTime     *big.Int
	MaxCapacity *big.Int
	TicketPrice *big.Int
	Active      bool
}

// unpackGetEvent decodes the getEvent return data
func unpackGetEvent(contractABI abi.ABI, data []byte) (*onChainEvent, error) {
	values, err := contractABI.Unpack(methodGetEvent, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}
	if len(values) != 8 {
		return nil, fmt.Errorf("unexpected getEvent output length %d", len(values))
	}

	var out onChainEvent
	var ok bool
	if out.Creator, ok = values[0].(common.Address); !ok {
		return nil, fmt.Errorf("unexpected creator type %T", values[0])
	}
	if out.EventRef, ok = values[1].(string); !ok {
		return nil, fmt.Errorf("unexpected eventRef type %T", values[1])
	}
	if out.MetadataURI, ok = values[2].(string); !ok {
		return nil, fmt.Errorf("unexpected metadataURI type %T", values[2])
	}
	ints := make([]*big.Int, 4)
	for i := range ints {
		if ints[i], ok = values[3+i].(*big.Int); !ok {
			return nil, fmt.Errorf("unexpected uint256 type %T", values[3+i])
		}
	}
	out.StartTime, out.EndTime, out.MaxCapacity, out.TicketPrice = ints[0], ints[1], ints[2], ints[3]
	if out.Active, ok = values[7].(bool); !ok {
		return nil, fmt.Errorf("unexpected active type %T", values[7])
	}

	return &out, nil
}

// parseEventCreated finds the EventCreated log emitted by the contract
func parseEventCreated(contractABI abi.ABI, contract common.Address, logs []*types.Log) (eventID *big.Int, eventRef string, found bool) {
	event := contractABI.Events[eventEventCreated]
	for _, l := range logs {
		if l == nil || l.Address != contract || len(l.Topics) != eventCreatedTopics || l.Topics[0] != event.ID {
			continue
		}

		values, err := event.Inputs.NonIndexed().Unpack(l.Data)
		if err != nil || len(values) != 1 {
			continue
		}
		ref, ok := values[0].(string)
		if !ok {
			continue
		}

		return new(big.Int).SetBytes(l.Topics[1].Bytes()), ref, true
	}
	return nil, "", false
}
