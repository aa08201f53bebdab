package config

import (
	"fmt"
	"strings"
	"time"
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumHoodi   ChainId = 560048
	ChainId_LocalAnvil      ChainId = 31337
)

var (
	SupportedChainIds = []ChainId{
		ChainId_EthereumMainnet,
		ChainId_EthereumSepolia,
		ChainId_EthereumHoodi,
		ChainId_LocalAnvil,
	}
)

// CoolingPeriod is the delay between bounty confirmation and the earliest
// allowed payout claim. Fixed across all ledger adapters for behavioral
// parity.
const CoolingPeriod = 604800 * time.Second

// MetadataSchema is the version tag stamped into every task metadata record.
const MetadataSchema = "task3/v1"

// CoreContractAddresses holds the deployed bounty contract addresses for a chain
type CoreContractAddresses struct {
	BountyManager string
}

var (
	coreContracts = map[ChainId]*CoreContractAddresses{
		ChainId_EthereumSepolia: {
			BountyManager: "0x7a9eC1d04904907De0ED7b6839CcdD59c3716AC9",
		},
		ChainId_EthereumHoodi: {
			BountyManager: "0xB99CC53e8db7018f557606C2a5B066527bF96b26",
		},
	}
)

func GetCoreContractsForChainId(chainId ChainId) (*CoreContractAddresses, error) {
	contracts, ok := coreContracts[chainId]
	if !ok {
		return nil, fmt.Errorf("no core contracts found for chain ID %d", chainId)
	}
	return contracts, nil
}

// KebabToSnakeCase converts a kebab-case flag name to its snake_case viper key
func KebabToSnakeCase(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

// NormalizeFlagName normalizes a flag name for viper lookups
func NormalizeFlagName(name string) string {
	return KebabToSnakeCase(strings.ToLower(name))
}
