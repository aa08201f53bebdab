package operatorConfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	validJson = `
{
	"chain": {
		"name": "ethereum",
		"network": "sepolia",
		"chainId": 11155111,
		"rpcUrl": "https://sepolia.infura.io/v3/YOUR_INFURA_PROJECT_ID",
		"privateKey": "0xabc123"
	},
	"dataLayer": {
		"type": "memory"
	}
}`
	invalidJson = `
{
	"chain": {
		"name": 5679,
		"network": "sepolia",
		"chainId": 11155111,
		"rpcUrl": "https://sepolia.infura.io/v3/YOUR_INFURA_PROJECT_ID"
	}
}`

	validYaml = `
---
chain:
  name: ethereum
  network: sepolia
  chainId: 11155111
  rpcUrl: https://sepolia.infura.io/v3/YOUR_INFURA_PROJECT_ID
  privateKey: "0xabc123"
dataLayer:
  type: github
  github:
    owner: task3-labs
    repo: bounties
    token: ghp_example
`
	invalidYaml = `
---
chain:
  name: ethereum
  network: sepolia
  chainId: True
  rpcUrl: https://sepolia.infura.io/v3/YOUR_INFURA_PROJECT_ID
`
)

func Test_OperatorConfig(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		t.Run("Should create a new operator config from a json string", func(t *testing.T) {
			c, err := NewOperatorConfigFromJsonBytes([]byte(validJson))
			assert.Nil(t, err)
			assert.NotNil(t, c)
			assert.Nil(t, c.Validate())
		})
		t.Run("Should fail to create a new operator config from an invalid json string", func(t *testing.T) {
			c, err := NewOperatorConfigFromJsonBytes([]byte(invalidJson))
			assert.NotNil(t, err)
			assert.Nil(t, c)
		})
	})
	t.Run("YAML", func(t *testing.T) {
		t.Run("Should create a new operator config from a yaml string", func(t *testing.T) {
			c, err := NewOperatorConfigFromYamlBytes([]byte(validYaml))
			assert.Nil(t, err)
			assert.NotNil(t, c)
			assert.Nil(t, c.Validate())
		})
		t.Run("Should fail to create a new operator config from an invalid yaml string", func(t *testing.T) {
			c, err := NewOperatorConfigFromYamlBytes([]byte(invalidYaml))
			assert.NotNil(t, err)
			assert.Nil(t, c)
		})
	})
	t.Run("Validate", func(t *testing.T) {
		t.Run("Should reject a github data layer missing its token", func(t *testing.T) {
			c, err := NewOperatorConfigFromYamlBytes([]byte(validYaml))
			assert.Nil(t, err)
			c.DataLayer.Github.Token = ""
			assert.NotNil(t, c.Validate())
		})
		t.Run("Should reject an unsupported chainId", func(t *testing.T) {
			c, err := NewOperatorConfigFromYamlBytes([]byte(validYaml))
			assert.Nil(t, err)
			c.Chain.ChainID = 999
			assert.NotNil(t, c.Validate())
		})
		t.Run("Should skip chain validation when simulating", func(t *testing.T) {
			c := &OperatorConfig{
				Simulate:  true,
				DataLayer: DataLayer{Type: DataLayerTypeMemory},
			}
			assert.Nil(t, c.Validate())
		})
	})
}
