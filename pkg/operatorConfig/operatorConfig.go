package operatorConfig

import (
	"encoding/json"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/task3-labs/task3-go/pkg/config"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"
)

const (
	EnvPrefix = "TASK3_"

	Debug = "debug"
)

const (
	DataLayerTypeMemory = "memory"
	DataLayerTypeBadger = "badger"
	DataLayerTypeGithub = "github"
)

type Chain struct {
	Name            string         `json:"name" yaml:"name"`
	Network         string         `json:"network" yaml:"network"`
	ChainID         config.ChainId `json:"chainId" yaml:"chainId"`
	RpcURL          string         `json:"rpcUrl" yaml:"rpcUrl"`
	ContractAddress string         `json:"contractAddress" yaml:"contractAddress"`
	PrivateKey      string         `json:"privateKey" yaml:"privateKey"`
}

func (c *Chain) Validate() field.ErrorList {
	var allErrors field.ErrorList
	if c.Name == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("name"), "name is required"))
	}
	if c.Network == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("network"), "network is required"))
	}
	if c.ChainID == 0 {
		allErrors = append(allErrors, field.Required(field.NewPath("chainId"), "chainId is required"))
	}
	if !slices.Contains(config.SupportedChainIds, c.ChainID) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), c.ChainID, "unsupported chainId"))
	}
	if c.RpcURL == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("rpcUrl"), "rpcUrl is required"))
	}
	if c.ContractAddress == "" {
		if _, err := config.GetCoreContractsForChainId(c.ChainID); err != nil {
			allErrors = append(allErrors, field.Required(field.NewPath("contractAddress"), "contractAddress is required for chains without a default deployment"))
		}
	}
	return allErrors
}

type GithubDataLayer struct {
	Owner string `json:"owner" yaml:"owner"`
	Repo  string `json:"repo" yaml:"repo"`
	Token string `json:"token" yaml:"token"`
}

type BadgerDataLayer struct {
	Dir string `json:"dir" yaml:"dir"`
}

type DataLayer struct {
	Type   string          `json:"type" yaml:"type"`
	Github GithubDataLayer `json:"github" yaml:"github"`
	Badger BadgerDataLayer `json:"badger" yaml:"badger"`
}

func (d *DataLayer) Validate() field.ErrorList {
	var allErrors field.ErrorList
	switch d.Type {
	case DataLayerTypeMemory:
	case DataLayerTypeBadger:
		if d.Badger.Dir == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("badger", "dir"), "dir is required"))
		}
	case DataLayerTypeGithub:
		if d.Github.Owner == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("github", "owner"), "owner is required"))
		}
		if d.Github.Repo == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("github", "repo"), "repo is required"))
		}
		if d.Github.Token == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("github", "token"), "token is required"))
		}
	case "":
		allErrors = append(allErrors, field.Required(field.NewPath("type"), "type is required"))
	default:
		allErrors = append(allErrors, field.Invalid(field.NewPath("type"), d.Type, "unsupported data layer type"))
	}
	return allErrors
}

type OperatorConfig struct {
	Debug     bool      `json:"debug" yaml:"debug"`
	Chain     Chain     `json:"chain" yaml:"chain"`
	DataLayer DataLayer `json:"dataLayer" yaml:"dataLayer"`
	Simulate  bool      `json:"simulate" yaml:"simulate"`
}

func (oc *OperatorConfig) Validate() error {
	var allErrors field.ErrorList
	if !oc.Simulate {
		if chainErrors := oc.Chain.Validate(); len(chainErrors) > 0 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("chain"), oc.Chain.Name, "invalid chain config"))
		}
		if oc.Chain.PrivateKey == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("chain", "privateKey"), "privateKey is required"))
		}
	}
	if dataErrors := oc.DataLayer.Validate(); len(dataErrors) > 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("dataLayer"), oc.DataLayer.Type, "invalid data layer config"))
	}
	return allErrors.ToAggregate()
}

func NewOperatorConfigFromJsonBytes(data []byte) (*OperatorConfig, error) {
	var c OperatorConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal OperatorConfig from JSON")
	}
	return &c, nil
}

func NewOperatorConfigFromYamlBytes(data []byte) (*OperatorConfig, error) {
	var c OperatorConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal OperatorConfig from YAML")
	}
	return &c, nil
}

func NewOperatorConfig() *OperatorConfig {
	return &OperatorConfig{
		Debug:    viper.GetBool(config.NormalizeFlagName(Debug)),
		Simulate: viper.GetBool("simulate"),
		Chain: Chain{
			Name:            viper.GetString("chain.name"),
			Network:         viper.GetString("chain.network"),
			ChainID:         config.ChainId(viper.GetUint("chain.chainId")),
			RpcURL:          viper.GetString("chain.rpcUrl"),
			ContractAddress: viper.GetString("chain.contractAddress"),
			PrivateKey:      viper.GetString("chain.privateKey"),
		},
		DataLayer: DataLayer{
			Type: viper.GetString("dataLayer.type"),
			Github: GithubDataLayer{
				Owner: viper.GetString("dataLayer.github.owner"),
				Repo:  viper.GetString("dataLayer.github.repo"),
				Token: viper.GetString("dataLayer.github.token"),
			},
			Badger: BadgerDataLayer{
				Dir: viper.GetString("dataLayer.badger.dir"),
			},
		},
	}
}
