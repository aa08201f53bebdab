package types

// TaskMetadata is the shared contract object between the task store and the
// bounty ledger. The store owns it; the ledger never reads it directly. It
// travels as a value between the two systems and is reconciled by the engine.
type TaskMetadata struct {
	Schema    string            `json:"schema"`
	TaskId    string            `json:"taskId"`
	TaskHash  string            `json:"taskHash"`
	Chain     ChainMetadata     `json:"chain"`
	Workflow  WorkflowMetadata  `json:"workflow"`
	Bounty    BountyMetadata    `json:"bounty"`
	DataLayer DataLayerMetadata `json:"dataLayer"`
}

// ChainMetadata points from off-chain metadata to the on-chain record.
// BountyId starts empty and is back-filled once ledger creation succeeds.
type ChainMetadata struct {
	Name            string `json:"name"`
	Network         string `json:"network"`
	BountyId        string `json:"bountyId"`
	ContractAddress string `json:"contractAddress"`
}

// WorkflowMetadata is descriptive provenance only
type WorkflowMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Adapter string `json:"adapter"`
}

// BountyMetadata caches ledger-derived values for fast off-chain reads.
// ConfirmedAt and CoolingUntil are unix seconds, refreshed by confirm.
type BountyMetadata struct {
	Asset        string `json:"asset"`
	Amount       string `json:"amount"`
	ConfirmedAt  int64  `json:"confirmedAt,omitempty"`
	CoolingUntil int64  `json:"coolingUntil,omitempty"`
}

// DataLayerMetadata locates the task content and, once available, the submission
type DataLayerMetadata struct {
	Type          string `json:"type"`
	Url           string `json:"url"`
	SubmissionUrl string `json:"submissionUrl,omitempty"`
}

// TaskMetadataUpdate is a partial metadata update. The chain, workflow,
// bounty and dataLayer sections merge independently; within a section only
// the non-nil fields are applied, so disjoint updates written by different
// flow steps never clobber each other.
type TaskMetadataUpdate struct {
	Schema    *string                  `json:"schema,omitempty"`
	Chain     *ChainMetadataUpdate     `json:"chain,omitempty"`
	Workflow  *WorkflowMetadataUpdate  `json:"workflow,omitempty"`
	Bounty    *BountyMetadataUpdate    `json:"bounty,omitempty"`
	DataLayer *DataLayerMetadataUpdate `json:"dataLayer,omitempty"`
}

type ChainMetadataUpdate struct {
	Name            *string `json:"name,omitempty"`
	Network         *string `json:"network,omitempty"`
	BountyId        *string `json:"bountyId,omitempty"`
	ContractAddress *string `json:"contractAddress,omitempty"`
}

type WorkflowMetadataUpdate struct {
	Name    *string `json:"name,omitempty"`
	Version *string `json:"version,omitempty"`
	Adapter *string `json:"adapter,omitempty"`
}

type BountyMetadataUpdate struct {
	Asset        *string `json:"asset,omitempty"`
	Amount       *string `json:"amount,omitempty"`
	ConfirmedAt  *int64  `json:"confirmedAt,omitempty"`
	CoolingUntil *int64  `json:"coolingUntil,omitempty"`
}

type DataLayerMetadataUpdate struct {
	Type          *string `json:"type,omitempty"`
	Url           *string `json:"url,omitempty"`
	SubmissionUrl *string `json:"submissionUrl,omitempty"`
}

// Apply merges the update into md field-by-field. chain.bountyId is
// immutable once set; attempts to overwrite it with a different value are
// ignored rather than failed, since a re-applied update after a retry
// carries the same value.
func (u *TaskMetadataUpdate) Apply(md *TaskMetadata) {
	if u == nil || md == nil {
		return
	}

	if u.Schema != nil {
		md.Schema = *u.Schema
	}

	if u.Chain != nil {
		if u.Chain.Name != nil {
			md.Chain.Name = *u.Chain.Name
		}
		if u.Chain.Network != nil {
			md.Chain.Network = *u.Chain.Network
		}
		if u.Chain.BountyId != nil && md.Chain.BountyId == "" {
			md.Chain.BountyId = *u.Chain.BountyId
		}
		if u.Chain.ContractAddress != nil {
			md.Chain.ContractAddress = *u.Chain.ContractAddress
		}
	}

	if u.Workflow != nil {
		if u.Workflow.Name != nil {
			md.Workflow.Name = *u.Workflow.Name
		}
		if u.Workflow.Version != nil {
			md.Workflow.Version = *u.Workflow.Version
		}
		if u.Workflow.Adapter != nil {
			md.Workflow.Adapter = *u.Workflow.Adapter
		}
	}

	if u.Bounty != nil {
		if u.Bounty.Asset != nil {
			md.Bounty.Asset = *u.Bounty.Asset
		}
		if u.Bounty.Amount != nil {
			md.Bounty.Amount = *u.Bounty.Amount
		}
		if u.Bounty.ConfirmedAt != nil {
			md.Bounty.ConfirmedAt = *u.Bounty.ConfirmedAt
		}
		if u.Bounty.CoolingUntil != nil {
			md.Bounty.CoolingUntil = *u.Bounty.CoolingUntil
		}
	}

	if u.DataLayer != nil {
		if u.DataLayer.Type != nil {
			md.DataLayer.Type = *u.DataLayer.Type
		}
		if u.DataLayer.Url != nil {
			md.DataLayer.Url = *u.DataLayer.Url
		}
		if u.DataLayer.SubmissionUrl != nil {
			md.DataLayer.SubmissionUrl = *u.DataLayer.SubmissionUrl
		}
	}
}

// StrPtr returns a pointer to s, for building partial updates
func StrPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to v, for building partial updates
func Int64Ptr(v int64) *int64 {
	return &v
}
