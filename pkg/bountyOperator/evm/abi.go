package evm

// bountyManagerABI is the interface of the deployed BountyManager contract.
// Status values: 0 Open, 1 Accepted, 2 Submitted, 3 Confirmed, 4 Claimed,
// 5 Cancelled.
const bountyManagerABI = `[
  {
    "type": "function",
    "name": "createBounty",
    "stateMutability": "payable",
    "inputs": [
      {"name": "taskId", "type": "string"},
      {"name": "taskUrl", "type": "string"},
      {"name": "taskHash", "type": "bytes32"},
      {"name": "amount", "type": "uint256"},
      {"name": "asset", "type": "string"}
    ],
    "outputs": [{"name": "bountyId", "type": "uint256"}]
  },
  {
    "type": "function",
    "name": "acceptBounty",
    "stateMutability": "nonpayable",
    "inputs": [{"name": "bountyId", "type": "uint256"}],
    "outputs": []
  },
  {
    "type": "function",
    "name": "submitBounty",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "bountyId", "type": "uint256"},
      {"name": "submissionRef", "type": "bytes32"}
    ],
    "outputs": []
  },
  {
    "type": "function",
    "name": "confirmBounty",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "bountyId", "type": "uint256"},
      {"name": "confirmedAt", "type": "uint64"}
    ],
    "outputs": []
  },
  {
    "type": "function",
    "name": "claimPayout",
    "stateMutability": "nonpayable",
    "inputs": [{"name": "bountyId", "type": "uint256"}],
    "outputs": []
  },
  {
    "type": "function",
    "name": "cancelBounty",
    "stateMutability": "nonpayable",
    "inputs": [{"name": "bountyId", "type": "uint256"}],
    "outputs": []
  },
  {
    "type": "function",
    "name": "getBounty",
    "stateMutability": "view",
    "inputs": [{"name": "bountyId", "type": "uint256"}],
    "outputs": [
      {
        "name": "bounty",
        "type": "tuple",
        "components": [
          {"name": "bountyId", "type": "uint256"},
          {"name": "taskId", "type": "string"},
          {"name": "taskUrl", "type": "string"},
          {"name": "taskHash", "type": "bytes32"},
          {"name": "sponsor", "type": "address"},
          {"name": "worker", "type": "address"},
          {"name": "amount", "type": "uint256"},
          {"name": "asset", "type": "string"},
          {"name": "status", "type": "uint8"},
          {"name": "createdAt", "type": "uint64"},
          {"name": "acceptedAt", "type": "uint64"},
          {"name": "submittedAt", "type": "uint64"},
          {"name": "confirmedAt", "type": "uint64"},
          {"name": "claimedAt", "type": "uint64"},
          {"name": "coolingUntil", "type": "uint64"}
        ]
      }
    ]
  },
  {
    "type": "function",
    "name": "getBountyIdByTaskHash",
    "stateMutability": "view",
    "inputs": [{"name": "taskHash", "type": "bytes32"}],
    "outputs": [
      {"name": "found", "type": "bool"},
      {"name": "bountyId", "type": "uint256"}
    ]
  },
  {
    "type": "function",
    "name": "listBountyIds",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "bountyIds", "type": "uint256[]"}]
  },
  {
    "type": "function",
    "name": "listBountyIdsBySponsor",
    "stateMutability": "view",
    "inputs": [{"name": "sponsor", "type": "address"}],
    "outputs": [{"name": "bountyIds", "type": "uint256[]"}]
  },
  {
    "type": "function",
    "name": "listBountyIdsByWorker",
    "stateMutability": "view",
    "inputs": [{"name": "worker", "type": "address"}],
    "outputs": [{"name": "bountyIds", "type": "uint256[]"}]
  },
  {
    "type": "event",
    "name": "BountyCreated",
    "inputs": [
      {"name": "bountyId", "type": "uint256", "indexed": true},
      {"name": "taskHash", "type": "bytes32", "indexed": true},
      {"name": "sponsor", "type": "address", "indexed": false}
    ],
    "anonymous": false
  }
]`
