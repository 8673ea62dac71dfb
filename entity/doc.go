/*
Package entity implements the Entity multi-token registry.

Entity keeps one balance per (account, token ID) pair and one total supply per
token ID. Operators approved by an account may move any of its tokens.
Token IDs are created either explicitly by the owner with Create or implicitly
by the first mint.

Transfers to contract accounts are acknowledged by the receiving contract
through the Receiver collaborator; a declined acknowledgment aborts the whole
transfer. Batch operations validate every leg before any balance is written.

Contract notifications

TransferSingle notification. Produced by single transfers, mints (null from)
and burns (null to).

	TransferSingle:
	  - name: operator
	    type: Hash160
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: id
	    type: Integer
	  - name: amount
	    type: Integer

TransferBatch notification. Produced once per batch operation.

	TransferBatch:
	  - name: operator
	    type: Hash160
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: ids
	    type: Array
	  - name: amounts
	    type: Array

ApprovalForAll notification.

	ApprovalForAll:
	  - name: owner
	    type: Hash160
	  - name: operator
	    type: Hash160
	  - name: approved
	    type: Boolean

URI notification. Produced when token metadata URI is set.

	URI:
	  - name: uri
	    type: String
	  - name: id
	    type: Integer

OwnershipTransferred notification. Produced when the contract owner changes.

	OwnershipTransferred:
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160
*/
package entity
