/*
Package aura implements the Aura fungible token ledger.

Aura keeps a single balance per account, an allowance per (owner, spender)
pair and the running total supply. It is NEP-17 compatible in its
notifications, so transfers can be tracked by the same software that tracks
N3 tokens.

Minting, pausing and ownership changes are administrative operations gated by
the owner of the contract, the account that instantiated it. Every operation
validates all its preconditions before touching storage, so a failed call
leaves the ledger unchanged.

Contract notifications

Transfer notification. This is NEP-17 standard notification. Mints have null
from, burns have null to.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. Produced when an owner sets the allowance of a spender.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer

OwnershipTransferred notification. Produced when the contract owner changes.

	OwnershipTransferred:
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160

Paused and Unpaused notifications. Produced when the owner stops or resumes
value movement.

	Paused:
	  - name: account
	    type: Hash160
	Unpaused:
	  - name: account
	    type: Hash160
*/
package aura
