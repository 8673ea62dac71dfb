/*
Package dump provides I/O operations for collected states of the ledger
contracts.

State collection (including storage) allows to move ledger state between
storage backends and to reproduce "live" ledgers in tests. For state
reproducibility, it is necessary to be able to persist (dump) information about
the contracts along with their data, as well as read ready-made dumps and load
them into another environment.

The package works with dumps stored in the file system using human-readable
encoding.
*/
package dump
