// Package truediff computes edit scripts between two syntax trees.
//
// Every node is hashed twice: a structural digest over kinds, fields and
// shape, and a literal digest over the text of literal nodes. Comparison
// then runs in three phases. assignShares walks both trees in step and
// pairs up subtrees that are structurally equal at the same position.
// assignSubtrees matches the remaining new nodes, tallest first, against
// old subtrees that became available, preferring literal-equal ones. The
// last phase walks the trees once more and emits the edits: moves for
// reused subtrees, updates for changed literals, loads and unloads for
// everything else.
//
// Old nodes that are reused keep their IDs, so the script describes moves
// rather than rebuilds.
package truediff
