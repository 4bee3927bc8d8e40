// Package tours expands tour frequency choices into individual tours and
// gives every tour a stable integer id.
//
// A tour id is computed in closed form from the owner key and the rank of the
// tour's canonical label ("work1", "escort2", "eat1_2") in a fixed, sorted
// label space:
//
//	tour_id = owner_key * space.Len() + rank(label)
//
// No counters and no coordination are involved, so the same population always
// yields the same ids regardless of processing order or partitioning. Random
// number streams keyed by tour id stay stable across runs.
//
// Compatibility: the person label space is a fixed constant of 19 labels.
// Adding a tour type or raising a maximum count changes Len() and therefore
// every previously persisted id. Treat any change to the flavor maps in
// flavors.go as a breaking change to stored tour ids.
package tours
