// Package affinity implements Affinity Propagation clustering over a single
// numeric column.
//
// The engine exchanges responsibility and availability messages between all
// element pairs for a fixed number of rounds, damped to avoid oscillation,
// then selects exemplars: elements whose self-responsibility plus
// self-availability is positive. The number of clusters is not chosen up
// front; it falls out of the self-preference (the diagonal of the similarity
// matrix, set to the minimum observed pairwise similarity).
package affinity
