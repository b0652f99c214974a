// Package kmeans implements centroid-based K-Means clustering over a single
// numeric column.
//
// The engine is a column visitor: the host feeds it an (index sequence,
// column) pair once, then queries the learned centroids via Result and the
// induced partition via Clusters.
package kmeans
