// Package graph turns analysis rows into a node/edge view of a project.
//
// The view has three node kinds: containers (model files), query roots
// (explores) and entities (views). Containers point to the roots they
// declare; roots point to every entity they use, labelled with the row's
// role. Each node carries a weight, its degree relative to the busiest node,
// and each edge a length hint for force-directed layouts.
//
// The view is plain data and encodes to JSON as is.
package graph
