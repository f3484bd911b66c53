// Package dag is a small directed graph used to check that entity extension
// chains are acyclic. Nodes are string IDs; an edge from a to b means "a
// builds on b". Iteration follows insertion order so every report is
// deterministic.
package dag
