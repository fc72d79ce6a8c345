// Package links provides the contact generators that tie particles
// together or to fixed anchors: cables, which only resist stretching, and
// rods, which resist both stretching and compression.
//
// A link whose ends coincide has no defined direction and produces no
// contact.
package links
