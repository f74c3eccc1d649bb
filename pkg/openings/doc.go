// Package openings holds the table of opening positions and runs the diagram
// generator over it.
package openings
