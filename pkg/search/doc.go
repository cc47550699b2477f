// Package search runs similarity queries against a collection and
// translates caller filters into backend conditions.
package search
