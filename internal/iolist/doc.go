// Package iolist recognizes catalog components in drawing attribute texts
// and builds the I/O inventory and wiring tables from them.
//
// The flow per attribute is match, normalize, expand, aggregate. Only the
// Aggregator carries state; the other steps are pure functions.
package iolist
