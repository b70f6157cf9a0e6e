// Package event implements the dispatch registry that delivers network,
// IP and provisioning notifications to registered handlers.
//
// Handlers are keyed by (source, id). Each source owns a goroutine that
// drains its queue, so notifications of one source arrive in posting order
// while notifications of different sources may interleave arbitrarily.
// Handlers run on the dispatch goroutine of their source and must not block
// for long.
package event
