// Package queue implements the bounded commit queue that connects the
// extraction manager (producer) with the analysis manager (consumer).
//
// The queue has three states. It starts in INIT, is opened by the producer
// and ends in CLOSED. A close requested while commits are still buffered is
// deferred until the consumer has drained the queue.
//
// Add and Take never block. Put, Next and AwaitOpen block on a condition
// variable instead of requiring callers to retry in a loop.
package queue
