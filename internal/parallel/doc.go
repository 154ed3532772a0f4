// Package parallel runs independent pieces of pixel work on a fixed set of
// goroutines. Each worker has its own queue and steals from the others when
// it runs dry, so uneven bands still finish together.
package parallel
