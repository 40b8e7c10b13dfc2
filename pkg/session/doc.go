/*
Package session implements episode management and persistence orchestration.

It serialises access to each episode's state across goroutines (and, with a
ports.DistributedLocker, across replicas), so that load, step and save happen as one
unit even when several callers drive the same episode.
*/
package session
