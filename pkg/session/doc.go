/*
Package session keeps a registry of named machines and serializes access to
each of them.

Every operation on a name runs under a per-name lock held in memory. When a
ports.DistributedLocker is configured, the same name is also locked across
replicas for the duration of the call.
*/
package session
