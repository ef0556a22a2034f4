/*
Package ports defines the driven ports (interfaces) around the transducer core.

These interfaces decouple the surfaces (CLI, HTTP, MCP) from concrete table
sources and locking backends.

# Key Interfaces

  - TableLoader: loads a table definition (file, Loam repository, memory).
  - DistributedLocker: serializes access to a named machine across processes.
*/
package ports
