/*
Package ports defines the driven ports (interfaces) for the errand engine.

These interfaces decouple the policy from external implementations, allowing episodes
to be persisted in various storage backends, tasks to come from various catalogs, and
the runner to drive any simulator.

# Key Interfaces

  - StateStore: Responsible for persisting and loading episode State.
  - DistributedLocker: Provides distributed locking for concurrent episode access.
  - Simulator: The text-adventure environment the runner drives (reset/step).
  - TaskCatalog: A source of named task specifications.
  - StatelessEngine: The engine surface used by transport adapters (HTTP, MCP).
*/
package ports
