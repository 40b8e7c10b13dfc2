/*
Package domain contains the core domain models of the errand policy.

It defines the vocabulary shared by the plan compiler, the policy state machine and the
adapters: subgoals and plans, task specifications, the command grammar spoken to the
simulator, the per-episode working memory, and the persisted episode State. The package
is kept pure and free of I/O so that every adapter can depend on it.

# Key Entities

  - Subgoal / Plan: an abstract step (verb + target class) and the ordered list of them.
  - TaskSpec: the resolved task (type, object/parent/toggle targets).
  - WorkingMemory: everything the policy remembers during one episode.
  - State: the durable snapshot of an episode (task, plan, memory, status, history).
*/
package domain
