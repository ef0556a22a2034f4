/*
Package domain contains the core model of the transducer.

It defines the transition rule, the transition table that guards determinism
and completeness, and the errors and lifecycle events the interpreter reports.
The package is pure: no I/O, no persistence.

# Key Entities

  - Transition: an immutable (state, input) -> (output, next state) rule.
  - Table: an ordered rule set indexed by (state, input), with illegal-state
    and missing-input checks.
  - LifecycleHooks: callbacks fired by the interpreter for observability.
*/
package domain
