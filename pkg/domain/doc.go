/*
Package domain contains the core domain models of the interview-practice client.

It defines the entities the practice state machine operates on and the wire shapes
exchanged with the question-generation and answer-evaluation service. This package is
kept pure and free of I/O, following the same Hexagonal layout as the rest of the module.

# Key Entities

  - JobRole: A role the user practices for (immutable once fetched).
  - Session: The snapshot of a single practice session (question, draft, feedback, status).
  - TransitionEvent / RequestEvent: Observability events emitted by the state machine.
  - GuardViolation / TransportError: The two error families of the client.
*/
package domain
