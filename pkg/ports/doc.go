/*
Package ports defines the driven ports (interfaces) of the interview-practice client.

These interfaces decouple the practice state machine from the network and from where
credentials live, so the machine can be driven by the HTTP client, a stub, or a test double.

# Key Interfaces

  - Transport: Sends one JSON request to a relative endpoint and returns the raw body.
  - CredentialProvider: Supplies the optional bearer token (e.g., from env, file or Redis).
  - QuestionService: Generates questions and evaluates answers (the AI operations).
  - SessionRecorder: Persists a finished practice conversation.
  - ResponseValidator: Checks a response body against the published API contract.
*/
package ports
