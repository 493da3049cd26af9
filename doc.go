/*
Package intervista is a client for practicing job interviews against a
question-generation and answer-evaluation service.

A practice session is a small state machine: pick a job role, request a
question, answer it, read the feedback, then ask for another question or reset.
The machine validates every transition, performs the network call a transition
requires, and publishes a snapshot of the session after each change.

# Architecture

The module is layered leaf to root:

  - pkg/transport: HTTP client with a bearer credential and normalized failures.
  - pkg/api: typed calls for each backend endpoint.
  - pkg/practice: the session state machine.
  - pkg/controller: intents, debounce and snapshot subscriptions.

Adapters expose a controller over HTTP/SSE (pkg/adapters/http) and the Model
Context Protocol (pkg/adapters/mcp).

# Usage

	p, err := intervista.New("http://localhost:8000/api/",
		intervista.WithToken(os.Getenv("INTERVISTA_TOKEN")),
		intervista.WithRole("Backend Developer"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	s := p.Start(ctx)
	fmt.Println(s.CurrentQuestion)

	s = p.Submit(ctx, "A goroutine is a lightweight thread managed by the Go runtime.")
	fmt.Println(s.Feedback)

Failures never surface as Go errors from intents: a failed request moves the
session to the error status with a user-facing message in LastError, and an
intent that is not legal in the current status is ignored.
*/
package intervista
