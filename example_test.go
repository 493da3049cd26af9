package intervista_test

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"

	"github.com/aretw0/intervista"
	"github.com/aretw0/intervista/internal/stub"
)

const goBank = `
roles:
  - title: Go Developer
    questions:
      - "What does the go keyword do?"
answers:
  "What does the go keyword do?": "It starts a goroutine."
feedback:
  - "Good start!"
`

// ExampleNew runs one question/answer round against the development stub.
func ExampleNew() {
	bank, err := stub.ParseBank([]byte(goBank))
	if err != nil {
		log.Fatal(err)
	}
	srv := httptest.NewServer(stub.New(stub.WithBank(bank)).Handler())
	defer srv.Close()

	p, err := intervista.New(srv.URL+"/api/", intervista.WithRole("Go Developer"))
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	s := p.Start(ctx)
	fmt.Println(s.Status)
	fmt.Println(s.CurrentQuestion)

	s = p.Submit(ctx, "It starts a goroutine.")
	fmt.Println(s.Status)
	fmt.Println(s.Feedback)

	// Output:
	// question_ready
	// What does the go keyword do?
	// feedback_ready
	// Correct! Your answer is accurate.
}
