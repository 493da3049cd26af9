package stub

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	b := DefaultBank()
	roles := b.JobRoles()
	require.Len(t, roles, 6)
	assert.Equal(t, int64(1), roles[0].ID)
	assert.Equal(t, "Software Engineer", roles[0].Title)
	for _, r := range b.Roles {
		assert.Len(t, r.Questions, 10, r.Title)
	}
	assert.Len(t, b.Feedback, 10)
}

func TestBank_Question(t *testing.T) {
	b := &Bank{
		Roles: []RoleBank{
			{Title: "Software Engineer", Questions: []string{"se"}},
			{Title: "Data Scientist", Questions: []string{"ds"}},
			{Title: "Product Manager", Questions: []string{"pm"}},
		},
		Feedback: []string{"ok"},
	}
	rnd := rand.New(rand.NewSource(1))

	tests := map[string]string{
		"Data Scientist":         "ds",
		"Senior Data Analyst":    "ds", // keyword "data"
		"Technical Product Lead": "pm", // keyword "product"
		"Backend Engineer":       "se", // keyword "engineer"
		"Astronaut":              "se", // default role
	}
	for role, want := range tests {
		assert.Equal(t, want, b.Question(role, rnd), role)
	}
}

func TestBank_Evaluate(t *testing.T) {
	b := DefaultBank()
	rnd := rand.New(rand.NewSource(1))
	q := "What is the time complexity of binary search? Can you explain how it works?"
	correct := b.Answers[q]
	require.NotEmpty(t, correct)

	assert.Equal(t, "Correct! Your answer is accurate.", b.Evaluate(q, "  "+correct+" ", rnd))
	assert.Equal(t, "Incorrect. The correct answer is: "+correct, b.Evaluate(q, "O(n)", rnd))
	assert.Contains(t, b.Feedback, b.Evaluate("What is Docker?", "containers", rnd))
}

func TestParseBank_Invalid(t *testing.T) {
	_, err := ParseBank([]byte("roles: []"))
	assert.Error(t, err)

	_, err = ParseBank([]byte("roles:\n  - title: X\nfeedback: [ok]"))
	assert.ErrorContains(t, err, `role "X" has no questions`)

	_, err = ParseBank([]byte(":::"))
	assert.Error(t, err)
}

func TestLoadBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  - title: Go Developer\n    questions: [\"What is a goroutine?\"]\nfeedback: [\"Nice\"]\n"), 0o644))

	b, err := LoadBank(path)
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", b.Question("Go Developer", rand.New(rand.NewSource(1))))

	_, err = LoadBank(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
