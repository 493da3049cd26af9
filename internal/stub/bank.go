package stub

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/intervista/pkg/domain"
)

//go:embed bank.yaml
var defaultBank []byte

// RoleBank is the question pool of one job role.
type RoleBank struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Questions   []string `yaml:"questions"`
}

// Bank holds everything the stub answers with.
type Bank struct {
	Roles []RoleBank `yaml:"roles"`

	// Answers maps a question to its reference answer.
	Answers map[string]string `yaml:"answers"`

	// Feedback is used for questions without a reference answer.
	Feedback []string `yaml:"feedback"`
}

// DefaultBank returns the embedded bank.
func DefaultBank() *Bank {
	b, err := ParseBank(defaultBank)
	if err != nil {
		panic(fmt.Sprintf("embedded bank is invalid: %v", err))
	}
	return b
}

// LoadBank reads a bank from a YAML file.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank: %w", err)
	}
	return ParseBank(data)
}

// ParseBank decodes and validates a YAML bank.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate requires at least one role, every role to have questions, and some feedback.
func (b *Bank) Validate() error {
	var errs []error
	if len(b.Roles) == 0 {
		errs = append(errs, errors.New("bank has no roles"))
	}
	for i, r := range b.Roles {
		if strings.TrimSpace(r.Title) == "" {
			errs = append(errs, fmt.Errorf("role %d has no title", i))
		}
		if len(r.Questions) == 0 {
			errs = append(errs, fmt.Errorf("role %q has no questions", r.Title))
		}
	}
	if len(b.Feedback) == 0 {
		errs = append(errs, errors.New("bank has no feedback"))
	}
	return errors.Join(errs...)
}

// JobRoles lists the roles with 1-based ids in bank order.
func (b *Bank) JobRoles() []domain.JobRole {
	roles := make([]domain.JobRole, len(b.Roles))
	for i, r := range b.Roles {
		roles[i] = domain.JobRole{ID: int64(i + 1), Title: r.Title, Description: r.Description}
	}
	return roles
}

// pool picks the questions for jobRole: exact title first, then the first role
// sharing a keyword with it, then the default role, then the first role.
func (b *Bank) pool(jobRole string) []string {
	for _, r := range b.Roles {
		if r.Title == jobRole {
			return r.Questions
		}
	}

	lower := strings.ToLower(jobRole)
	for _, r := range b.Roles {
		for _, keyword := range strings.Fields(strings.ToLower(r.Title)) {
			if strings.Contains(lower, keyword) {
				return r.Questions
			}
		}
	}

	for _, r := range b.Roles {
		if r.Title == domain.DefaultJobRoleTitle {
			return r.Questions
		}
	}
	return b.Roles[0].Questions
}

// Question picks a random question for jobRole.
func (b *Bank) Question(jobRole string, rnd *rand.Rand) string {
	qs := b.pool(jobRole)
	return qs[rnd.Intn(len(qs))]
}

// Evaluate compares answer with the reference answer when one exists,
// otherwise returns random generic feedback.
func (b *Bank) Evaluate(question, answer string, rnd *rand.Rand) string {
	if correct, ok := b.Answers[question]; ok {
		if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correct)) {
			return "Correct! Your answer is accurate."
		}
		return "Incorrect. The correct answer is: " + correct
	}
	return b.Feedback[rnd.Intn(len(b.Feedback))]
}
