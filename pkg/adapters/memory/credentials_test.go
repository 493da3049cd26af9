package memory_test

import (
	"testing"

	"github.com/aretw0/intervista/pkg/adapters/memory"
	"github.com/aretw0/intervista/pkg/ports/tests"
)

func TestCredentials_Contract(t *testing.T) {
	creds := memory.NewCredentials("")
	tests.CredentialProviderContractTest(t, creds, creds.Set)
}

func TestCredentials_TokenStoreContract(t *testing.T) {
	tests.TokenStoreContractTest(t, memory.NewCredentials("seed"))
}
