package email

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRenderVerificationMessage(t *testing.T) {
	t.Parallel()

	svc := NewService("smtp.example.com", "587", "noreply@example.com", "secret", "https://app.example.com")
	accountID := uuid.New()

	body, err := svc.RenderVerificationMessage("alice", accountID, "some-token")
	require.NoError(t, err)

	require.Contains(t, body, "alice")
	require.Contains(t, body, accountID.String())
	require.Contains(t, body, "https://app.example.com/verify?token=some-token")
}

func TestRenderVerificationMessageIsDeterministic(t *testing.T) {
	t.Parallel()

	svc := NewService("smtp.example.com", "587", "noreply@example.com", "secret", "https://app.example.com")
	accountID := uuid.New()

	first, err := svc.RenderVerificationMessage("bob", accountID, "tok")
	require.NoError(t, err)
	second, err := svc.RenderVerificationMessage("bob", accountID, "tok")
	require.NoError(t, err)

	require.Equal(t, first, second)
}
