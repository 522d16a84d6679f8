package accounts_test

import (
	"testing"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// accountID derives the deterministic record id for an email, matching the
// id registration assigns.
func accountID(t *testing.T, email string) uuid.UUID {
	t.Helper()
	id, err := hashid.NewUUID(email)
	require.NoError(t, err)
	return id
}
