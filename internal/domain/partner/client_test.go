package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T) *Client {
	client, err := NewClient(uuid.New(), "Jane Cooper", "jane@example.com")
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("valid client", func(t *testing.T) {
		orgID := uuid.New()
		client, err := NewClient(orgID, "Jane Cooper", "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, orgID, client.OrganizationID)
		assert.Equal(t, "Jane Cooper", client.Name)
		assert.True(t, client.IsActive)
		assert.Equal(t, "US", client.Country)
		assert.Len(t, client.GetDomainEvents(), 1)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewClient(uuid.New(), "", "jane@example.com")
		assert.Error(t, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "a@b", "@example.com"} {
			_, err := NewClient(uuid.New(), "Jane", email)
			assert.Error(t, err, "email %q should be rejected", email)
		}
	})
}

func TestClient_Update(t *testing.T) {
	client := createTestClient(t)

	require.NoError(t, client.Update("Acme Contact", "Acme Corp", "billing@acme.com", "555-0101", "TAX-99"))
	assert.Equal(t, "Acme Contact", client.Name)
	assert.Equal(t, "Acme Corp", client.CompanyName)
	assert.Equal(t, "billing@acme.com", client.Email)

	assert.Error(t, client.Update("", "Acme Corp", "billing@acme.com", "", ""))
	assert.Error(t, client.Update("Acme Contact", "Acme Corp", "bad-email", "", ""))
}

func TestClient_DisplayName(t *testing.T) {
	client := createTestClient(t)
	assert.Equal(t, "Jane Cooper", client.DisplayName())

	require.NoError(t, client.Update("Jane Cooper", "Cooper Industries", "jane@example.com", "", ""))
	assert.Equal(t, "Cooper Industries", client.DisplayName())
}

func TestClient_SetCurrency(t *testing.T) {
	client := createTestClient(t)
	require.NoError(t, client.SetCurrency(valueobject.EUR))
	assert.Equal(t, valueobject.EUR, client.Currency)

	assert.Error(t, client.SetCurrency(valueobject.Currency("XXX")))
}

func TestClient_ActivateDeactivate(t *testing.T) {
	client := createTestClient(t)
	client.Deactivate()
	assert.False(t, client.IsActive)
	client.Activate()
	assert.True(t, client.IsActive)
}

func TestClient_SetAddress(t *testing.T) {
	client := createTestClient(t)
	client.SetAddress("1 Main St", "Suite 4", "Springfield", "IL", "62701", "")
	assert.Equal(t, "1 Main St", client.AddressLine1)
	assert.Equal(t, "US", client.Country, "empty country keeps the default")

	client.SetAddress("1 Main St", "", "Toronto", "ON", "M5V", "CA")
	assert.Equal(t, "CA", client.Country)
}
