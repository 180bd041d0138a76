package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRemoteFieldsDropsUnlistedColumns(t *testing.T) {
	row := map[string]interface{}{
		"uuid":           "b-123",
		"name":           "Jane Doe",
		"budget_bucket":  "1m_2m",
		"contacts_count": 3,      // internal counter, never synced
		"deleted_at":     nil,    // soft-delete marker, never synced
		"api_key_hash":   "junk", // not even a buyer column
	}

	fields := ToRemoteFields("buyers", row)

	assert.Equal(t, "b-123", fields["External ID"])
	assert.Equal(t, "Jane Doe", fields["Name"])
	assert.Equal(t, "1m_2m", fields["Budget Range"])
	assert.NotContains(t, fields, "contacts_count")
	assert.NotContains(t, fields, "Contacts Count")
	assert.NotContains(t, fields, "deleted_at")
	assert.NotContains(t, fields, "api_key_hash")
}

// A push-then-pull round trip must reproduce exactly the allow-listed
// fields and nothing else.
func TestTranslateRoundTripIsLossyByDesign(t *testing.T) {
	row := map[string]interface{}{
		"uuid":              "b-42",
		"name":              "Ahmed",
		"location":          "Dubai Marina",
		"budget_bucket":     "2m_5m",
		"bedrooms":          "3",
		"timeline":          "within_28_days",
		"payment_method":    "cash",
		"purpose":           "investment",
		"contacts_count":    2,
		"engagement_events": int64(7),
	}

	back := ToLocalColumns("buyers", ToRemoteFields("buyers", row))

	assert.Equal(t, map[string]interface{}{
		"uuid":           "b-42",
		"name":           "Ahmed",
		"location":       "Dubai Marina",
		"budget_bucket":  "2m_5m",
		"bedrooms":       "3",
		"timeline":       "within_28_days",
		"payment_method": "cash",
		"purpose":        "investment",
	}, back)
}

func TestToLocalColumnsUnknownTable(t *testing.T) {
	assert.Nil(t, ToLocalColumns("users", map[string]interface{}{"Name": "x"}))
	assert.Nil(t, ToRemoteFields("users", map[string]interface{}{"name": "x"}))
}

func TestSyncedTables(t *testing.T) {
	assert.ElementsMatch(t, []string{"buyers", "campaigns"}, SyncedTables())
	assert.True(t, IsSyncedTable("buyers"))
	assert.True(t, IsSyncedTable("campaigns"))
	assert.False(t, IsSyncedTable("contact_requests"))
	assert.Equal(t, "Buyers", RemoteTableFor("buyers"))
	assert.Equal(t, "Campaigns", RemoteTableFor("campaigns"))
}
