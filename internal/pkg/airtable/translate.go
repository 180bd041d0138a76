package airtable

// Field translation between local columns and remote Airtable fields. Each
// table carries a static allow-list; any local column not listed here is
// silently dropped and never synced. That narrowing is deliberate: the CRM
// base only mirrors the lead-facing subset, internal columns (counters,
// soft-delete markers, timestamps) stay local.

type tableMapping struct {
	remoteTable  string
	localToField map[string]string
}

var tableMappings = map[string]tableMapping{
	"buyers": {
		remoteTable: "Buyers",
		localToField: map[string]string{
			"uuid":           "External ID",
			"name":           "Name",
			"location":       "Location",
			"budget_bucket":  "Budget Range",
			"bedrooms":       "Bedrooms",
			"timeline":       "Timeline",
			"payment_method": "Payment Method",
			"purpose":        "Purpose",
		},
	},
	"campaigns": {
		remoteTable: "Campaigns",
		localToField: map[string]string{
			"uuid":        "External ID",
			"name":        "Name",
			"objective":   "Objective",
			"budget":      "Budget",
			"daily_cap":   "Daily Cap",
			"target_area": "Target Area",
			"status":      "Status",
		},
	},
}

// SyncedTables lists the local tables the adapter knows how to sync.
func SyncedTables() []string {
	return []string{"buyers", "campaigns"}
}

// IsSyncedTable reports whether the adapter can sync the local table.
func IsSyncedTable(localTable string) bool {
	_, ok := tableMappings[localTable]
	return ok
}

// RemoteTableFor returns the Airtable table name for a local table.
func RemoteTableFor(localTable string) string {
	return tableMappings[localTable].remoteTable
}

// ToRemoteFields translates a local row into remote fields, dropping every
// column outside the allow-list.
func ToRemoteFields(localTable string, row map[string]interface{}) map[string]interface{} {
	mapping, ok := tableMappings[localTable]
	if !ok {
		return nil
	}
	fields := make(map[string]interface{}, len(mapping.localToField))
	for column, field := range mapping.localToField {
		if v, ok := row[column]; ok {
			fields[field] = v
		}
	}
	return fields
}

// ToLocalColumns translates remote fields back into local columns using the
// inverse of the allow-list. Unknown remote fields are dropped.
func ToLocalColumns(localTable string, fields map[string]interface{}) map[string]interface{} {
	mapping, ok := tableMappings[localTable]
	if !ok {
		return nil
	}
	row := make(map[string]interface{}, len(mapping.localToField))
	for column, field := range mapping.localToField {
		if v, ok := fields[field]; ok {
			row[column] = v
		}
	}
	return row
}
