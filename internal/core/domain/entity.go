package domain

// Entity represents a business entity (customer, staff, product, ...) in the
// universal data model. Transactions and lines reference entities by id; every
// reference must resolve inside the same organization as the transaction.
type Entity struct {
	EntityID       string `json:"entityID"`
	OrganizationID string `json:"organizationID"`
	EntityType     string `json:"entityType"`
	EntityName     string `json:"entityName"`
	SmartCode      string `json:"smartCode"`
	AuditFields
}
