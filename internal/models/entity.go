package models

// Entity mirrors a row in core_entities.
type Entity struct {
	EntityID       string `json:"entityID"`
	OrganizationID string `json:"organizationID"`
	EntityType     string `json:"entityType"`
	EntityName     string `json:"entityName"`
	SmartCode      string `json:"smartCode"`
	AuditFields
}
