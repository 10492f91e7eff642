package domain

// Status is the outcome of a lifecycle operation.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRunning   Status = "RUNNING"
)

// Info carries deploy-time information attached to a completed provisioning:
// public entries surface in the marketplace, private entries stay internal.
type Info struct {
	PublicInfo  map[string]any `json:"publicInfo"`
	PrivateInfo map[string]any `json:"privateInfo"`
}

// ProvisioningStatus is the recognized outcome of provision, unprovision and
// update-ACL operations. A FAILED status is a completed response, not an
// error.
type ProvisioningStatus struct {
	Status Status `json:"status"`
	Result string `json:"result"`
	Info   *Info  `json:"info,omitempty"`
}

// ValidationResult is the outcome of descriptor validation.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Error *ValidationError `json:"-"`
}

// ReverseProvisioningRequest carries the raw parameters of a reverse
// provisioning call.
type ReverseProvisioningRequest struct {
	UseCaseTemplateID string
	Environment       string
	Params            map[string]any
	CatalogInfo       map[string]any
}

// ReverseProvisioningStatus is the outcome of a reverse provisioning call;
// Updates holds descriptor field paths mapped to their proposed new values.
type ReverseProvisioningStatus struct {
	Status  Status         `json:"status"`
	Result  string         `json:"result"`
	Updates map[string]any `json:"updates"`
}
