package service

import (
	"context"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/domain"
)

// Provisioner is the lifecycle of one data product component against the
// remote analytics platform. Operations are synchronous and idempotent;
// recognized-but-unsuccessful outcomes come back as a FAILED status, domain
// problems as *domain.ValidationError or *domain.RequestValidationError,
// and anything else as a system error.
type Provisioner interface {
	Validate(ctx context.Context, component *domain.Component, dp *domain.DataProduct) (*domain.ValidationResult, error)
	Provision(ctx context.Context, component *domain.Component, dp *domain.DataProduct) (*domain.ProvisioningStatus, error)
	Unprovision(ctx context.Context, component *domain.Component, dp *domain.DataProduct, removeData bool) (*domain.ProvisioningStatus, error)
	UpdateACL(ctx context.Context, component *domain.Component, dp *domain.DataProduct, refs []string) (*domain.ProvisioningStatus, error)
	ReverseProvision(ctx context.Context, req *domain.ReverseProvisioningRequest) (*domain.ReverseProvisioningStatus, error)
}
