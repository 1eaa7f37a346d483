package employee

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("employee not found")

type (
	Repository interface {
		GetEmployeeByID(ctx context.Context, id int) (Employee, error)
		// FilterEmployeeIDsByAttribute matches the rule attribute exactly
		// (case-sensitive, reflecting stored values).
		FilterEmployeeIDsByAttribute(ctx context.Context, kind AssignmentKind, value string) ([]int, error)
		// FilterExistingEmployeeIDs keeps only ids present in the directory,
		// preserving input order.
		FilterExistingEmployeeIDs(ctx context.Context, ids []int) ([]int, error)
		DistinctAssignmentValues(ctx context.Context) (AssignmentValues, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id int) (Employee, error) {
	return svc.repo.GetEmployeeByID(ctx, id)
}

// ResolveRule turns an assignment rule into the concrete employee id set it
// targets. An empty result is not an error.
func (svc *Service) ResolveRule(ctx context.Context, rule AssignmentRule) ([]int, error) {
	if rule.Kind == AssignByExplicitIDs {
		ids, err := svc.repo.FilterExistingEmployeeIDs(ctx, rule.IDs)
		if err != nil {
			return nil, errors.Wrap(err, "filtering explicit employee ids")
		}
		return ids, nil
	}

	ids, err := svc.repo.FilterEmployeeIDsByAttribute(ctx, rule.Kind, rule.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s rule", rule.Kind)
	}
	return ids, nil
}

func (svc *Service) AssignmentValues(ctx context.Context) (AssignmentValues, error) {
	return svc.repo.DistinctAssignmentValues(ctx)
}
