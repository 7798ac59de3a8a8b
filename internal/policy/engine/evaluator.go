package engine

import (
	"context"

	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// Access holds what the signed-in user may do with one job.
type Access struct {
	// ViewApplicants allows the applicants page and status changes.
	ViewApplicants bool
	// ManageJob allows editing and deleting the posting.
	ManageJob bool
}

// Evaluator decides job access for the current user.
type Evaluator interface {
	// JobAccess evaluates the access policy for user on job. A nil user or job gets no access.
	JobAccess(ctx context.Context, user *userdomain.User, job *jobdomain.Job) (Access, error)
}
