package engine

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	jobdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/domain"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

const policyQuery = "data.nexus.job_access"

// DefaultPolicy lets the poster of a job manage it and see its applicants. Admins may see applicants of any job.
const DefaultPolicy = `package nexus.job_access

default view_applicants := false
default manage_job := false

owner if {
	input.user.id != ""
	input.user.id == input.job.employer_id
}

view_applicants if owner

view_applicants if input.user.role == "admin"

manage_job if owner
`

// OPAEvaluator evaluates the job access policy using OPA Rego.
type OPAEvaluator struct {
	compiler *ast.Compiler
}

// NewOPAEvaluator compiles policy, or DefaultPolicy when policy is empty.
// A custom policy must define view_applicants and manage_job in package nexus.job_access.
func NewOPAEvaluator(policy string) (*OPAEvaluator, error) {
	if policy == "" {
		policy = DefaultPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"job_access.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile access policy: %w", err)
	}
	return &OPAEvaluator{compiler: compiler}, nil
}

// NewOPAEvaluatorFromFile reads a Rego policy from path. An empty path uses DefaultPolicy.
func NewOPAEvaluatorFromFile(path string) (*OPAEvaluator, error) {
	if path == "" {
		return NewOPAEvaluator("")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access policy: %w", err)
	}
	return NewOPAEvaluator(string(b))
}

// HealthCheck verifies that the compiled policy evaluates to a result. Does not touch the network.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	rs, err := e.eval(ctx, buildInput(nil, nil))
	if err != nil {
		return fmt.Errorf("eval access policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}

// JobAccess implements Evaluator. Evaluation failures deny access and are returned.
func (e *OPAEvaluator) JobAccess(ctx context.Context, user *userdomain.User, job *jobdomain.Job) (Access, error) {
	if user == nil || job == nil {
		return Access{}, nil
	}
	rs, err := e.eval(ctx, buildInput(user, job))
	if err != nil {
		log.Printf("policy: evaluation failed for job %s: %v", job.ID, err)
		return Access{}, err
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return Access{}, nil
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Access{}, fmt.Errorf("policy: unexpected result %T", rs[0].Expressions[0].Value)
	}
	var out Access
	if v, ok := doc["view_applicants"].(bool); ok {
		out.ViewApplicants = v
	}
	if v, ok := doc["manage_job"].(bool); ok {
		out.ManageJob = v
	}
	return out, nil
}

func (e *OPAEvaluator) eval(ctx context.Context, input map[string]interface{}) (rego.ResultSet, error) {
	q := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(e.compiler),
		rego.Input(input),
	)
	return q.Eval(ctx)
}

func buildInput(user *userdomain.User, job *jobdomain.Job) map[string]interface{} {
	userMap := map[string]interface{}{
		"id":   "",
		"role": "",
	}
	if user != nil {
		userMap["id"] = user.ID
		userMap["role"] = string(user.Role)
	}
	jobMap := map[string]interface{}{
		"id":          "",
		"employer_id": "",
		"status":      "",
	}
	if job != nil {
		jobMap["id"] = job.ID
		jobMap["employer_id"] = job.EmployerID()
		jobMap["status"] = job.Status
	}
	return map[string]interface{}{
		"user": userMap,
		"job":  jobMap,
	}
}
