package mutations

// Registry is a name-keyed lookup table of mutation handlers, built once at
// startup. Adding a mutation type means adding one handler and one Register
// call; the engine never changes.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry with all built-in mutation types registered.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler, 8)}
	r.Register("create_dossier", &CreateDossierHandler{})
	r.Register("add_policy", &AddPolicyHandler{})
	r.Register("apply_indexation", &ApplyIndexationHandler{})
	r.Register("calculate_retirement_benefit", &CalculateRetirementBenefitHandler{})
	r.Register("project_future_benefits", &ProjectFutureBenefitsHandler{})
	return r
}

func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

func (r *Registry) Handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}
