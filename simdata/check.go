package simdata

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zero-day-ai/simsetup/expr"
)

// Resolve evaluates the fixed parameter name, following references to
// other parameters. Swept parameters and per-corner parameters have no
// single value and fail with ErrUnresolved.
func (n *NetlistInfo) Resolve(name string) (float64, error) {
	r := n.resolver()
	return r.param(name)
}

// Eval evaluates v against the setup's fixed parameters.
func (n *NetlistInfo) Eval(v Value) (float64, error) {
	r := n.resolver()
	return r.value(v)
}

type resolver struct {
	info     *NetlistInfo
	swept    map[string]bool
	cache    map[string]float64
	visiting map[string]bool
}

func (n *NetlistInfo) resolver() *resolver {
	swept := make(map[string]bool)
	for _, sv := range n.SwpInfo {
		swept[sv.Name] = true
	}
	for _, a := range n.Analyses {
		switch t := a.(type) {
		case *DC:
			swept[t.Param] = true
		case *Tran:
			if t.SweepVar != "" {
				swept[t.SweepVar] = true
			}
		}
	}
	return &resolver{
		info:     n,
		swept:    swept,
		cache:    make(map[string]float64),
		visiting: make(map[string]bool),
	}
}

func (r *resolver) param(name string) (float64, error) {
	if f, ok := r.cache[name]; ok {
		return f, nil
	}
	if r.swept[name] {
		return 0, fmt.Errorf("%w: %s is swept", ErrUnresolved, name)
	}
	if r.visiting[name] {
		return 0, fmt.Errorf("%w: circular reference through %s", ErrUnresolved, name)
	}

	v, ok := r.info.Params[name]
	if !ok {
		if _, perEnv := r.info.EnvParams[name]; perEnv {
			return 0, fmt.Errorf("%w: %s depends on the corner", ErrUnresolved, name)
		}
		return 0, fmt.Errorf("%w: %s: %w", ErrUnresolved, name, expr.ErrUndefined)
	}

	r.visiting[name] = true
	f, err := r.value(v)
	delete(r.visiting, name)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", name, err)
	}
	r.cache[name] = f
	return f, nil
}

func (r *resolver) value(v Value) (float64, error) {
	if f, ok := v.Float(); ok {
		return f, nil
	}

	idents := v.Identifiers()
	bound := make(map[string]float64, len(idents))
	for _, id := range idents {
		f, err := r.param(id)
		if err != nil {
			return 0, err
		}
		bound[id] = f
	}

	f, err := v.Eval(bound)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnresolved, err)
	}
	return f, nil
}

// tryValue resolves v, reporting false when it depends on something
// that has no fixed value.
func (r *resolver) tryValue(v Value) (float64, bool, error) {
	f, err := r.value(v)
	if err == nil {
		return f, true, nil
	}
	if errors.Is(err, expr.ErrInvalid) {
		return 0, false, err
	}
	return 0, false, nil
}

// Check validates the setup semantically. Unlike FromDict it looks across
// fields and evaluates parameter expressions where they have fixed values.
// All problems are reported together, wrapped in ErrInvalidSetup.
func (n *NetlistInfo) Check() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(n.SimEnvs) == 0 {
		add("sim_envs is empty")
	}
	seenEnv := make(map[string]bool, len(n.SimEnvs))
	for _, env := range n.SimEnvs {
		if seenEnv[env] {
			add("sim_envs lists %s twice", env)
		}
		seenEnv[env] = true
	}
	if len(n.Analyses) == 0 {
		add("no analyses")
	}

	for _, name := range sortedKeys(n.EnvParams) {
		var missing []string
		for _, env := range n.SimEnvs {
			if _, ok := n.EnvParams[name][env]; !ok {
				missing = append(missing, env)
			}
		}
		if len(missing) > 0 {
			add("env_params %s has no value for %s", name, strings.Join(missing, ", "))
		}
	}

	seenSwp := make(map[string]bool, len(n.SwpInfo))
	for _, sv := range n.SwpInfo {
		if seenSwp[sv.Name] {
			add("swp_info sweeps %s twice", sv.Name)
		}
		seenSwp[sv.Name] = true
	}

	r := n.resolver()
	for _, sv := range n.SwpInfo {
		errs = append(errs, r.checkSweep("swp_info "+sv.Name, sv.Sweep)...)
	}

	for i, a := range n.Analyses {
		where := fmt.Sprintf("analyses[%d] %s", i, a.Type())
		switch t := a.(type) {
		case *DC:
			if t.Param == "" {
				add("%s: empty sweep parameter", where)
			}
			errs = append(errs, r.checkSweep(where, t.Sweep)...)
		case *Tran:
			errs = append(errs, r.checkTran(where, t)...)
		case *PSS:
			errs = append(errs, r.checkPSS(where, t)...)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSetup, errors.Join(errs...))
}

func (r *resolver) checkSweep(where string, s Sweep) []error {
	if s.Type == SweepList {
		return nil
	}

	var errs []error
	start, okStart, err := r.tryValue(s.Start)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s start: %w", where, err))
	}
	stop, okStop, err := r.tryValue(s.Stop)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s stop: %w", where, err))
	}

	if s.Type == SweepLog {
		if okStart && start <= 0 {
			errs = append(errs, fmt.Errorf("%s: LOG start %g must be positive", where, start))
		}
		if okStop && stop <= 0 {
			errs = append(errs, fmt.Errorf("%s: LOG stop %g must be positive", where, stop))
		}
	}
	if okStart && okStop && start == stop {
		errs = append(errs, fmt.Errorf("%s: start equals stop (%g)", where, start))
	}

	if s.Step != nil && okStart && okStop {
		step, ok, err := r.tryValue(*s.Step)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s step: %w", where, err))
		} else if ok && (step == 0 || (stop-start)/step < 0) {
			errs = append(errs, fmt.Errorf("%s: step %g does not move from %g toward %g", where, step, start, stop))
		}
	}
	return errs
}

func (r *resolver) checkTran(where string, t *Tran) []error {
	var errs []error
	start, okStart, err := r.tryValue(t.Start)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s start: %w", where, err))
	}
	stop, okStop, err := r.tryValue(t.Stop)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s stop: %w", where, err))
	}
	if okStart && okStop && stop <= start {
		errs = append(errs, fmt.Errorf("%s: stop %g is not after start %g", where, stop, start))
	}

	if t.Strobe != nil {
		strobe, ok, err := r.tryValue(*t.Strobe)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s strobe: %w", where, err))
		} else if ok && strobe <= 0 {
			errs = append(errs, fmt.Errorf("%s: strobe %g must be positive", where, strobe))
		}
	}

	if t.SweepOptions != nil {
		errs = append(errs, r.checkSweep(where+" sweep "+t.SweepVar, *t.SweepOptions)...)
	}
	return errs
}

func (r *resolver) checkPSS(where string, p *PSS) []error {
	var errs []error
	autofund := p.Autofund != nil && *p.Autofund
	if p.Period == nil && p.Fund == nil && !autofund {
		errs = append(errs, fmt.Errorf("%s: needs period, fund or autofund", where))
	}
	if (p.PPort == "") != (p.NPort == "") {
		errs = append(errs, fmt.Errorf("%s: p_port and n_port must be given together", where))
	}

	for key, v := range map[string]*Value{"period": p.Period, "fund": p.Fund} {
		if v == nil {
			continue
		}
		f, ok, err := r.tryValue(*v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", where, key, err))
		} else if ok && f <= 0 {
			errs = append(errs, fmt.Errorf("%s: %s %g must be positive", where, key, f))
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
