package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store is the single source of truth for one session's active CaseStrategy
// and the profile id it persists under. Every mutation builds a new document
// by copying only the path being changed (untouched subtrees are shared with
// the previous document), saves it through the Repo synchronously, and only
// then publishes it as the current state. A failed save leaves the published
// state untouched.
//
// Mutations whose target ids do not resolve are deliberate no-ops: the
// current document is returned unchanged and no error is raised, because ids
// are always taken from the current document by the caller.
type Store struct {
	mu        sync.RWMutex
	repo      Repo
	active    *CaseStrategy
	profileID string
}

// NewStore constructs a Store persisting through repo.
func NewStore(repo Repo) *Store {
	return &Store{repo: repo}
}

// Current returns the active document and profile id, or false if no
// profile has been selected yet.
func (st *Store) Current() (*CaseStrategy, string, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.active == nil {
		return nil, "", false
	}
	return st.active, st.profileID, true
}

// SetActive replaces the active document and profile id wholesale. It does
// not persist; the producer of the document is responsible for that (the
// loader caches on fetch, profile generation saves before returning).
func (st *Store) SetActive(s *CaseStrategy, profileID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.active = s
	st.profileID = profileID
}

// Detach drops the active document without touching persisted records.
func (st *Store) Detach() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.active = nil
	st.profileID = ""
}

// UpdateDemographicField replaces the value of the named demographic field,
// persists the updated document, and publishes it. An unknown field name
// yields an unchanged document.
func (st *Store) UpdateDemographicField(ctx context.Context, fieldName string, value FieldValue) (*CaseStrategy, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.active == nil || st.profileID == "" {
		return nil, ErrNoActiveStrategy
	}

	updated := shallowCopy(st.active)
	updated.DemographicInformation = DemographicInformation{
		Fields: replaceField(st.active.DemographicInformation.Fields, fieldName, value),
	}

	return st.publish(ctx, updated)
}

// UpdateInstanceField replaces the value of one field inside one instance of
// one criterion, persists, and publishes. Unresolved ids yield an unchanged
// document.
func (st *Store) UpdateInstanceField(ctx context.Context, criterionID, instanceID, fieldName string, value FieldValue) (*CaseStrategy, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.active == nil || st.profileID == "" {
		return nil, ErrNoActiveStrategy
	}

	updated := shallowCopy(st.active)
	updated.Criteria = mapCriteria(st.active.Criteria, criterionID, func(c *Criterion) *Criterion {
		next := *c
		next.Instances = mapInstances(c.Instances, instanceID, func(inst *Instance) *Instance {
			ni := *inst
			ni.Fields = replaceField(inst.Fields, fieldName, value)
			return &ni
		})
		return &next
	})

	return st.publish(ctx, updated)
}

// AddInstance appends a new instance to the criterion, cloning the first
// existing instance's field shape with every value reset. A criterion with
// zero instances cannot receive one through this path: there is no template
// to clone, so ErrNoTemplateInstance is returned and nothing changes. An
// unknown criterion id yields an unchanged document.
func (st *Store) AddInstance(ctx context.Context, criterionID, title string) (*CaseStrategy, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.active == nil || st.profileID == "" {
		return nil, ErrNoActiveStrategy
	}

	target := st.active.Criterion(criterionID)
	if target != nil && len(target.Instances) == 0 {
		return nil, ErrNoTemplateInstance
	}

	updated := shallowCopy(st.active)
	updated.Criteria = mapCriteria(st.active.Criteria, criterionID, func(c *Criterion) *Criterion {
		template := c.Instances[0]
		fields := make([]*Field, len(template.Fields))
		for i, f := range template.Fields {
			nf := *f
			nf.Value = Empty(f.Type)
			fields[i] = &nf
		}

		next := *c
		next.Instances = append(append([]*Instance{}, c.Instances...), &Instance{
			ID:     criterionID + "-" + uuid.NewString(),
			Title:  title,
			Fields: fields,
		})
		return &next
	})

	return st.publish(ctx, updated)
}

// DeleteInstance removes the matching instance, persists, and publishes.
// Idempotent: unresolved ids yield an unchanged document.
func (st *Store) DeleteInstance(ctx context.Context, criterionID, instanceID string) (*CaseStrategy, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.active == nil || st.profileID == "" {
		return nil, ErrNoActiveStrategy
	}

	updated := shallowCopy(st.active)
	updated.Criteria = mapCriteria(st.active.Criteria, criterionID, func(c *Criterion) *Criterion {
		kept := make([]*Instance, 0, len(c.Instances))
		for _, inst := range c.Instances {
			if inst.ID != instanceID {
				kept = append(kept, inst)
			}
		}
		next := *c
		next.Instances = kept
		return &next
	})

	return st.publish(ctx, updated)
}

// publish saves the document under the current profile id and swaps it in as
// the active state. Must be called with the write lock held.
func (st *Store) publish(ctx context.Context, updated *CaseStrategy) (*CaseStrategy, error) {
	if err := st.repo.Save(ctx, st.profileID, updated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	st.active = updated
	return updated, nil
}

func shallowCopy(s *CaseStrategy) *CaseStrategy {
	next := *s
	return &next
}

// replaceField returns a new field slice where the named field carries the
// given value. Other elements are shared with the input slice; if no name
// matches, the result is element-for-element identical.
func replaceField(fields []*Field, name string, value FieldValue) []*Field {
	out := make([]*Field, len(fields))
	for i, f := range fields {
		if f.Name == name {
			nf := *f
			nf.Value = value
			out[i] = &nf
		} else {
			out[i] = f
		}
	}
	return out
}

// mapCriteria returns a new criteria slice with fn applied to the criterion
// matching id. Non-matching elements are shared.
func mapCriteria(criteria []*Criterion, id string, fn func(*Criterion) *Criterion) []*Criterion {
	out := make([]*Criterion, len(criteria))
	for i, c := range criteria {
		if c.ID == id {
			out[i] = fn(c)
		} else {
			out[i] = c
		}
	}
	return out
}

// mapInstances returns a new instance slice with fn applied to the instance
// matching id. Non-matching elements are shared.
func mapInstances(instances []*Instance, id string, fn func(*Instance) *Instance) []*Instance {
	out := make([]*Instance, len(instances))
	for i, inst := range instances {
		if inst.ID == id {
			out[i] = fn(inst)
		} else {
			out[i] = inst
		}
	}
	return out
}
