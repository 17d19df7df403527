package mockapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Record is one stored JSON object
type Record map[string]interface{}

// Collections
const (
	collUsers         = "users"
	collDoctors       = "doctors"
	collAppointments  = "appointments"
	collTestResults   = "test-results"
	collPrescriptions = "prescriptions"
)

// hidden fields never leave the store through public reads
var hidden = []string{"passwordHash", "password", "confirmPassword"}

type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func errNotFound(entity string) *apiError {
	return &apiError{status: http.StatusNotFound, message: entity + " not found"}
}

func errBadRequest(format string, args ...interface{}) *apiError {
	return &apiError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

type collectionSpec struct {
	entity   string
	required []string
	unique   []string
	defaults Record
}

var collectionSpecs = map[string]collectionSpec{
	collUsers: {
		entity:   "User",
		required: []string{"fullName", "email", "role"},
		unique:   []string{"email"},
		defaults: Record{"status": "ACTIVE"},
	},
	collDoctors: {
		entity:   "Doctor",
		required: []string{"fullName", "email", "specialty"},
		unique:   []string{"email"},
		defaults: Record{"status": "ACTIVE"},
	},
	collAppointments: {
		entity:   "Appointment",
		required: []string{"patientId", "doctorId", "appointmentDate"},
		defaults: Record{"status": "PENDING"},
	},
	collTestResults: {
		entity:   "Test result",
		required: []string{"patientId", "testType"},
		defaults: Record{"status": "PENDING"},
	},
	collPrescriptions: {
		entity:   "Prescription",
		required: []string{"patientId", "doctorId", "medications"},
		defaults: Record{"status": "ACTIVE"},
	},
}

type collection struct {
	spec   collectionSpec
	nextID int64
	order  []int64
	rows   map[int64]Record
}

// Store keeps every collection in memory. Ids are assigned in insertion
// order starting at 1 and list results keep that order unless sorted.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	now         func() time.Time
}

func NewStore() *Store {
	s := &Store{
		collections: make(map[string]*collection, len(collectionSpecs)),
		now:         time.Now,
	}
	for name, spec := range collectionSpecs {
		s.collections[name] = &collection{spec: spec, nextID: 1, rows: map[int64]Record{}}
	}
	return s
}

// Entity is the display name used in not found messages
func (s *Store) Entity(coll string) string {
	return s.collections[coll].spec.entity
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		panic("mockapi: unknown collection " + name)
	}
	return c
}

// List returns the scoped, filtered and sorted rows plus the total before paging
func (s *Store) List(coll string, scope Record, filter *expr, order sortSpec, page, size int) ([]Record, int) {
	s.mu.RLock()
	c := s.coll(coll)
	matched := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		r := c.rows[id]
		if inScope(r, scope) && filter.match(r) {
			matched = append(matched, clone(r, false))
		}
	}
	s.mu.RUnlock()

	order.apply(matched)

	total := len(matched)
	// compare before multiplying, an absurd page would overflow start
	if page < 1 || size < 1 || page-1 >= (total+size-1)/size {
		return []Record{}, total
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func (s *Store) Get(coll string, id int64, scope Record) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.coll(coll)
	r, ok := c.rows[id]
	if !ok || !inScope(r, scope) {
		return nil, errNotFound(c.spec.entity)
	}
	return clone(r, false), nil
}

// Create validates required and unique fields, applies defaults and the
// scope, then assigns the next id
func (s *Store) Create(coll string, body Record, scope Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(coll)
	r := clone(body, true)
	delete(r, "id")
	for k, v := range c.spec.defaults {
		if isBlank(r[k]) {
			r[k] = v
		}
	}
	for k, v := range scope {
		r[k] = v
	}
	for _, f := range c.spec.required {
		if isBlank(r[f]) {
			return nil, errBadRequest("%s is required", f)
		}
	}
	if err := s.checkUnique(c, r, 0); err != nil {
		return nil, err
	}
	s.resolveNames(r)

	now := s.now().UTC().Format(time.RFC3339)
	r["id"] = c.nextID
	r["createdAt"] = now
	r["updatedAt"] = now
	c.rows[c.nextID] = r
	c.order = append(c.order, c.nextID)
	c.nextID++

	return clone(r, false), nil
}

// Update merges patch into the stored record. The id and scope fields
// cannot be changed.
func (s *Store) Update(coll string, id int64, patch Record, scope Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(coll)
	r, ok := c.rows[id]
	if !ok || !inScope(r, scope) {
		return nil, errNotFound(c.spec.entity)
	}

	next := clone(r, true)
	for k, v := range patch {
		switch k {
		case "id", "createdAt", "updatedAt":
			continue
		}
		if _, scoped := scope[k]; scoped {
			continue
		}
		next[k] = v
	}
	for _, f := range c.spec.required {
		if isBlank(next[f]) {
			return nil, errBadRequest("%s is required", f)
		}
	}
	if err := s.checkUnique(c, next, id); err != nil {
		return nil, err
	}
	s.resolveNames(next)
	next["updatedAt"] = s.now().UTC().Format(time.RFC3339)

	c.rows[id] = next
	return clone(next, false), nil
}

func (s *Store) Delete(coll string, id int64, scope Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(coll)
	r, ok := c.rows[id]
	if !ok || !inScope(r, scope) {
		return errNotFound(c.spec.entity)
	}
	delete(c.rows, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindBy returns the first record whose field equals value, case-insensitively.
// secrets keeps hidden fields such as passwordHash.
func (s *Store) FindBy(coll, field, value string, secrets bool) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.coll(coll)
	for _, id := range c.order {
		r := c.rows[id]
		if strings.EqualFold(stringify(r[field]), value) {
			return clone(r, secrets), true
		}
	}
	return nil, false
}

// Secret returns one record including hidden fields
func (s *Store) Secret(coll string, id int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.coll(coll).rows[id]
	if !ok {
		return nil, false
	}
	return clone(r, true), true
}

func (s *Store) checkUnique(c *collection, r Record, self int64) error {
	for _, f := range c.spec.unique {
		want := stringify(r[f])
		for id, other := range c.rows {
			if id != self && strings.EqualFold(stringify(other[f]), want) {
				return &apiError{status: http.StatusConflict, message: fmt.Sprintf("%s already exists", strings.ToUpper(f[:1])+f[1:])}
			}
		}
	}
	return nil
}

// resolveNames denormalizes patientName and doctorName from the ids so the
// list filters can search them. Caller holds the write lock.
func (s *Store) resolveNames(r Record) {
	if id, ok := toID(r["patientId"]); ok {
		if p, ok := s.collections[collUsers].rows[id]; ok {
			r["patientName"] = p["fullName"]
		}
	}
	if id, ok := toID(r["doctorId"]); ok {
		if d, ok := s.collections[collDoctors].rows[id]; ok {
			r["doctorName"] = d["fullName"]
		}
	}
}

func inScope(r, scope Record) bool {
	for k, v := range scope {
		if !strings.EqualFold(stringify(r[k]), stringify(v)) {
			return false
		}
	}
	return true
}

func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	}
	return false
}

func toID(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), t > 0
	}
	return 0, false
}

func clone(r Record, secrets bool) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	if !secrets {
		for _, k := range hidden {
			delete(out, k)
		}
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	}
	return v
}

func (s *Store) count(coll string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.coll(coll).rows)
}
