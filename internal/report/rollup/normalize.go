// Package rollup folds shift allowance facts into the client summary
// tree: period, client, department, and employee levels with shift-wise
// bucket totals and head counts.
package rollup

import (
	"strings"

	"github.com/shiftpay/shiftpay-backend/pkg/errors"
)

// ClientFilter is the normalized clients selection of a summary request.
// Keys of Departments are lowercased client names mapping to lowercased
// department names; the display maps recover the names as the caller sent
// them.
type ClientFilter struct {
	Departments map[string][]string

	clientNames map[string]string
	deptNames   map[string]map[string]string
}

// NormalizeClients parses the clients field of a summary request. Nil,
// "ALL", and empty selections mean no client filtering.
func NormalizeClients(v interface{}) (*ClientFilter, error) {
	filter := &ClientFilter{
		Departments: make(map[string][]string),
		clientNames: make(map[string]string),
		deptNames:   make(map[string]map[string]string),
	}

	switch payload := v.(type) {
	case nil:
		return filter, nil
	case string:
		if payload == "" || payload == "ALL" {
			return filter, nil
		}
	case []interface{}:
		if len(payload) == 0 {
			return filter, nil
		}
	case map[string]interface{}:
		for client, depts := range payload {
			clientLC := strings.ToLower(client)
			filter.clientNames[clientLC] = client
			filter.Departments[clientLC] = []string{}

			if depts == nil {
				continue
			}
			list, ok := depts.([]interface{})
			if !ok {
				return nil, errClientsShape()
			}
			for _, d := range list {
				dept, ok := d.(string)
				if !ok {
					return nil, errClientsShape()
				}
				deptLC := strings.ToLower(dept)
				if filter.deptNames[clientLC] == nil {
					filter.deptNames[clientLC] = make(map[string]string)
				}
				filter.deptNames[clientLC][deptLC] = dept
				filter.Departments[clientLC] = append(filter.Departments[clientLC], deptLC)
			}
		}
		return filter, nil
	}

	return nil, errClientsShape()
}

func errClientsShape() error {
	return errors.BadRequest("clients must be 'ALL' or {client: [departments]}")
}

// HasFilter reports whether any client was requested.
func (f *ClientFilter) HasFilter() bool {
	return len(f.Departments) > 0
}

// DisplayClient resolves the display name for a fact's client: the name
// as the caller sent it when filtered, otherwise the trimmed stored value,
// or UNKNOWN when blank.
func (f *ClientFilter) DisplayClient(raw string) string {
	safe := strings.TrimSpace(raw)
	if name, ok := f.clientNames[strings.ToLower(safe)]; ok {
		return name
	}
	if safe == "" {
		return "UNKNOWN"
	}
	return safe
}

// DisplayDepartment resolves the display name for a fact's department
// within its client.
func (f *ClientFilter) DisplayDepartment(rawClient, rawDept string) string {
	clientLC := strings.ToLower(strings.TrimSpace(rawClient))
	safe := strings.TrimSpace(rawDept)
	if depts, ok := f.deptNames[clientLC]; ok {
		if name, ok := depts[strings.ToLower(safe)]; ok {
			return name
		}
	}
	if safe == "" {
		return "UNKNOWN"
	}
	return safe
}
