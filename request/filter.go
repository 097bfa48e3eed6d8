package request

import "strings"

// Filter holds criteria for streaming requests from a record source.
// Zero-valued fields do not constrain the result; the zero Filter selects
// every request.
type Filter struct {
	OwnerID      string   `json:"owner_id,omitempty"`
	Statuses     []Status `json:"statuses,omitempty"`
	TrackingCode string   `json:"tracking_code,omitempty"`
	Category     string   `json:"category,omitempty"` // case-insensitive
}

// ForOwner returns a Filter selecting one owner's requests.
func ForOwner(ownerID string) Filter {
	return Filter{OwnerID: ownerID}
}

// ForStatus returns a Filter selecting requests in any of the given states.
func ForStatus(statuses ...Status) Filter {
	return Filter{Statuses: statuses}
}

// ForTrackingCode returns a Filter selecting the request with code.
func ForTrackingCode(code string) Filter {
	return Filter{TrackingCode: code}
}

// IsZero reports whether f selects every request.
func (f Filter) IsZero() bool {
	return f.OwnerID == "" && len(f.Statuses) == 0 && f.TrackingCode == "" && f.Category == ""
}

// Match reports whether r satisfies every criterion in f.
func (f Filter) Match(r *Request) bool {
	if r == nil {
		return false
	}
	if f.OwnerID != "" && r.OwnerID != f.OwnerID {
		return false
	}
	if f.TrackingCode != "" && r.TrackingCode != f.TrackingCode {
		return false
	}
	if f.Category != "" && !strings.EqualFold(r.Category, f.Category) {
		return false
	}
	if len(f.Statuses) > 0 {
		for _, s := range f.Statuses {
			if r.Status == s {
				return true
			}
		}
		return false
	}
	return true
}
