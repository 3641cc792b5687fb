package domain

import (
	"net/url"
	"strings"
	"time"
)

// OrderBy selects the field the remote API orders a listing by.
type OrderBy string

const (
	OrderByCreatedAt OrderBy = "created_at"
	OrderByUpdatedAt OrderBy = "updated_at"
	OrderByTitle     OrderBy = "title"
)

// Sort selects the listing direction.
type Sort string

const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
)

// Scope restricts a listing to merge requests related to the token owner.
type Scope string

const (
	ScopeCreatedByMe  Scope = "created_by_me"
	ScopeAssignedToMe Scope = "assigned_to_me"
	ScopeAll          Scope = "all"
)

// Draft filters a listing by draft (work-in-progress) status.
// The wire parameter GitLab accepts for this is still called "wip".
type Draft string

const (
	DraftYes Draft = "yes"
	DraftNo  Draft = "no"
)

// Query holds the filter criteria shared by every listing fetch.
// All fields are optional; zero values for OrderBy, Scope and Sort encode
// as their defaults (created_at, created_by_me, desc). No cross-field
// validation is performed — an inconsistent combination such as
// CreatedAfter > CreatedBefore is passed through to the API verbatim.
type Query struct {
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
	OrderBy       OrderBy
	Scope         Scope
	Sort          Sort
	State         State // empty means no state filter
	Draft         Draft // empty means no draft filter
}

// Values encodes the query as URL query parameters. Timestamps are
// RFC 3339; absent optional fields are omitted entirely rather than sent
// empty.
func (q Query) Values() url.Values {
	v := url.Values{}

	setTime := func(key string, t *time.Time) {
		if t != nil {
			v.Set(key, t.UTC().Format(time.RFC3339))
		}
	}
	setTime("created_after", q.CreatedAfter)
	setTime("created_before", q.CreatedBefore)
	setTime("updated_after", q.UpdatedAfter)
	setTime("updated_before", q.UpdatedBefore)

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = OrderByCreatedAt
	}
	v.Set("order_by", string(orderBy))

	scope := q.Scope
	if scope == "" {
		scope = ScopeCreatedByMe
	}
	v.Set("scope", string(scope))

	sort := q.Sort
	if sort == "" {
		sort = SortDesc
	}
	v.Set("sort", string(sort))

	if q.State != "" {
		v.Set("state", string(q.State))
	}
	if q.Draft != "" {
		v.Set("wip", string(q.Draft))
	}

	return v
}

// Target identifies one domain a merge request listing is executed
// against: either everything authored by one user, or everything in one
// project. A Target is always exactly one of the two, never both.
type Target struct {
	kind  targetKind
	value string
}

type targetKind int

const (
	targetAuthor targetKind = iota
	targetProject
)

// ByAuthor returns a Target selecting merge requests authored by the
// given username.
func ByAuthor(username string) Target {
	return Target{kind: targetAuthor, value: username}
}

// ByProject returns a Target selecting merge requests of the project at
// the given path (e.g. "group/app").
func ByProject(path string) Target {
	return Target{kind: targetProject, value: path}
}

// AuthorUsername returns the username and true for author targets.
// The value is passed as a literal query parameter; the transport layer
// handles query encoding.
func (t Target) AuthorUsername() (string, bool) {
	return t.value, t.kind == targetAuthor
}

// ProjectPath returns the raw project path and true for project targets.
func (t Target) ProjectPath() (string, bool) {
	return t.value, t.kind == targetProject
}

// EncodedProjectPath returns the project path percent-encoded for use as
// a single URL path segment, and true for project targets. Everything
// except ASCII letters and digits is encoded, including "/", "-" and ".".
func (t Target) EncodedProjectPath() (string, bool) {
	if t.kind != targetProject {
		return "", false
	}
	return EncodeProjectPath(t.value), true
}

const upperhex = "0123456789ABCDEF"

// EncodeProjectPath percent-encodes a project path so it is safe as one
// URL path segment. Only ASCII letters and digits are left as-is.
func EncodeProjectPath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}
	return b.String()
}

// String returns a human readable form used in logs.
func (t Target) String() string {
	if t.kind == targetAuthor {
		return "author:" + t.value
	}
	return "project:" + t.value
}
