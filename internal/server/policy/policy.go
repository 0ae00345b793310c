// Package policy decides whether an actor may read, write or delete a book.
//
// Private books are visible only to their owner; a non-owner is told the
// book does not exist, whatever the operation. Shared books are readable by
// any authenticated actor and writable only by their owner.
package policy

import "github.com/dmitrijs2005/bookkeeper/internal/common"

// Visibility is the access class of a resource family.
type Visibility int

const (
	Private Visibility = iota
	Shared
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// Operation is the kind of access requested.
type Operation int

const (
	Read Operation = iota
	Write
	Delete
)

func (o Operation) String() string {
	switch o {
	case Read:
		return "read"
	case Write:
		return "write"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Resource is anything with an owner.
type Resource interface {
	OwnerKey() string
}

// Decision is the outcome of Authorize. Reason is nil when Allowed.
type Decision struct {
	Allowed bool
	Reason  error
}

// Err returns nil for an allow decision and the deny reason otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

var allow = Decision{Allowed: true}

func deny(reason error) Decision {
	return Decision{Reason: reason}
}

// Authorize is a pure function of its arguments. A nil resource means the
// lookup found nothing and is always reported as common.ErrorNotFound before
// ownership is considered.
func Authorize(actorID string, r Resource, op Operation, vis Visibility) Decision {
	if r == nil {
		return deny(common.ErrorNotFound)
	}
	if actorID == "" {
		return deny(common.ErrUnauthenticated)
	}

	owner := r.OwnerKey() == actorID

	switch vis {
	case Private:
		if owner {
			return allow
		}
		return deny(common.ErrorNotFound)

	case Shared:
		if op == Read || owner {
			return allow
		}
		return deny(common.ErrNotAuthorized)

	default:
		return deny(common.ErrNotAuthorized)
	}
}
