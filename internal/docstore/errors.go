package docstore

import "errors"

// ErrUnavailable indicates the remote store could not be reached. Callers
// keep their optimistic local state and surface a transient notice.
var ErrUnavailable = errors.New("docstore: unavailable")
