package apiclient

import (
	"fmt"
	"net/http"
)

// NetworkError reports a request that never produced a usable response:
// dial/transport failures and undecodable bodies.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError reports a non-2xx answer from the collaborator.
type RemoteError struct {
	Op     string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: remote error: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: remote error: %d %s: %s", e.Op, e.Status, http.StatusText(e.Status), e.Body)
}
