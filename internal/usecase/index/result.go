package index

import "encoding/json"

// Result is the outcome of indexing one post.
type Result struct {
	id  string
	err error
}

func ok(id string) Result                { return Result{id: id} }
func failed(id string, err error) Result { return Result{id: id, err: err} }

// ID returns the post ID, including one assigned during indexing.
func (r Result) ID() string { return r.id }

// Err returns the indexing error, if any.
func (r Result) Err() error { return r.err }

// OK reports whether the post was indexed.
func (r Result) OK() bool { return r.err == nil }

// MarshalJSON renders {"id":..,"status":"ok"|"error","error":..} for CLI output.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}{ID: r.id, Status: "ok"}
	if r.err != nil {
		out.Status = "error"
		out.Error = r.err.Error()
	}
	return json.Marshal(out)
}
