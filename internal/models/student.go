package models

// Student is one row of the roster masterlist: the learner's badge number,
// display name, and the single period during which they may take a pass.
// The roster is loaded once at startup and immutable for the process
// lifetime.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Period Period `json:"period"`
}
