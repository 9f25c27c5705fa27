package domain

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// WizardEvent is one audited wizard operation.
type WizardEvent struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Step      Step      `json:"step" bson:"step"`
	Action    string    `json:"action" bson:"action"`
	Outcome   string    `json:"outcome" bson:"outcome"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
