package preference

// Record is one stored food preference. Records are never mutated or deleted.
type Record struct {
	ID        string `json:"id" dynamodbav:"id"`
	Name      string `json:"name" dynamodbav:"name"`
	Food      string `json:"food" dynamodbav:"food"`
	Location  string `json:"location" dynamodbav:"location"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp"`
}
