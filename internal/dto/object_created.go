package dto

// ObjectCreated is one "object created" notification from the source bucket.
type ObjectCreated struct {
	Bucket string
	Key    string
}
