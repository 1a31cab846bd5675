package entity

// PhotoStatus is the lifecycle of a PhotoRecord: Pending until thumbnails are written.
type PhotoStatus string

const (
	PhotoPending   PhotoStatus = "pending"
	PhotoPopulated PhotoStatus = "populated"
)

// OutboxStatus tracks delivery of an outbox event to the broker.
type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxProcessed  OutboxStatus = "processed"
	OutboxFailed     OutboxStatus = "failed"
)
