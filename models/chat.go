package models

type Message struct {
	MessageID string `json:"messageid,omitempty" bson:"messageid,omitempty"`
	Room      string `json:"room" bson:"room"`
	SenderID  string `json:"senderId" bson:"senderId"`
	Content   string `json:"content,omitempty" bson:"content,omitempty"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

// Index represents an activity event emitted over the message queue.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
