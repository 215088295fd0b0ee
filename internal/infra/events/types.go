package events

// Gallery event type constants.
const (
	GalleryBatchAddedType    = "GalleryBatchAdded"
	GalleryRecordUpdatedType = "GalleryRecordUpdated"
	GalleryRecordDeletedType = "GalleryRecordDeleted"
)

// GalleryBatchAddedEvent is emitted when new records are prepended to
// the gallery.
type GalleryBatchAddedEvent struct {
	BaseEvent

	// RecordIDs are the ids of the added records, newest first.
	RecordIDs []string `json:"record_ids"`

	// Size is the gallery size after the mutation.
	Size int `json:"size"`
}

// NewGalleryBatchAddedEvent creates a new GalleryBatchAddedEvent.
func NewGalleryBatchAddedEvent(recordIDs []string, size int) *GalleryBatchAddedEvent {
	first := ""
	if len(recordIDs) > 0 {
		first = recordIDs[0]
	}
	return &GalleryBatchAddedEvent{
		BaseEvent: NewBaseEvent(GalleryBatchAddedType, first, "Gallery"),
		RecordIDs: recordIDs,
		Size:      size,
	}
}

// GalleryRecordUpdatedEvent is emitted when a record's favorite flag
// is toggled.
type GalleryRecordUpdatedEvent struct {
	BaseEvent

	// RecordID is the id of the updated record.
	RecordID string `json:"record_id"`

	// IsFavorite is the flag value after the toggle.
	IsFavorite bool `json:"is_favorite"`
}

// NewGalleryRecordUpdatedEvent creates a new GalleryRecordUpdatedEvent.
func NewGalleryRecordUpdatedEvent(recordID string, isFavorite bool) *GalleryRecordUpdatedEvent {
	return &GalleryRecordUpdatedEvent{
		BaseEvent:  NewBaseEvent(GalleryRecordUpdatedType, recordID, "Gallery"),
		RecordID:   recordID,
		IsFavorite: isFavorite,
	}
}

// GalleryRecordDeletedEvent is emitted when a record is removed.
type GalleryRecordDeletedEvent struct {
	BaseEvent

	// RecordID is the id of the deleted record.
	RecordID string `json:"record_id"`

	// Size is the gallery size after the mutation.
	Size int `json:"size"`
}

// NewGalleryRecordDeletedEvent creates a new GalleryRecordDeletedEvent.
func NewGalleryRecordDeletedEvent(recordID string, size int) *GalleryRecordDeletedEvent {
	return &GalleryRecordDeletedEvent{
		BaseEvent: NewBaseEvent(GalleryRecordDeletedType, recordID, "Gallery"),
		RecordID:  recordID,
		Size:      size,
	}
}
