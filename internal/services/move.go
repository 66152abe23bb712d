package services

// Location is a slot in a draggable list. Bucket names the column the slot
// belongs to; lists without columns leave it empty.
type Location struct {
	Bucket string
	Index  int
}

// Move describes a finished drag. Destination is nil when the item was dropped
// outside every list.
type Move struct {
	ItemID      int
	Source      Location
	Destination *Location
}

func (m Move) IsNoop() bool {
	return m.Destination == nil || *m.Destination == m.Source
}

func (m Move) ChangesBucket() bool {
	return m.Destination != nil && m.Destination.Bucket != m.Source.Bucket
}
