package persistence

// Store keeps snapshots in named slots. Saving to an existing slot
// replaces it. Implementations are safe for concurrent use.
type Store interface {
	Save(s *Snapshot) error
	Load(slot string) (*Snapshot, error)
	List() ([]SaveInfo, error)
	Delete(slot string) error
	Close() error
}
