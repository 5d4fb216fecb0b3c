package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Case() CaseRepository
	User() UserRepository
	Pet() PetRepository

	Close() error
}
