package memory

import (
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	cases *caseRepository
	users *userRepository
	pets  *petRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		cases: newCaseRepository(),
		users: newUserRepository(),
		pets:  newPetRepository(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.cases
}

func (m *Memory) User() interfaces.UserRepository {
	return m.users
}

func (m *Memory) Pet() interfaces.PetRepository {
	return m.pets
}

func (m *Memory) Close() error {
	return nil
}
